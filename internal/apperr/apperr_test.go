package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/popcorn-picks/backend/internal/apperr"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.NotFoundf("gone"), 404},
		{apperr.Forbiddenf("nope"), 403},
		{apperr.Conflictf("dup"), 409},
		{apperr.InvalidStatef("bad"), 422},
		{fmt.Errorf("%w: boom", apperr.ErrUpstreamUnavailable), 502},
		{fmt.Errorf("%w: garbage", apperr.ErrMalformedUpstream), 502},
		{errors.New("database exploded"), 500},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, apperr.HTTPStatus(tc.err), tc.err.Error())
	}
}

func TestWrappedMessageAndIdentity(t *testing.T) {
	err := apperr.NotFoundf("no account matches")
	assert.Equal(t, "no account matches", err.Error())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.True(t, apperr.IsTaxonomy(err))
	assert.False(t, apperr.IsTaxonomy(errors.New("internal")))
}
