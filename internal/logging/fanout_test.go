package logging

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	level   slog.Level
	records []slog.Record
	err     error
}

func (r *recordingSink) Enabled(_ context.Context, level slog.Level) bool {
	return level >= r.level
}

func (r *recordingSink) Handle(_ context.Context, record slog.Record) error {
	r.records = append(r.records, record)
	return r.err
}

func (r *recordingSink) WithAttrs([]slog.Attr) slog.Handler { return r }
func (r *recordingSink) WithGroup(string) slog.Handler      { return r }

func newRecord(level slog.Level, msg string) slog.Record {
	return slog.NewRecord(time.Now(), level, msg, 0)
}

func TestFanoutDeliversToSinksByLevel(t *testing.T) {
	stdout := &recordingSink{level: slog.LevelInfo}
	pg := &recordingSink{level: slog.LevelError}
	f := NewFanout(stdout, pg)

	require.NoError(t, f.Handle(context.Background(), newRecord(slog.LevelInfo, "hello")))
	require.NoError(t, f.Handle(context.Background(), newRecord(slog.LevelError, "boom")))

	assert.Len(t, stdout.records, 2)
	require.Len(t, pg.records, 1)
	assert.Equal(t, "boom", pg.records[0].Message)
}

func TestFanoutFailingSinkDoesNotBlockOthers(t *testing.T) {
	broken := &recordingSink{level: slog.LevelInfo, err: errors.New("db down")}
	healthy := &recordingSink{level: slog.LevelInfo}
	f := NewFanout(broken, healthy)

	err := f.Handle(context.Background(), newRecord(slog.LevelInfo, "still logged"))
	assert.Error(t, err)
	require.Len(t, healthy.records, 1)
	assert.Equal(t, "still logged", healthy.records[0].Message)
}

func TestFanoutEnabledIsAnySink(t *testing.T) {
	f := NewFanout(&recordingSink{level: slog.LevelWarn}, &recordingSink{level: slog.LevelError})
	assert.False(t, f.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, f.Enabled(context.Background(), slog.LevelWarn))
	assert.False(t, NewFanout().Enabled(context.Background(), slog.LevelError))
}
