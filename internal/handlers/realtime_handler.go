package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/popcorn-picks/backend/internal/realtime"
	"github.com/popcorn-picks/backend/internal/services"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// RealtimeHandler streams couple events (matches, watchlist changes) over a
// websocket. One connection per client; the broker fans out per couple.
type RealtimeHandler struct {
	broker         realtime.Broker
	partnerService *services.PartnerService
}

func NewRealtimeHandler(broker realtime.Broker, partner *services.PartnerService) *RealtimeHandler {
	return &RealtimeHandler{broker: broker, partnerService: partner}
}

// Upgrade gates the websocket route: it rejects plain HTTP requests and
// resolves the caller's couple before the protocol switch, since the
// connection handler no longer has a request context to respond on.
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	couple, errResp := requireCouple(c, h.partnerService)
	if couple == nil {
		return errResp
	}
	c.Locals("coupleID", couple.ID)
	return c.Next()
}

// Serve is the connection handler mounted behind Upgrade.
func (h *RealtimeHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		coupleID, ok := conn.Locals("coupleID").(uuid.UUID)
		if !ok {
			conn.Close()
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sub, err := h.broker.Subscribe(ctx, coupleID)
		if err != nil {
			slog.Error("failed to subscribe to couple events", "error", err, "couple_id", coupleID)
			conn.Close()
			return
		}
		defer sub.Close()

		// reader exists only to notice the peer going away
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case ev, open := <-sub.C:
				if !open {
					return
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(ev); err != nil {
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-ctx.Done():
				return
			}
		}
	})
}
