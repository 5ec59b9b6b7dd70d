package handlers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/walkin-queue/internal/live"
	"github.com/BruksfildServices01/walkin-queue/internal/middleware"
)

// ======================================================
// HANDLER
// ======================================================

type LiveHandler struct {
	hub  *live.Hub
	feed *live.Feed
}

func NewLiveHandler(hub *live.Hub, feed *live.Feed) *LiveHandler {
	return &LiveHandler{hub: hub, feed: feed}
}

// CustomerStream pushes the caller's position and wait as SSE frames,
// one frame per queue snapshot.
func (h *LiveHandler) CustomerStream(c *gin.Context) {
	customerID := c.MustGet(middleware.ContextUserID).(uint)

	h.stream(c, &live.Observer{
		ID:         uuid.NewString(),
		Kind:       live.KindCustomer,
		CustomerID: customerID,
		Send:       make(chan []byte, 8),
	})
}

// BoardStream pushes the full rank-ordered queue table to a staff
// screen.
func (h *LiveHandler) BoardStream(c *gin.Context) {
	h.stream(c, &live.Observer{
		ID:   uuid.NewString(),
		Kind: live.KindStaff,
		Send: make(chan []byte, 8),
	})
}

func (h *LiveHandler) stream(c *gin.Context, observer *live.Observer) {
	h.hub.Register(observer)
	defer h.hub.Unregister(observer)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// first frame immediately, before any store change arrives
	h.feed.Refresh(c.Request.Context())

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case payload, ok := <-observer.Send:
			if !ok {
				return false
			}
			c.SSEvent("queue", string(payload))
			return true
		}
	})
}
