package http

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/melih/lighthouse-helper/internal/core/domain"
	"github.com/melih/lighthouse-helper/internal/core/executor"
)

const (
	eventBuffer       = 256
	keepAliveInterval = 15 * time.Second
)

// Events streams lane notifications to the client as server-sent events,
// one JSON-encoded domain.Event per message.
func (h *ContainerHandler) Events(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	feed := executor.NewFeed(eventBuffer)
	unsubscribe := h.lane.Subscribe(feed)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			unsubscribe()
			feed.Close()
			if dropped := feed.Dropped(); dropped > 0 {
				h.logger.Warn("event stream dropped events", zap.Int64("dropped", dropped))
			}
		}()

		ticker := time.NewTicker(keepAliveInterval)
		defer ticker.Stop()
		for {
			select {
			case e, ok := <-feed.Events():
				if !ok {
					return
				}
				if err := writeEvent(w, e); err != nil {
					return
				}
			case <-ticker.C:
				fmt.Fprint(w, ": keep-alive\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	})
	return nil
}

func writeEvent(w *bufio.Writer, e domain.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, data)
	return w.Flush()
}
