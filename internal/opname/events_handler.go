package opname

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"opname-backend/internal/events"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// GET /api/sessions/:id/events
// Server-sent event stream the input screen listens on to know when to
// refresh. Every successful entry or session write publishes here.
func SessionEventsHandler(hub *events.Hub) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := sessionIDParam(c)
		if err != nil {
			return err
		}
		if _, err := findSession(id); err != nil {
			return err
		}

		c.Set(fiber.HeaderContentType, "text/event-stream")
		c.Set(fiber.HeaderCacheControl, "no-cache")
		c.Set(fiber.HeaderConnection, "keep-alive")

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			ch, cancel := hub.Subscribe(uint(id))
			defer cancel()

			keepalive := time.NewTicker(15 * time.Second)
			defer keepalive.Stop()

			for {
				select {
				case ev, ok := <-ch:
					if !ok {
						return
					}
					payload, err := json.Marshal(ev)
					if err != nil {
						continue
					}
					fmt.Fprintf(w, "data: %s\n\n", payload)
				case <-keepalive.C:
					fmt.Fprint(w, ": keepalive\n\n")
				}
				// A failed flush means the client went away.
				if err := w.Flush(); err != nil {
					return
				}
			}
		}))

		return nil
	}
}
