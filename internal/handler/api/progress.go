package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	pkghttp "FundCorr/pkg/http"
	"FundCorr/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleProgress streams the progress events of one collection run over a
// WebSocket. Clients pick a run id (any UUID), subscribe here first, then
// post it as run_id to the correlation endpoint; subscribing to a
// finished or unknown run simply yields no events.
func (h *Handler) handleProgress(c echo.Context) error {
	runID := c.QueryParam("run")
	if _, err := uuid.Parse(runID); err != nil {
		return pkghttp.AppErrorResponse(c,
			pkghttp.BadRequestError("run must be a valid run id"))
	}

	// subscribe before the handshake completes so no event published
	// right after the upgrade can slip past
	events, cancel := h.hub.Subscribe(runID)
	defer cancel()

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the handshake failure
		return nil
	}
	defer conn.Close()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := conn.WriteJSON(ev); err != nil {
				h.log.Debug("progress subscriber gone", logger.String("run_id", runID))
				return nil
			}
		}
	}
}
