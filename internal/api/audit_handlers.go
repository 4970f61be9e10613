package api

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"columbarium-backend/internal/audit"
)

var auditHub *audit.Hub

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// listAuditLogs handles GET /api/audit/list-all, newest first
func listAuditLogs(c echo.Context) error {
	logs, err := auditRepo.List()
	if err != nil {
		return recordsError(c, err)
	}
	return c.JSON(http.StatusOK, logs)
}

// auditStream handles GET /api/audit/ws. Each connected client receives every
// audit entry persisted after it subscribed; dropped entries are recoverable
// from the list endpoint.
func auditStream(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	ch := auditHub.Subscribe()
	defer auditHub.Unsubscribe(ch)

	// Reader goroutine detects client disconnect; inbound frames are ignored
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case entry, ok := <-ch:
			if !ok {
				return nil
			}
			if err := ws.WriteJSON(entry); err != nil {
				return nil
			}
		case <-done:
			return nil
		}
	}
}
