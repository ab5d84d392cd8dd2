package handler

import (
	"context"
	"time"

	"ai-retrieval-be/internal/dto"
	"ai-retrieval-be/internal/pkg/logger"
	"ai-retrieval-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// wsQueryTimeout bounds a single retrieval so one stuck backend cannot hold
// the connection's read loop forever.
const wsQueryTimeout = 60 * time.Second

// RetrievalWsHandler serves interactive retrieval over a WebSocket: the
// client sends query messages, the server answers each with a full retrieval
// result on the same connection.
type RetrievalWsHandler struct {
	retrievalService service.IRetrievalService
	logger           logger.ILogger
}

func NewRetrievalWsHandler(retrievalService service.IRetrievalService, log logger.ILogger) *RetrievalWsHandler {
	return &RetrievalWsHandler{
		retrievalService: retrievalService,
		logger:           log,
	}
}

func (h *RetrievalWsHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/retrieval/v1")
	g.Get("ws", h.ServeWs)
}

type wsQueryMessage struct {
	Query  string `json:"query"`
	UserId string `json:"user_id"`
}

type wsErrorMessage struct {
	Error string `json:"error"`
}

// ServeWs upgrades the connection and runs the query loop until the client
// disconnects.
func (h *RetrievalWsHandler) ServeWs(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("RetrievalWsHandler", "Starting WebSocket session", map[string]interface{}{"remote": conn.RemoteAddr().String()})
			h.serveSession(conn)
			h.logger.Info("RetrievalWsHandler", "WebSocket session ended", nil)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *RetrievalWsHandler) serveSession(conn *websocket.Conn) {
	for {
		var msg wsQueryMessage
		if err := conn.ReadJSON(&msg); err != nil {
			// Closed connection or unreadable frame, either way we are done
			return
		}

		res, err := h.retrieve(&msg)
		if err != nil {
			if writeErr := conn.WriteJSON(wsErrorMessage{Error: err.Error()}); writeErr != nil {
				return
			}
			continue
		}

		if err := conn.WriteJSON(res); err != nil {
			return
		}
	}
}

func (h *RetrievalWsHandler) retrieve(msg *wsQueryMessage) (*dto.RetrieveResponse, error) {
	ctx, cancel := context.WithTimeout(context.Background(), wsQueryTimeout)
	defer cancel()

	return h.retrievalService.Retrieve(ctx, &dto.RetrieveRequest{
		Query:  msg.Query,
		UserId: msg.UserId,
	})
}
