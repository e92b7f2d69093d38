package controllers

import (
	"context"
	"net/http"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/utils"
	appwebsocket "maintenance-system/pkg/websocket"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TokenAuthenticator resolves an access token to its user.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*entities.User, error)
}

type WebSocketController struct {
	hub    *appwebsocket.Hub
	auth   TokenAuthenticator
	logger *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, auth TokenAuthenticator, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{
		hub:    hub,
		auth:   auth,
		logger: logger,
	}
}

// ServeWs takes the token from the query string since browsers cannot set
// headers on a websocket handshake.
func (c *WebSocketController) ServeWs(ctx echo.Context) error {
	token := ctx.QueryParam("token")
	if token == "" {
		return ctx.JSON(http.StatusUnauthorized, utils.HTTPResponse{Status: false, Message: "Missing token"})
	}

	user, err := c.auth.Authenticate(ctx.Request().Context(), token)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		c.logger.Error("websocket upgrade failed", zap.Uint64("user_id", user.ID), zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(c.hub, conn, user.ID)
	c.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
	return nil
}
