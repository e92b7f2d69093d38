package services

import (
	"go.uber.org/zap"

	"maintenance-system/pkg/websocket"
)

// WebSocketNotificationServiceInterface is the push side of the live request feed.
type WebSocketNotificationServiceInterface interface {
	SendNotification(userID uint64, payload interface{}, messageType string) error
	Broadcast(payload interface{}, messageType string) error
}

type WebSocketNotificationService struct {
	hub    *websocket.Hub
	logger *zap.Logger
}

func NewWebSocketNotificationService(hub *websocket.Hub, logger *zap.Logger) WebSocketNotificationServiceInterface {
	return &WebSocketNotificationService{
		hub:    hub,
		logger: logger,
	}
}

func (s *WebSocketNotificationService) SendNotification(userID uint64, payload interface{}, messageType string) error {
	s.logger.Debug("sending websocket notification",
		zap.Uint64("user_id", userID),
		zap.String("type", messageType),
	)
	return s.hub.SendMessageToUser(userID, payload, messageType)
}

func (s *WebSocketNotificationService) Broadcast(payload interface{}, messageType string) error {
	return s.hub.Broadcast(messageType, payload)
}
