package listeners

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/websocket"
)

// MessageRequestAssigned goes only to the technician a request was handed to.
const MessageRequestAssigned = "request.assigned"

// RequestFeedListener mirrors request lifecycle events onto the websocket feed.
type RequestFeedListener struct {
	wsNotificationService services.WebSocketNotificationServiceInterface
	logger                *zap.Logger
}

func NewRequestFeedListener(wsNotificationService services.WebSocketNotificationServiceInterface, logger *zap.Logger) *RequestFeedListener {
	return &RequestFeedListener{wsNotificationService: wsNotificationService, logger: logger}
}

func (l *RequestFeedListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.RequestCreatedEvent, l.handleCreated)
	bus.Subscribe(events.RequestUpdatedEvent, l.handleUpdated)
	bus.Subscribe(events.RequestStageChangedEvent, l.handleStageChanged)
	bus.Subscribe(events.RequestDeletedEvent, l.handleDeleted)
	l.logger.Info("request feed listener subscribed")
}

func requestPayload(req entities.MaintenanceRequest, actorID uint64) websocket.RequestEventPayload {
	return websocket.RequestEventPayload{
		RequestID:    req.ID,
		Title:        req.Title,
		Stage:        string(req.Stage),
		TechnicianID: req.TechnicianID,
		ActorID:      actorID,
	}
}

func (l *RequestFeedListener) handleCreated(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestCreated)
	if !ok {
		return nil
	}
	payload := requestPayload(e.Request, e.ActorID)
	if err := l.wsNotificationService.Broadcast(payload, e.Name()); err != nil {
		return err
	}
	return l.notifyTechnician(e.Request, e.ActorID, payload)
}

func (l *RequestFeedListener) handleUpdated(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestUpdated)
	if !ok {
		return nil
	}
	payload := requestPayload(e.Request, e.ActorID)
	if err := l.wsNotificationService.Broadcast(payload, e.Name()); err != nil {
		return err
	}
	if !e.TechnicianChanged {
		return nil
	}
	return l.notifyTechnician(e.Request, e.ActorID, payload)
}

func (l *RequestFeedListener) handleStageChanged(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestStageChanged)
	if !ok {
		return nil
	}
	payload := requestPayload(e.Request, e.ActorID)
	payload.FromStage = string(e.From)
	return l.wsNotificationService.Broadcast(payload, e.Name())
}

func (l *RequestFeedListener) handleDeleted(_ context.Context, event eventbus.Event) error {
	e, ok := event.(events.RequestDeleted)
	if !ok {
		return nil
	}
	return l.wsNotificationService.Broadcast(websocket.RequestEventPayload{RequestID: e.RequestID, ActorID: e.ActorID}, e.Name())
}

// notifyTechnician skips self-assignment.
func (l *RequestFeedListener) notifyTechnician(req entities.MaintenanceRequest, actorID uint64, payload websocket.RequestEventPayload) error {
	if req.TechnicianID == nil || *req.TechnicianID == actorID {
		return nil
	}
	return l.wsNotificationService.SendNotification(*req.TechnicianID, payload, MessageRequestAssigned)
}
