package listeners

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"maintenance-system/internal/entities"
	"maintenance-system/internal/events"
	"maintenance-system/pkg/eventbus"
	"maintenance-system/pkg/websocket"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendNotification(userID uint64, payload interface{}, messageType string) error {
	return m.Called(userID, payload, messageType).Error(0)
}

func (m *mockNotifier) Broadcast(payload interface{}, messageType string) error {
	return m.Called(payload, messageType).Error(0)
}

type mockReportService struct {
	mock.Mock
}

func (m *mockReportService) GetStats(ctx context.Context) (*entities.Stats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*entities.Stats)
	return stats, args.Error(1)
}

func (m *mockReportService) GetRequestsForExport(ctx context.Context, start, end time.Time) ([]entities.MaintenanceRequest, error) {
	args := m.Called(ctx, start, end)
	items, _ := args.Get(0).([]entities.MaintenanceRequest)
	return items, args.Error(1)
}

func (m *mockReportService) InvalidateStats(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func uptr(v uint64) *uint64 { return &v }

func TestRequestFeed_CreatedNotifiesAssignedTechnician(t *testing.T) {
	notifier := new(mockNotifier)
	l := NewRequestFeedListener(notifier, zap.NewNop())

	req := entities.MaintenanceRequest{ID: 3, Title: "Pump leak", Stage: entities.StageNew, TechnicianID: uptr(9)}
	notifier.On("Broadcast", mock.Anything, events.RequestCreatedEvent).Return(nil).Once()
	notifier.On("SendNotification", uint64(9), mock.Anything, MessageRequestAssigned).Return(nil).Once()

	require.NoError(t, l.handleCreated(context.Background(), events.RequestCreated{Request: req, ActorID: 1}))
	notifier.AssertExpectations(t)

	payload := notifier.Calls[0].Arguments.Get(0).(websocket.RequestEventPayload)
	assert.Equal(t, uint64(3), payload.RequestID)
	assert.Equal(t, "NEW", payload.Stage)
}

func TestRequestFeed_SelfAssignmentIsNotNotified(t *testing.T) {
	notifier := new(mockNotifier)
	l := NewRequestFeedListener(notifier, zap.NewNop())

	req := entities.MaintenanceRequest{ID: 3, TechnicianID: uptr(9)}
	notifier.On("Broadcast", mock.Anything, events.RequestUpdatedEvent).Return(nil).Once()

	require.NoError(t, l.handleUpdated(context.Background(), events.RequestUpdated{Request: req, ActorID: 9, TechnicianChanged: true}))
	notifier.AssertExpectations(t)
	notifier.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestFeed_UpdateWithoutReassignmentOnlyBroadcasts(t *testing.T) {
	notifier := new(mockNotifier)
	l := NewRequestFeedListener(notifier, zap.NewNop())

	req := entities.MaintenanceRequest{ID: 3, TechnicianID: uptr(9)}
	notifier.On("Broadcast", mock.Anything, events.RequestUpdatedEvent).Return(nil).Once()

	require.NoError(t, l.handleUpdated(context.Background(), events.RequestUpdated{Request: req, ActorID: 1}))
	notifier.AssertNotCalled(t, "SendNotification", mock.Anything, mock.Anything, mock.Anything)
}

func TestRequestFeed_StageChangedCarriesPreviousStage(t *testing.T) {
	notifier := new(mockNotifier)
	l := NewRequestFeedListener(notifier, zap.NewNop())

	req := entities.MaintenanceRequest{ID: 4, Stage: entities.StageRepaired}
	notifier.On("Broadcast", mock.Anything, events.RequestStageChangedEvent).Return(nil).Once()

	require.NoError(t, l.handleStageChanged(context.Background(), events.RequestStageChanged{
		Request: req, From: entities.StageInProgress, To: entities.StageRepaired, ActorID: 2,
	}))
	payload := notifier.Calls[0].Arguments.Get(0).(websocket.RequestEventPayload)
	assert.Equal(t, "IN_PROGRESS", payload.FromStage)
	assert.Equal(t, "REPAIRED", payload.Stage)
}

func TestRequestFeed_IgnoresForeignEvents(t *testing.T) {
	notifier := new(mockNotifier)
	l := NewRequestFeedListener(notifier, zap.NewNop())

	require.NoError(t, l.handleCreated(context.Background(), events.RequestDeleted{RequestID: 1}))
	notifier.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything)
}

func TestStatsCache_InvalidatesOnEvent(t *testing.T) {
	reports := new(mockReportService)
	l := NewStatsCacheListener(reports, zap.NewNop())

	reports.On("InvalidateStats", mock.Anything).Return(nil).Once()
	require.NoError(t, l.handle(context.Background(), events.EquipmentChanged{EquipmentID: 1, Action: "scrapped"}))
	reports.AssertExpectations(t)
}

func TestStatsCache_PropagatesCacheError(t *testing.T) {
	reports := new(mockReportService)
	l := NewStatsCacheListener(reports, zap.NewNop())

	reports.On("InvalidateStats", mock.Anything).Return(errors.New("redis down")).Once()
	assert.Error(t, l.handle(context.Background(), events.RequestDeleted{RequestID: 1}))
}

func TestStatsCache_InvalidatesOnUserChange(t *testing.T) {
	reports := new(mockReportService)
	bus := eventbus.New(zap.NewNop())
	NewStatsCacheListener(reports, zap.NewNop()).Register(bus)

	reports.On("InvalidateStats", mock.Anything).Return(nil).Once()
	bus.Publish(context.Background(), events.UserChanged{UserID: 7, ActorID: 1, RoleChanged: true})
	bus.Wait()

	reports.AssertExpectations(t)
}
