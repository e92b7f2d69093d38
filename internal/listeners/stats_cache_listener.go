package listeners

import (
	"context"

	"go.uber.org/zap"

	"maintenance-system/internal/events"
	"maintenance-system/internal/services"
	"maintenance-system/pkg/eventbus"
)

// StatsCacheListener drops the cached dashboard numbers whenever the data behind them moves.
type StatsCacheListener struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewStatsCacheListener(reportService services.ReportServiceInterface, logger *zap.Logger) *StatsCacheListener {
	return &StatsCacheListener{reportService: reportService, logger: logger}
}

func (l *StatsCacheListener) Register(bus *eventbus.Bus) {
	for _, name := range []string{
		events.RequestCreatedEvent,
		events.RequestUpdatedEvent,
		events.RequestDeletedEvent,
		events.EquipmentChangedEvent,
		events.UserChangedEvent,
	} {
		bus.Subscribe(name, l.handle)
	}
	l.logger.Info("stats cache listener subscribed")
}

func (l *StatsCacheListener) handle(ctx context.Context, event eventbus.Event) error {
	if err := l.reportService.InvalidateStats(ctx); err != nil {
		return err
	}
	l.logger.Debug("stats cache invalidated", zap.String("event", event.Name()))
	return nil
}
