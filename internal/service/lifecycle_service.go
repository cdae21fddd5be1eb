package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/account-service/internal/config"
	"github.com/spec-kit/account-service/internal/events"
)

// LifecycleService logs account lifecycle events and forwards them to an
// optional webhook stub.
type LifecycleService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewLifecycleService creates the service.
func NewLifecycleService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *LifecycleService {
	return &LifecycleService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (l *LifecycleService) RegisterHandlers() {
	if l.dispatcher == nil {
		return
	}
	l.dispatcher.Subscribe(events.EventUserCreated, l.handleEvent)
	l.dispatcher.Subscribe(events.EventUserUpdated, l.handleEvent)
	l.dispatcher.Subscribe(events.EventUserDeleted, l.handleEvent)
	l.dispatcher.Subscribe(events.EventPasswordChanged, l.handleEvent)
}

func (l *LifecycleService) handleEvent(ctx context.Context, event events.Event) error {
	l.logger.Info(string(event.Type),
		zap.String("email", event.Email),
		zap.String("actor", event.Actor.Email),
		zap.String("actor_role", event.Actor.Role.String()),
		zap.Any("payload", event.Payload))
	l.sendWebhookStub(ctx, event)
	return nil
}

func (l *LifecycleService) sendWebhookStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(l.cfg.WebhookURL) == "" {
		return
	}
	l.logger.Debug("sendWebhookStub",
		zap.String("url", l.cfg.WebhookURL),
		zap.String("email", event.Email),
		zap.String("event_type", string(event.Type)))
}
