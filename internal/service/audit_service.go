package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/persistence"
)

const failureCounterTTL = 24 * time.Hour

// AuditService records authentication events for operators: structured log
// entries plus best-effort last-seen stamps and failure counters in Redis.
// It is observability only and never blocks or fails an auth flow.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	redis      *persistence.Redis
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger, redis *persistence.Redis) *AuditService {
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger,
		redis:      redis,
	}
}

// RegisterHandlers subscribes to the auth events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserRegistered, a.handleUserRegistered)
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleLoginSucceeded)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
	a.dispatcher.Subscribe(events.EventTokenRefreshed, a.handleTokenRefreshed)
}

func (a *AuditService) handleUserRegistered(ctx context.Context, event events.Event) error {
	a.logger.Info("UserRegistered", zap.String("user_id", event.UserID), zap.String("email", event.Email))
	return nil
}

func (a *AuditService) handleLoginSucceeded(ctx context.Context, event events.Event) error {
	a.logger.Info("LoginSucceeded", zap.String("user_id", event.UserID))
	a.stamp(ctx, fmt.Sprintf("auth:last_login:%s", event.UserID), event.Timestamp)
	a.clearCounter(ctx, fmt.Sprintf("auth:login_failures:%s", event.Email))
	return nil
}

func (a *AuditService) handleLoginFailed(ctx context.Context, event events.Event) error {
	a.logger.Warn("LoginFailed", zap.String("email", event.Email), zap.String("detail", event.Detail))
	a.bumpCounter(ctx, fmt.Sprintf("auth:login_failures:%s", event.Email))
	return nil
}

func (a *AuditService) handleTokenRefreshed(ctx context.Context, event events.Event) error {
	a.logger.Info("TokenRefreshed", zap.String("user_id", event.UserID))
	a.stamp(ctx, fmt.Sprintf("auth:last_refresh:%s", event.UserID), event.Timestamp)
	return nil
}

func (a *AuditService) stamp(ctx context.Context, key string, at time.Time) {
	if a.redis == nil || a.redis.Client == nil {
		return
	}
	if err := a.redis.Client.Set(ctx, key, at.Format(time.RFC3339), 0).Err(); err != nil {
		a.logger.Debug("audit stamp failed", zap.String("key", key), zap.Error(err))
	}
}

func (a *AuditService) bumpCounter(ctx context.Context, key string) {
	if a.redis == nil || a.redis.Client == nil {
		return
	}
	if err := a.redis.Client.Incr(ctx, key).Err(); err != nil {
		a.logger.Debug("audit counter failed", zap.String("key", key), zap.Error(err))
		return
	}
	_ = a.redis.Client.Expire(ctx, key, failureCounterTTL).Err()
}

func (a *AuditService) clearCounter(ctx context.Context, key string) {
	if a.redis == nil || a.redis.Client == nil {
		return
	}
	_ = a.redis.Client.Del(ctx, key).Err()
}
