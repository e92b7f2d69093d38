package utils

import (
	"context"

	"maintenance-system/internal/entities"
	"maintenance-system/pkg/contextkeys"
	apperrors "maintenance-system/pkg/errors"
)

func WithActor(ctx context.Context, actor *entities.User) context.Context {
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, actor.ID)
	return context.WithValue(ctx, contextkeys.ActorKey, actor)
}

// GetActorFromCtx returns the user resolved by the auth middleware.
func GetActorFromCtx(ctx context.Context) (*entities.User, error) {
	actor, ok := ctx.Value(contextkeys.ActorKey).(*entities.User)
	if !ok || actor == nil {
		return nil, apperrors.ErrUnauthorized
	}
	return actor, nil
}

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok {
		return 0, apperrors.ErrUserNotFoundInContext
	}
	return userID, nil
}

func GetRequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(contextkeys.RequestIDKey).(string)
	return id
}
