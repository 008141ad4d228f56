package middleware

import (
	"context"

	"github.com/m04kA/SMC-HallBookingService/internal/domain"
)

type identityKey struct{}

// WithIdentity кладет аутентифицированного пользователя в контекст
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity возвращает пользователя из контекста
// Заявитель и его роль берутся только отсюда, а не из тела запроса
func GetIdentity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domain.Identity)
	return identity, ok
}
