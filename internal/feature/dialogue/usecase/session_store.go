package usecase

import (
	"context"

	"stocks_bot/internal/feature/dialogue/domain/entity"
)

// SessionStore は対話セッションの保存先です。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type SessionStore interface {
	// Get はセッションを返します。存在しない場合は ErrSessionNotFound を返します。
	Get(ctx context.Context, key entity.SessionKey) (*entity.Session, error)
	Save(ctx context.Context, s *entity.Session) error
	Delete(ctx context.Context, key entity.SessionKey) error
}
