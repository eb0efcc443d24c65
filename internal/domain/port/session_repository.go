package port

import (
	"context"

	"inspect-bot/internal/domain/entity"
)

// SessionRepository интерфейс реестра сессий осмотра
type SessionRepository interface {
	// Save регистрирует сессию; завершённые сессии хранятся ограниченное время
	Save(ctx context.Context, session *entity.InspectionSession) error

	// Get возвращает сессию по идентификатору, entity.ErrSessionNotFound если её нет
	Get(ctx context.Context, sessionID string) (*entity.InspectionSession, error)

	// Delete удаляет сессию из реестра
	Delete(ctx context.Context, sessionID string) error
}
