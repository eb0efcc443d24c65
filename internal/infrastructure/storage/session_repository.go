package storage

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"inspect-bot/internal/domain/entity"
	"inspect-bot/internal/domain/port"
)

// CacheSessionRepository — реестр сессий осмотра поверх go-cache.
// Активные сессии живут без срока, завершённые хранятся completedTTL
// и затем вычищаются фоновым уборщиком кэша.
type CacheSessionRepository struct {
	cache        *gocache.Cache
	completedTTL time.Duration
}

// NewCacheSessionRepository создаёт реестр с указанным сроком хранения
// завершённых сессий.
func NewCacheSessionRepository(completedTTL time.Duration) *CacheSessionRepository {
	return &CacheSessionRepository{
		cache:        gocache.New(gocache.NoExpiration, 10*time.Minute),
		completedTTL: completedTTL,
	}
}

// Save регистрирует сессию. Завершённая сессия пересохраняется со сроком.
func (r *CacheSessionRepository) Save(ctx context.Context, session *entity.InspectionSession) error {
	ttl := gocache.NoExpiration
	if session.Phase() == entity.PhaseCompleted {
		ttl = r.completedTTL
	}
	r.cache.Set(session.ID(), session, ttl)
	return nil
}

// Get возвращает сессию по идентификатору.
func (r *CacheSessionRepository) Get(ctx context.Context, sessionID string) (*entity.InspectionSession, error) {
	if val, found := r.cache.Get(sessionID); found {
		return val.(*entity.InspectionSession), nil
	}
	return nil, entity.ErrSessionNotFound
}

// Delete удаляет сессию из реестра.
func (r *CacheSessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*CacheSessionRepository)(nil)
