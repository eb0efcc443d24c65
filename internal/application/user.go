package app

import (
	"context"
	"fmt"

	"inspect-bot/internal/domain/entity"
	"inspect-bot/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

// BindSession привязывает открытую сессию осмотра к пользователю.
// У одного пользователя одновременно может быть только одна сессия.
func (s *UserService) BindSession(ctx context.Context, userID, chatID int64, sessionID string) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	if user.SessionID != "" {
		return nil, fmt.Errorf("user %d already has an open session %s", userID, user.SessionID)
	}

	user.BindSession(sessionID)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// UnbindSession отвязывает сессию и возвращает пользователя в главное меню.
func (s *UserService) UnbindSession(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.UnbindSession()
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
