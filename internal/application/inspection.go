package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"

	"inspect-bot/internal/domain/entity"
	"inspect-bot/internal/domain/port"
)

// InspectionService управляет жизненным циклом сессий осмотра:
// выдача -> возврат -> отчёт о новых повреждениях.
type InspectionService struct {
	sessions  port.SessionRepository
	detector  port.DamageDetector
	describer port.DamageDescriber
	costs     *entity.CostTable
}

// UploadResult — итог загрузки одного снимка.
type UploadResult struct {
	ImageID        string
	Phase          entity.Phase
	Observations   []entity.DamageObservation
	AnnotatedImage string
}

// NewInspectionService создаёт сервис осмотра. Описатель опционален:
// при nil отчёт собирается без текстового описания.
func NewInspectionService(sessions port.SessionRepository, detector port.DamageDetector, describer port.DamageDescriber, costs *entity.CostTable) *InspectionService {
	return &InspectionService{
		sessions:  sessions,
		detector:  detector,
		describer: describer,
		costs:     costs,
	}
}

// StartSession открывает новую сессию осмотра в фазе выдачи.
func (s *InspectionService) StartSession(ctx context.Context) (*entity.InspectionSession, error) {
	session := entity.NewInspectionSession(uuid.NewString())
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return session, nil
}

// Session возвращает сессию по идентификатору.
func (s *InspectionService) Session(ctx context.Context, sessionID string) (*entity.InspectionSession, error) {
	return s.sessions.Get(ctx, sessionID)
}

// UploadImage прогоняет снимок через детектор и записывает наблюдения
// в накопитель текущей фазы. При ошибке детектора или нормализации
// ничего не записывается, тот же снимок можно безопасно загрузить повторно.
func (s *InspectionService) UploadImage(ctx context.Context, sessionID, fileName string, imageData []byte) (*UploadResult, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Не гоняем детектор для завершённой сессии.
	if session.Phase() == entity.PhaseCompleted {
		return nil, fmt.Errorf("%w: cannot record image in phase %q", entity.ErrInvalidPhase, entity.PhaseCompleted)
	}

	raw, err := s.detector.Detect(ctx, imageData)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	imageID := uuid.NewString()
	observations, err := session.RecordImage(imageID, fileName, raw)
	if err != nil {
		return nil, err
	}

	return &UploadResult{
		ImageID:        imageID,
		Phase:          session.Phase(),
		Observations:   observations,
		AnnotatedImage: raw.AnnotatedImage,
	}, nil
}

// SwitchToReturn переводит сессию в фазу возврата.
func (s *InspectionService) SwitchToReturn(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	return session.SwitchToReturn()
}

// CompleteSession завершает осмотр и возвращает отчёт. Текстовое описание
// от ИИ добавляется по возможности: его отказ не ломает завершение.
func (s *InspectionService) CompleteSession(ctx context.Context, sessionID string) (*entity.InspectionReport, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	report, err := session.Complete(s.costs)
	if err != nil {
		return nil, err
	}

	if s.describer != nil {
		summary, err := s.describer.Describe(ctx, report)
		if err != nil {
			log.Printf("Error describing report: %v", err)
		} else {
			report.Summary = summary
		}
	}

	// Пересохраняем, чтобы реестр выставил срок хранения завершённой сессии.
	if err := s.sessions.Save(ctx, session); err != nil {
		log.Printf("Error saving completed session: %v", err)
	}

	return report, nil
}

// Report возвращает отчёт ранее завершённой сессии.
func (s *InspectionService) Report(ctx context.Context, sessionID string) (*entity.InspectionReport, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	report, ok := session.Report()
	if !ok {
		return nil, fmt.Errorf("%w: report is available only after completion", entity.ErrInvalidPhase)
	}
	return report, nil
}

// AbandonSession удаляет незавершённую сессию из реестра.
func (s *InspectionService) AbandonSession(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
