package entity

import (
	"errors"
	"fmt"
	"sync"
)

// ErrInvalidPhase — операция вызвана вне допустимой фазы осмотра.
var ErrInvalidPhase = errors.New("invalid session phase")

// ErrSessionNotFound — сессия с таким идентификатором не зарегистрирована.
var ErrSessionNotFound = errors.New("session is not found")

// Phase фаза сессии осмотра
type Phase string

const (
	PhasePickup    Phase = "pickup"    // Съёмка при выдаче автомобиля
	PhaseReturn    Phase = "return"    // Съёмка при возврате автомобиля
	PhaseCompleted Phase = "completed" // Осмотр завершён, доступен только отчёт
)

// InspectionSession — сессия осмотра одного автомобиля.
//
// Фазы идут строго линейно: pickup -> return -> completed, без возвратов
// и пропусков. Все переходы и записи снимков проходят через один мьютекс,
// поэтому переключение фазы никогда не видит наполовину записанный снимок.
type InspectionSession struct {
	mu     sync.Mutex
	id     string
	phase  Phase
	pickup *PhaseAccumulator
	ret    *PhaseAccumulator
	report *InspectionReport
}

// NewInspectionSession создаёт сессию в фазе выдачи с пустыми накопителями.
func NewInspectionSession(id string) *InspectionSession {
	return &InspectionSession{
		id:     id,
		phase:  PhasePickup,
		pickup: NewPhaseAccumulator(),
		ret:    NewPhaseAccumulator(),
	}
}

// ID возвращает идентификатор сессии.
func (s *InspectionSession) ID() string {
	return s.id
}

// Phase возвращает текущую фазу. Сессия сама — единственный источник
// истины о фазе, клиенты её не отслеживают.
func (s *InspectionSession) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// RecordImage нормализует ответ детектора и добавляет снимок в накопитель
// текущей фазы. При любой ошибке состояние сессии не меняется.
func (s *InspectionSession) RecordImage(imageID, fileName string, raw *RawDetection) ([]DamageObservation, error) {
	observations, err := raw.Normalize(imageID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var accumulator *PhaseAccumulator
	switch s.phase {
	case PhasePickup:
		accumulator = s.pickup
	case PhaseReturn:
		accumulator = s.ret
	default:
		return nil, fmt.Errorf("%w: cannot record image in phase %q", ErrInvalidPhase, s.phase)
	}

	err = accumulator.Append(ImageDetections{
		ImageID:        imageID,
		FileName:       fileName,
		AnnotatedImage: raw.AnnotatedImage,
		Observations:   observations,
	})
	if err != nil {
		return nil, err
	}

	return observations, nil
}

// SwitchToReturn переводит сессию из фазы выдачи в фазу возврата.
// Повторный вызов — ошибка, накопитель выдачи с этого момента не меняется.
func (s *InspectionSession) SwitchToReturn() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePickup {
		return fmt.Errorf("%w: cannot switch to return from phase %q", ErrInvalidPhase, s.phase)
	}

	s.phase = PhaseReturn
	return nil
}

// Complete завершает осмотр: сравнивает фазы, оценивает стоимость новых
// повреждений и собирает отчёт. Допустим только из фазы возврата.
func (s *InspectionSession) Complete(costs *CostTable) (*InspectionReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReturn {
		return nil, fmt.Errorf("%w: cannot complete from phase %q", ErrInvalidPhase, s.phase)
	}

	breakdown, total := DiffDamages(s.pickup, s.ret, costs)

	returnImages := s.ret.Images()
	detections := make([]AnnotatedDetection, 0, len(returnImages))
	for _, img := range returnImages {
		detection := AnnotatedDetection{
			AnnotatedImage: img.AnnotatedImage,
			Classes:        make([]string, 0, len(img.Observations)),
			Confidences:    make([]float64, 0, len(img.Observations)),
		}
		for _, obs := range img.Observations {
			detection.Classes = append(detection.Classes, obs.DamageType)
			detection.Confidences = append(detection.Confidences, obs.Confidence)
		}
		detections = append(detections, detection)
	}

	s.report = &InspectionReport{
		InspectionSummary: InspectionSummary{
			PickupPhase: PhaseSummary{
				ImagesUploaded: s.pickup.TotalImages(),
				TotalDamages:   s.pickup.TotalDamages(),
			},
			ReturnPhase: PhaseSummary{
				ImagesUploaded: s.ret.TotalImages(),
				TotalDamages:   s.ret.TotalDamages(),
			},
		},
		NewDamagesDetected: NewDamagesDetected{
			TotalNewDamages:     total,
			EstimatedRepairCost: EstimateCost(breakdown),
			DamagesBreakdown:    breakdown,
		},
		ReturnDetections: detections,
	}
	s.phase = PhaseCompleted

	return s.report, nil
}

// Report возвращает отчёт завершённой сессии.
func (s *InspectionSession) Report() (*InspectionReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.report == nil {
		return nil, false
	}
	return s.report, true
}
