package port

import (
	"context"

	"inspect-bot/internal/domain/entity"
)

// DamageDescriber интерфейс описателя повреждений
type DamageDescriber interface {
	// Describe генерирует текстовое описание новых повреждений по отчёту
	Describe(ctx context.Context, report *entity.InspectionReport) (string, error)
}
