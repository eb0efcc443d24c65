package port

import (
	"context"

	"inspect-bot/internal/domain/entity"
)

// DamageDetector интерфейс детектора повреждений
type DamageDetector interface {
	// Detect анализирует изображение и возвращает сырой результат детекции:
	// параллельные массивы классов и уверенностей, рамки и размеченную картинку
	Detect(ctx context.Context, imageData []byte) (*entity.RawDetection, error)
}
