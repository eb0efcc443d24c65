package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedDetection — детектор вернул ответ, нарушающий контракт.
var ErrMalformedDetection = errors.New("malformed detection payload")

// DamageBox область изображения с обнаруженным повреждением
type DamageBox struct {
	X      int // координата X левого верхнего угла
	Y      int // координата Y левого верхнего угла
	Width  int // ширина области в пикселях
	Height int // высота области в пикселях
}

// Center возвращает координаты центра области
func (b DamageBox) Center() (x, y int) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// DamageObservation — одно обнаруженное повреждение на конкретном снимке.
type DamageObservation struct {
	DamageType    string     // тип повреждения, нормализованный к нижнему регистру
	Confidence    float64    // уверенность детектора в процентах (0..100)
	SourceImageID string     // идентификатор снимка-источника
	Box           *DamageBox // геометрия для отображения, алгоритм сравнения её не использует
}

// RawDetection — ответ детектора как он приходит по проводу.
// Classes и Confidences — параллельные массивы одной длины.
type RawDetection struct {
	Classes        []string  `json:"classes"`
	Confidences    []float64 `json:"confidences"`
	Boxes          [][]int   `json:"boxes,omitempty"`
	AnnotatedImage string    `json:"annotated_image,omitempty"`
}

// Normalize превращает сырой ответ детектора в список наблюдений,
// привязанных к снимку. Нарушение контракта параллельных массивов
// или пустой класс — ошибка, наблюдения не создаются.
func (r *RawDetection) Normalize(imageID string) ([]DamageObservation, error) {
	if len(r.Classes) != len(r.Confidences) {
		return nil, fmt.Errorf("%w: classes=%d confidences=%d", ErrMalformedDetection, len(r.Classes), len(r.Confidences))
	}

	withBoxes := len(r.Boxes) == len(r.Classes)

	observations := make([]DamageObservation, 0, len(r.Classes))
	for i, class := range r.Classes {
		damageType := strings.ToLower(strings.TrimSpace(class))
		if damageType == "" {
			return nil, fmt.Errorf("%w: empty class at index %d", ErrMalformedDetection, i)
		}

		obs := DamageObservation{
			DamageType:    damageType,
			Confidence:    r.Confidences[i],
			SourceImageID: imageID,
		}
		if withBoxes && len(r.Boxes[i]) == 4 {
			obs.Box = &DamageBox{
				X:      r.Boxes[i][0],
				Y:      r.Boxes[i][1],
				Width:  r.Boxes[i][2],
				Height: r.Boxes[i][3],
			}
		}
		observations = append(observations, obs)
	}

	return observations, nil
}
