package entity

import (
	"errors"
	"fmt"
	"iter"
	"sync"
)

// ErrDuplicateImage — повторное добавление снимка с тем же идентификатором.
var ErrDuplicateImage = errors.New("image is already recorded")

// ImageDetections — один загруженный снимок со всеми его наблюдениями.
type ImageDetections struct {
	ImageID        string
	FileName       string
	AnnotatedImage string // размеченная картинка от детектора, data-URL
	Observations   []DamageObservation
}

// PhaseAccumulator накапливает снимки одной фазы осмотра в порядке загрузки.
// Добавление сериализуется мьютексом, чтение работает по снимку состояния.
type PhaseAccumulator struct {
	mu     sync.Mutex
	images []ImageDetections
	seen   map[string]struct{}
}

// NewPhaseAccumulator создаёт пустой накопитель фазы.
func NewPhaseAccumulator() *PhaseAccumulator {
	return &PhaseAccumulator{
		seen: make(map[string]struct{}),
	}
}

// Append атомарно добавляет снимок в конец последовательности.
// Снимок с уже известным идентификатором отклоняется без изменений.
func (a *PhaseAccumulator) Append(image ImageDetections) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.seen[image.ImageID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateImage, image.ImageID)
	}

	a.seen[image.ImageID] = struct{}{}
	a.images = append(a.images, image)
	return nil
}

// Images возвращает копию последовательности снимков в порядке загрузки.
func (a *PhaseAccumulator) Images() []ImageDetections {
	a.mu.Lock()
	defer a.mu.Unlock()

	images := make([]ImageDetections, len(a.images))
	copy(images, a.images)
	return images
}

// TotalImages возвращает число загруженных снимков.
func (a *PhaseAccumulator) TotalImages() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.images)
}

// TotalDamages возвращает суммарное число наблюдений по всем снимкам.
func (a *PhaseAccumulator) TotalDamages() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := 0
	for _, img := range a.images {
		total += len(img.Observations)
	}
	return total
}

// AllObservations возвращает перезапускаемую последовательность всех
// наблюдений: снимки в порядке загрузки, наблюдения в порядке внутри снимка.
func (a *PhaseAccumulator) AllObservations() iter.Seq[DamageObservation] {
	return func(yield func(DamageObservation) bool) {
		for _, img := range a.Images() {
			for _, obs := range img.Observations {
				if !yield(obs) {
					return
				}
			}
		}
	}
}

// DamageTypeCounts считает наблюдения по типам повреждений за всю фазу.
// Порядок типов — порядок их первого появления.
func (a *PhaseAccumulator) DamageTypeCounts() *DamageTypeCounts {
	counts := NewDamageTypeCounts()
	for obs := range a.AllObservations() {
		counts.Add(obs.DamageType, 1)
	}
	return counts
}

// DamageTypeCounts — счётчик типов повреждений, сохраняющий порядок появления.
type DamageTypeCounts struct {
	order  []string
	counts map[string]int
}

// NewDamageTypeCounts создаёт пустой счётчик.
func NewDamageTypeCounts() *DamageTypeCounts {
	return &DamageTypeCounts{
		counts: make(map[string]int),
	}
}

// Add увеличивает счётчик типа на n.
func (c *DamageTypeCounts) Add(damageType string, n int) {
	if _, exists := c.counts[damageType]; !exists {
		c.order = append(c.order, damageType)
	}
	c.counts[damageType] += n
}

// Get возвращает счётчик типа, ноль для неизвестного типа.
func (c *DamageTypeCounts) Get(damageType string) int {
	return c.counts[damageType]
}

// Types возвращает типы в порядке первого появления.
func (c *DamageTypeCounts) Types() []string {
	return c.order
}

// Total возвращает сумму всех счётчиков.
func (c *DamageTypeCounts) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}
