package entity

// PhaseSummary — сводка по одной фазе осмотра.
type PhaseSummary struct {
	ImagesUploaded int `json:"images_uploaded"`
	TotalDamages   int `json:"total_damages"`
}

// InspectionSummary — сводка по обеим фазам.
type InspectionSummary struct {
	PickupPhase PhaseSummary `json:"pickup_phase"`
	ReturnPhase PhaseSummary `json:"return_phase"`
}

// NewDamagesDetected — результат сравнения фаз с оценкой стоимости.
type NewDamagesDetected struct {
	TotalNewDamages     int               `json:"total_new_damages"`
	EstimatedRepairCost CostEstimate      `json:"estimated_repair_cost"`
	DamagesBreakdown    []DamageTypeCount `json:"damages_breakdown"`
}

// AnnotatedDetection — размеченный снимок фазы возврата для отображения.
type AnnotatedDetection struct {
	AnnotatedImage string    `json:"annotated_image"`
	Classes        []string  `json:"classes"`
	Confidences    []float64 `json:"confidences"`
}

// InspectionReport — итоговый отчёт завершённого осмотра.
type InspectionReport struct {
	InspectionSummary  InspectionSummary    `json:"inspection_summary"`
	NewDamagesDetected NewDamagesDetected   `json:"new_damages_detected"`
	ReturnDetections   []AnnotatedDetection `json:"return_detections_with_boxes"`
	Summary            string               `json:"summary,omitempty"` // текстовое описание от ИИ, опционально
}
