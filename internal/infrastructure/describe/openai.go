package describe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"inspect-bot/internal/domain/entity"
	"inspect-bot/internal/domain/port"
)

const systemPrompt = "Ты помощник сервиса аренды автомобилей. По данным осмотра " +
	"кратко и нейтрально опиши клиенту новые повреждения и оценку ремонта. " +
	"Не выдумывай повреждения, которых нет в данных. Ответ — 2-4 предложения на русском."

// OpenAIDescriber генерирует текстовое описание отчёта через Chat Completions.
type OpenAIDescriber struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIDescriber создаёт описатель. Пустая модель означает gpt-4o-mini.
func NewOpenAIDescriber(apiKey, model string) (*OpenAIDescriber, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAIDescriber{
		client:  openai.NewClient(apiKey),
		model:   model,
		timeout: 30 * time.Second,
	}, nil
}

// Describe собирает промпт из отчёта и запрашивает краткое описание.
func (d *OpenAIDescriber) Describe(ctx context.Context, report *entity.InspectionReport) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(report)},
		},
		MaxTokens:   300,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// buildPrompt переводит отчёт в компактный текст для модели.
func buildPrompt(report *entity.InspectionReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Снимков при выдаче: %d (повреждений: %d). Снимков при возврате: %d (повреждений: %d).\n",
		report.InspectionSummary.PickupPhase.ImagesUploaded,
		report.InspectionSummary.PickupPhase.TotalDamages,
		report.InspectionSummary.ReturnPhase.ImagesUploaded,
		report.InspectionSummary.ReturnPhase.TotalDamages,
	)

	damages := report.NewDamagesDetected
	if damages.TotalNewDamages == 0 {
		b.WriteString("Новых повреждений не обнаружено.")
		return b.String()
	}

	fmt.Fprintf(&b, "Новых повреждений: %d. Оценка ремонта: от %d до %d (в среднем %d).\n",
		damages.TotalNewDamages,
		damages.EstimatedRepairCost.Min,
		damages.EstimatedRepairCost.Max,
		damages.EstimatedRepairCost.Average,
	)
	for _, item := range damages.DamagesBreakdown {
		fmt.Fprintf(&b, "- %s: %d шт., %d-%d за единицу\n",
			item.DamageType, item.Count, item.CostPerUnit.Min, item.CostPerUnit.Max)
	}

	return b.String()
}

// Проверка реализации интерфейса
var _ port.DamageDescriber = (*OpenAIDescriber)(nil)
