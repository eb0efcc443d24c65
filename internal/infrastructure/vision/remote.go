package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"inspect-bot/internal/domain/entity"
	"inspect-bot/internal/domain/port"
)

// RemoteDetector — клиент внешней модели детекции повреждений.
// Модель принимает multipart-файл и отвечает параллельными массивами
// классов и уверенностей, рамками и размеченной картинкой.
type RemoteDetector struct {
	endpoint string
	client   *http.Client
}

// NewRemoteDetector создаёт клиент детектора по базовому адресу API.
func NewRemoteDetector(baseURL string, timeout time.Duration) *RemoteDetector {
	return &RemoteDetector{
		endpoint: strings.TrimRight(baseURL, "/") + "/api/detection",
		client:   &http.Client{Timeout: timeout},
	}
}

// Detect отправляет изображение модели и разбирает её ответ.
func (d *RemoteDetector) Detect(ctx context.Context, imageData []byte) (*entity.RawDetection, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", "image.jpg")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call detector: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("detector returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var raw entity.RawDetection
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode detector response: %w", err)
	}

	return &raw, nil
}

// Проверка реализации интерфейса
var _ port.DamageDetector = (*RemoteDetector)(nil)
