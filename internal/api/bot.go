package telegram

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "inspect-bot/internal/application"
	"inspect-bot/internal/container"
	"inspect-bot/internal/domain/entity"
)

const (
	msgStart = `👋 Привет! Я бот осмотра арендных автомобилей.

🚗 Фиксирую состояние машины при выдаче и возврате и считаю,
какие повреждения появились за время аренды.

📋 Команды:
/inspect — начать осмотр (фаза выдачи)
/return — перейти к фазе возврата
/complete — завершить осмотр и получить отчёт
/cancel — отменить текущий осмотр
/help — справка`

	msgHelp = `ℹ️ Как проходит осмотр:

1️⃣ /inspect — откройте осмотр и пришлите фото машины при выдаче
2️⃣ /return — при возврате переключите фазу и пришлите новые фото
3️⃣ /complete — получите отчёт: новые повреждения и оценка ремонта

💡 Рекомендации:
• Снимайте при хорошем освещении
• Фотографируйте машину с одних и тех же ракурсов
• Фото должно быть чётким

📋 Команды:
/inspect — начать осмотр
/cancel — отменить осмотр`

	msgPickupStarted   = "📸 Осмотр открыт. Пришлите фото автомобиля при выдаче."
	msgReturnStarted   = "📸 Фаза возврата. Пришлите фото автомобиля при возврате."
	msgNoSession       = "❓ Нет открытого осмотра. Отправьте /inspect, чтобы начать."
	msgAlreadyRunning  = "⚠️ Осмотр уже идёт. Завершите его командой /complete или отмените /cancel."
	msgCancelled       = "❌ Осмотр отменён. Отправьте /inspect для нового."
	msgSendPhoto       = "📸 Пришлите фото автомобиля или используйте /help."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgNoNewDamages    = "✅ Новых повреждений не обнаружено."
)

// Bot представляет Telegram-бота
type Bot struct {
	api         *tgbotapi.BotAPI
	users       *app.UserService
	inspections *app.InspectionService
}

// NewBot создаёт нового бота
func NewBot(token string, services *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:         api,
		users:       services.UserService,
		inspections: services.InspectionService,
	}, nil
}

// Run запускает основной цикл обработки сообщений
func (b *Bot) Run() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	ctx := context.Background()

	for update := range updates {
		if update.Message == nil {
			continue
		}

		b.handleMessage(ctx, update.Message)
	}

	return nil
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	// Обработка фото
	if msg.Photo != nil && len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "inspect":
		b.startInspection(ctx, msg, user)

	case "return":
		b.switchToReturn(ctx, msg, user)

	case "complete":
		b.completeInspection(ctx, msg, user)

	case "cancel":
		b.cancelInspection(ctx, msg, user)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// startInspection открывает новую сессию осмотра для пользователя.
func (b *Bot) startInspection(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.SessionID != "" {
		b.sendMessage(msg.Chat.ID, msgAlreadyRunning)
		return
	}

	session, err := b.inspections.StartSession(ctx)
	if err != nil {
		log.Printf("Error starting session: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	if _, err := b.users.BindSession(ctx, user.ID, user.ChatID, session.ID()); err != nil {
		log.Printf("Error binding session: %v", err)
		b.inspections.AbandonSession(ctx, session.ID())
		b.sendMessage(msg.Chat.ID, msgAlreadyRunning)
		return
	}

	b.sendMessage(msg.Chat.ID, msgPickupStarted)
}

// switchToReturn переводит осмотр пользователя в фазу возврата.
func (b *Bot) switchToReturn(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.SessionID == "" {
		b.sendMessage(msg.Chat.ID, msgNoSession)
		return
	}

	if err := b.inspections.SwitchToReturn(ctx, user.SessionID); err != nil {
		b.sendMessage(msg.Chat.ID, phaseErrorText(err))
		return
	}

	b.sendMessage(msg.Chat.ID, msgReturnStarted)
}

// completeInspection завершает осмотр и отправляет отчёт.
func (b *Bot) completeInspection(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.SessionID == "" {
		b.sendMessage(msg.Chat.ID, msgNoSession)
		return
	}

	report, err := b.inspections.CompleteSession(ctx, user.SessionID)
	if err != nil {
		b.sendMessage(msg.Chat.ID, phaseErrorText(err))
		return
	}

	if _, err := b.users.UnbindSession(ctx, user.ID, user.ChatID); err != nil {
		log.Printf("Error unbinding session: %v", err)
	}

	b.sendMessage(msg.Chat.ID, formatReport(report))
}

// cancelInspection отменяет текущий осмотр.
func (b *Bot) cancelInspection(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.SessionID != "" {
		if err := b.inspections.AbandonSession(ctx, user.SessionID); err != nil {
			log.Printf("Error abandoning session: %v", err)
		}
		if _, err := b.users.UnbindSession(ctx, user.ID, user.ChatID); err != nil {
			log.Printf("Error unbinding session: %v", err)
		}
	}

	b.sendMessage(msg.Chat.ID, msgCancelled)
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.SessionID == "" {
		b.sendMessage(msg.Chat.ID, msgNoSession)
		return
	}

	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	fileName := photo.FileUniqueID + ".jpg"
	result, err := b.inspections.UploadImage(ctx, user.SessionID, fileName, imageData)
	if err != nil {
		log.Printf("Error uploading image: %v", err)
		b.sendMessage(msg.Chat.ID, phaseErrorText(err))
		return
	}

	b.sendMessage(msg.Chat.ID, formatUpload(result))
	b.sendAnnotated(msg.Chat.ID, result.AnnotatedImage)
}

// formatUpload собирает текст ответа на загруженный снимок.
func formatUpload(result *app.UploadResult) string {
	phase := "выдача"
	if result.Phase == entity.PhaseReturn {
		phase = "возврат"
	}

	if len(result.Observations) == 0 {
		return fmt.Sprintf("✅ Снимок принят (фаза: %s). Повреждений на снимке не найдено.", phase)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📷 Снимок принят (фаза: %s). Найдено повреждений: %d\n", phase, len(result.Observations))
	for _, obs := range result.Observations {
		fmt.Fprintf(&sb, "• %s — %.1f%%\n", obs.DamageType, obs.Confidence)
	}
	return sb.String()
}

// formatReport собирает текст итогового отчёта.
func formatReport(report *entity.InspectionReport) string {
	var sb strings.Builder

	sb.WriteString("📋 Отчёт по осмотру\n\n")
	fmt.Fprintf(&sb, "Выдача: %d фото, %d повреждений\n",
		report.InspectionSummary.PickupPhase.ImagesUploaded,
		report.InspectionSummary.PickupPhase.TotalDamages)
	fmt.Fprintf(&sb, "Возврат: %d фото, %d повреждений\n\n",
		report.InspectionSummary.ReturnPhase.ImagesUploaded,
		report.InspectionSummary.ReturnPhase.TotalDamages)

	damages := report.NewDamagesDetected
	if damages.TotalNewDamages == 0 {
		sb.WriteString(msgNoNewDamages)
	} else {
		fmt.Fprintf(&sb, "🔺 Новых повреждений: %d\n", damages.TotalNewDamages)
		fmt.Fprintf(&sb, "💰 Оценка ремонта: $%d - $%d (в среднем $%d)\n\n",
			damages.EstimatedRepairCost.Min,
			damages.EstimatedRepairCost.Max,
			damages.EstimatedRepairCost.Average)
		for _, item := range damages.DamagesBreakdown {
			fmt.Fprintf(&sb, "• %s ×%d — $%d-$%d за единицу\n",
				item.DamageType, item.Count, item.CostPerUnit.Min, item.CostPerUnit.Max)
		}
	}

	if report.Summary != "" {
		sb.WriteString("\n🤖 ")
		sb.WriteString(report.Summary)
	}

	return sb.String()
}

// phaseErrorText переводит доменные ошибки в сообщение пользователю.
func phaseErrorText(err error) string {
	switch {
	case errors.Is(err, entity.ErrSessionNotFound):
		return msgNoSession
	case errors.Is(err, entity.ErrInvalidPhase):
		return "⚠️ Эта команда недоступна в текущей фазе осмотра. /help — порядок действий."
	case errors.Is(err, entity.ErrDuplicateImage):
		return "⚠️ Этот снимок уже записан."
	default:
		return msgProcessingError
	}
}

// sendAnnotated отправляет размеченную картинку, если детектор её вернул.
func (b *Bot) sendAnnotated(chatID int64, dataURL string) {
	imageData, ok := decodeDataURL(dataURL)
	if !ok {
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "annotated.jpg", Bytes: imageData})
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending annotated photo: %v", err)
	}
}

// decodeDataURL достаёт байты картинки из data-URL детектора.
func decodeDataURL(dataURL string) ([]byte, bool) {
	if dataURL == "" {
		return nil, false
	}

	payload := dataURL
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	imageData, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, false
	}
	return imageData, true
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := file.Link(b.api.Token)

	resp, err := http.Get(fileURL)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
