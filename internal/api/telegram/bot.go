package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf16"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	app "vision-overlay/internal/application"
	"vision-overlay/internal/container"
	"vision-overlay/internal/domain/entity"
	"vision-overlay/internal/logging"
)

const (
	msgStart = `👋 Привет! Я размечаю объекты на фотографиях.

📸 Отправьте фото, и я верну его с рамками найденных объектов и легендой по классам.

📋 Команды:
/check — разметить новое фото
/mode — переключить масштабирование (stretch/aspect)
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото
2️⃣ Бот отправит его в сервис распознавания
3️⃣ Вы получите фото с рамками и подписями «класс (уверенность%)»

📐 Режимы масштабирования:
• stretch — кадр растягивается на весь холст
• aspect — пропорции сохраняются, по краям чёрные поля

📋 Команды:
/check — разметить фото
/mode — переключить режим
/cancel — отменить операцию`

	msgAwaitingPhoto   = "📸 Отправьте фото для разметки."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой разметки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото для разметки."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается."
	msgNoObjects       = "✅ Объекты не обнаружены."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте другое фото."
	msgModeFormat      = "📐 Режим масштабирования: %s"
	msgMoreClasses     = "• …и ещё классов: %d"
)

// maxCaptionLen лимит подписи к фото в Telegram, в UTF-16 code units.
const maxCaptionLen = 1024

// Bot Telegram-интерфейс к сервису разметки.
type Bot struct {
	api      *tgbotapi.BotAPI
	users    *app.UserService
	annotate *app.AnnotationService
	http     *http.Client
	log      zerolog.Logger
}

// NewBot авторизуется в Telegram.
func NewBot(token string, c *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	logger := logging.NewServiceLogger("telegram")
	logger.Info().Str("account", api.Self.UserName).Msg("Authorized")

	return &Bot{
		api:      api,
		users:    c.UserService,
		annotate: c.AnnotationService,
		http:     http.DefaultClient,
		log:      logger,
	}, nil
}

// Run обрабатывает обновления до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		b.log.Error().Err(err).Int64("user_id", msg.From.ID).Msg("Error getting user")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.setState(ctx, user, entity.StateMainMenu)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "check":
		if _, err := b.users.BeginCheck(ctx, user.ID, user.ChatID); err != nil {
			b.log.Error().Err(err).Msg("Error saving user")
		}
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "cancel":
		if _, err := b.users.Cancel(ctx, user.ID, user.ChatID); err != nil {
			b.log.Error().Err(err).Msg("Error saving user")
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	case "mode":
		updated, err := b.users.ToggleMode(ctx, user.ID, user.ChatID)
		if err != nil {
			b.log.Error().Err(err).Msg("Error saving user")
			return
		}
		b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgModeFormat, updated.FitMode))

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if !user.CanAcceptPhoto() {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}

	b.setState(ctx, user, entity.StateProcessing)
	defer b.setState(ctx, user, entity.StateMainMenu)

	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Последний размер в списке самый крупный.
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.log.Error().Err(err).Msg("Error downloading photo")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	out, err := b.annotate.Annotate(ctx, app.AnnotateInput{Image: imageData, Mode: user.FitMode})
	if err != nil {
		b.log.Error().Err(err).Int("bytes", len(imageData)).Msg("Error annotating photo")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	reply := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "annotated.jpg", Bytes: out.Image})
	reply.Caption = Caption(out)
	if _, err := b.api.Send(reply); err != nil {
		b.log.Error().Err(err).Msg("Error sending photo")
	}
}

// Caption подпись к размеченному фото: общее число объектов и строки легенды.
// Строки, не влезающие в лимит Telegram, сворачиваются в одну итоговую.
func Caption(out *app.AnnotateOutput) string {
	if len(out.Detections) == 0 {
		return msgNoObjects
	}

	lines := out.Histogram.Lines()
	rows := []string{fmt.Sprintf("🔎 Найдено объектов: %d", out.Histogram.Total())}
	used := captionLen(rows[0])

	for i, line := range lines {
		row := "• " + line
		// Место под строку "ещё N" оставляется всегда, пока есть непоказанные классы.
		reserve := 0
		if i < len(lines)-1 {
			reserve = captionLen(fmt.Sprintf(msgMoreClasses, len(lines))) + 1
		}
		if used+1+captionLen(row)+reserve > maxCaptionLen {
			rows = append(rows, fmt.Sprintf(msgMoreClasses, len(lines)-i))
			break
		}
		rows = append(rows, row)
		used += 1 + captionLen(row)
	}
	return strings.Join(rows, "\n")
}

func captionLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

func (b *Bot) setState(ctx context.Context, user *entity.User, state entity.UserState) {
	if _, err := b.users.SetState(ctx, user.ID, user.ChatID, state); err != nil {
		b.log.Error().Err(err).Msg("Error saving user")
	}
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Msg("Error sending message")
	}
}
