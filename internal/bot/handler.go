package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"voxtube/internal/converter"
	"voxtube/internal/tts"
	"voxtube/pkg/models"
)

// Handler представляет обработчик сообщений Telegram
type Handler struct {
	bot            *tgbotapi.BotAPI
	converter      *converter.Service
	ttsService     tts.TTSService
	messages       *Messages
	logger         *zap.Logger
	defaultVoiceID string
	settings       models.VoiceSettings

	mu         sync.Mutex
	chatVoices map[int64]string // выбранный голос для каждого чата
	busyChats  map[int64]bool   // чаты с выполняющейся задачей
}

// NewHandler создает новый обработчик
func NewHandler(
	bot *tgbotapi.BotAPI,
	converterService *converter.Service,
	ttsService tts.TTSService,
	logger *zap.Logger,
	defaultVoiceID string,
	settings models.VoiceSettings,
) *Handler {
	return &Handler{
		bot:            bot,
		converter:      converterService,
		ttsService:     ttsService,
		messages:       NewMessages(),
		logger:         logger,
		defaultVoiceID: defaultVoiceID,
		settings:       settings,
		chatVoices:     make(map[int64]string),
		busyChats:      make(map[int64]bool),
	}
}

// HandleUpdate обрабатывает входящее обновление
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) error {
	if update.Message == nil {
		return nil
	}

	message := update.Message

	h.logger.Debug("получено сообщение",
		zap.Int64("chat_id", message.Chat.ID),
		zap.String("text", message.Text))

	if message.IsCommand() {
		return h.handleCommand(ctx, message)
	}

	return h.handleVideoURL(ctx, message)
}

// handleCommand обрабатывает команды бота
func (h *Handler) handleCommand(ctx context.Context, message *tgbotapi.Message) error {
	switch message.Command() {
	case "start":
		return h.sendMessage(message.Chat.ID, h.messages.Welcome())
	case "help":
		return h.sendMessage(message.Chat.ID, h.messages.Help())
	case "voices":
		return h.handleVoicesCommand(ctx, message.Chat.ID)
	case "voice":
		return h.handleVoiceCommand(message.Chat.ID, message.CommandArguments())
	default:
		return h.sendMessage(message.Chat.ID, h.messages.Help())
	}
}

// handleVoicesCommand показывает список доступных голосов
func (h *Handler) handleVoicesCommand(ctx context.Context, chatID int64) error {
	voices, err := h.ttsService.ListVoices(ctx)
	if err != nil {
		h.logger.Error("ошибка получения списка голосов", zap.Error(err))
		return h.sendErrorMessage(chatID, "Не удалось получить список голосов")
	}

	if len(voices) == 0 {
		h.logger.Warn("провайдер вернул пустой список голосов")
		return h.sendErrorMessage(chatID, "У провайдера нет доступных голосов, проверь настройки")
	}

	var sb strings.Builder
	sb.WriteString("Доступные голоса:\n\n")
	for _, voice := range voices {
		sb.WriteString(fmt.Sprintf("• %s — /voice %s\n", voice.Name, voice.ID))
	}

	return h.sendMessage(chatID, sb.String())
}

// handleVoiceCommand меняет голос для чата
func (h *Handler) handleVoiceCommand(chatID int64, args string) error {
	voiceID := strings.TrimSpace(args)
	if voiceID == "" {
		return h.sendErrorMessage(chatID, "Укажи идентификатор голоса: /voice <id>")
	}

	h.mu.Lock()
	h.chatVoices[chatID] = voiceID
	h.mu.Unlock()

	return h.sendMessage(chatID, h.messages.VoiceChanged(voiceID))
}

// handleVideoURL запускает задачу озвучки для присланной ссылки
func (h *Handler) handleVideoURL(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	videoURL := strings.TrimSpace(message.Text)

	if videoURL == "" {
		return h.sendMessage(chatID, h.messages.Help())
	}

	h.mu.Lock()
	if h.busyChats[chatID] {
		h.mu.Unlock()
		return h.sendMessage(chatID, h.messages.Busy())
	}
	h.busyChats[chatID] = true
	voiceID := h.chatVoices[chatID]
	h.mu.Unlock()

	if voiceID == "" {
		voiceID = h.defaultVoiceID
	}

	job := models.Job{
		VideoURL:  videoURL,
		VoiceID:   voiceID,
		Settings:  h.settings,
		CreatedAt: time.Now(),
	}

	// Обработка длинная, выполняем в фоне и не блокируем другие чаты
	go h.runJob(ctx, chatID, job)

	return nil
}

// runJob выполняет задачу озвучки и отправляет результат в чат
func (h *Handler) runJob(ctx context.Context, chatID int64, job models.Job) {
	defer func() {
		h.mu.Lock()
		delete(h.busyChats, chatID)
		h.mu.Unlock()
	}()

	statusMsg, err := h.bot.Send(tgbotapi.NewMessage(chatID, h.messages.Processing()))
	if err != nil {
		h.logger.Error("ошибка отправки статусного сообщения", zap.Error(err))
		return
	}

	lastPercent := -1
	progress := func(completed, total int) {
		percent := completed * 100 / total
		// Редактируем сообщение не чаще, чем раз в 10 процентов
		if percent-lastPercent < 10 && completed != total {
			return
		}
		lastPercent = percent

		edit := tgbotapi.NewEditMessageText(chatID, statusMsg.MessageID, h.messages.Progress(completed, total))
		if _, err := h.bot.Send(edit); err != nil {
			h.logger.Debug("ошибка обновления прогресса", zap.Error(err))
		}
	}

	audio, err := h.converter.Convert(ctx, job, progress)
	if err != nil {
		if converter.IsInputError(err) {
			_ = h.sendErrorMessage(chatID, err.Error())
		} else {
			_ = h.sendErrorMessage(chatID, "Произошла ошибка при обработке видео, попробуй позже")
		}
		return
	}

	audioMsg := tgbotapi.NewAudio(chatID, tgbotapi.FileBytes{
		Name:  "transcript_audio.mp3",
		Bytes: audio,
	})
	audioMsg.Caption = "🔊 Озвученный транскрипт"

	if _, err := h.bot.Send(audioMsg); err != nil {
		h.logger.Error("ошибка отправки аудио", zap.Error(err))
		_ = h.sendErrorMessage(chatID, "Не удалось отправить аудио")
	}
}

// sendMessage отправляет текстовое сообщение
func (h *Handler) sendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		h.logger.Error("ошибка отправки сообщения", zap.Error(err))
		return err
	}
	return nil
}

// sendErrorMessage отправляет сообщение об ошибке
func (h *Handler) sendErrorMessage(chatID int64, text string) error {
	return h.sendMessage(chatID, h.messages.Error(text))
}
