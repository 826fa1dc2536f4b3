package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendia-app/agendia/internal/dedupe"
	"github.com/agendia-app/agendia/internal/domain/intent"
	"github.com/agendia-app/agendia/internal/storage"
	"github.com/agendia-app/agendia/internal/telegram"
	"github.com/agendia-app/agendia/internal/usecase/command"
)

const processTimeout = 2 * time.Minute

// ======================================================
// HANDLER
// ======================================================

type TelegramHandler struct {
	bot            telegram.BotAPI
	processCommand *command.ProcessCommand
	dedupe         dedupe.Store          // opcional
	voiceArchive   *storage.VoiceArchive // opcional
	webhookSecret  string
}

func NewTelegramHandler(
	bot telegram.BotAPI,
	processCommand *command.ProcessCommand,
	dedupeStore dedupe.Store,
	voiceArchive *storage.VoiceArchive,
	webhookSecret string,
) *TelegramHandler {
	return &TelegramHandler{
		bot:            bot,
		processCommand: processCommand,
		dedupe:         dedupeStore,
		voiceArchive:   voiceArchive,
		webhookSecret:  webhookSecret,
	}
}

// ======================================================
// WEBHOOK
// ======================================================

// Webhook responde 200 imediatamente e processa em background; o Telegram
// reenvia updates que demoram, e reprocessar um agendamento é pior do que
// responder antes de terminar.
func (h *TelegramHandler) Webhook(c *gin.Context) {
	if h.webhookSecret != "" &&
		c.GetHeader("X-Telegram-Bot-Api-Secret-Token") != h.webhookSecret {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var update telegram.Update
	if err := c.ShouldBindJSON(&update); err != nil {
		log.Println("telegram: update inválido:", err)
		c.String(http.StatusOK, "OK")
		return
	}

	c.String(http.StatusOK, "OK")

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
		defer cancel()
		h.processUpdate(ctx, update)
	}()
}

func (h *TelegramHandler) processUpdate(ctx context.Context, update telegram.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	if h.dedupe != nil {
		seen, err := h.dedupe.Seen(ctx, update.UpdateID)
		if err != nil {
			log.Println("telegram: dedupe indisponível:", err)
		} else if seen {
			return
		}
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := strconv.FormatInt(msg.From.ID, 10)

	in, ok := h.buildInput(ctx, userID, msg)
	if !ok {
		h.reply(ctx, chatID, "❓ Envie um comando de texto ou mensagem de voz.")
		return
	}

	result := h.processCommand.Execute(ctx, userID, in)

	icon := "❌"
	if result.Success {
		icon = "✅"
	}
	h.reply(ctx, chatID, icon+" "+result.Message)
}

// buildInput extrai texto ou baixa o áudio da mensagem. ok=false quando o
// tipo de mensagem não é suportado ou o download falhou.
func (h *TelegramHandler) buildInput(ctx context.Context, userID string, msg *telegram.Message) (intent.Input, bool) {
	if msg.Text != "" {
		return intent.Input{Text: msg.Text}, true
	}

	if msg.Voice == nil {
		return intent.Input{}, false
	}

	// Feedback de "digitando" enquanto o áudio é processado.
	if err := h.bot.SendChatAction(ctx, msg.Chat.ID, "typing"); err != nil {
		log.Println("telegram: sendChatAction:", err)
	}

	file, err := h.bot.GetFile(ctx, msg.Voice.FileID)
	if err != nil {
		log.Println("telegram: getFile:", err)
		return intent.Input{}, false
	}

	audio, err := h.bot.DownloadFile(ctx, file.FilePath)
	if err != nil {
		log.Println("telegram: download de voz:", err)
		return intent.Input{}, false
	}

	mimeType := msg.Voice.MimeType
	if mimeType == "" {
		mimeType = "audio/ogg"
	}

	if h.voiceArchive != nil {
		h.voiceArchive.Archive(ctx, userID, msg.Voice.FileID, mimeType, audio)
	}

	return intent.Input{Audio: audio, MimeType: mimeType}, true
}

func (h *TelegramHandler) reply(ctx context.Context, chatID int64, text string) {
	if err := h.bot.SendMessage(ctx, chatID, text); err != nil {
		log.Println("telegram: sendMessage:", err)
	}
}
