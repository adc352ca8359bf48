package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dimonss/BirthdayBackend/internal/platform/logger"
)

// Telegram adapts the Bot API to the router's Sink and FileSource interfaces
// and feeds inbound updates into the router. Each update is dispatched on its
// own goroutine so one slow file fetch never stalls other users; per-user
// ordering is the router's job.
type Telegram struct {
	api    *tgbotapi.BotAPI
	client *http.Client
	log    *logger.Logger
}

func NewTelegram(token string, baseLog *logger.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Telegram{
		api:    api,
		client: &http.Client{Timeout: 60 * time.Second},
		log:    baseLog.With("service", "Telegram"),
	}, nil
}

func (t *Telegram) SetCommands() error {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: "Start working with the bot"},
		tgbotapi.BotCommand{Command: "help", Description: "Show help"},
		tgbotapi.BotCommand{Command: "event", Description: "Pick the occasion"},
		tgbotapi.BotCommand{Command: "template", Description: "Pick a greeting template"},
		tgbotapi.BotCommand{Command: "status", Description: "Check the state of your greeting"},
		tgbotapi.BotCommand{Command: "visibility", Description: "Main page visibility"},
		tgbotapi.BotCommand{Command: "delete", Description: "Delete your greeting"},
	)
	_, err := t.api.Request(cmds)
	return err
}

// Run polls for updates until ctx is cancelled.
func (t *Telegram) Run(ctx context.Context, router *Router) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.api.GetUpdatesChan(u)
	t.log.Info("bot is running", "account", t.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go t.dispatch(ctx, router, update)
		}
	}
}

func (t *Telegram) dispatch(ctx context.Context, router *Router, update tgbotapi.Update) {
	if cq := update.CallbackQuery; cq != nil {
		if cq.Message == nil {
			return
		}
		id := Identity{
			ChatID:     cq.Message.Chat.ID,
			TelegramID: cq.From.ID,
			Username:   cq.From.UserName,
			FirstName:  cq.From.FirstName,
			LastName:   cq.From.LastName,
		}
		router.HandleCallback(ctx, id, Callback{
			ID:        cq.ID,
			MessageID: cq.Message.MessageID,
			Data:      cq.Data,
		})
		return
	}

	m := update.Message
	if m == nil || m.From == nil {
		return
	}
	id := Identity{
		ChatID:     m.Chat.ID,
		TelegramID: m.From.ID,
		Username:   m.From.UserName,
		FirstName:  m.From.FirstName,
		LastName:   m.From.LastName,
	}

	if m.IsCommand() {
		switch m.Command() {
		case "start":
			router.HandleStart(ctx, id)
		case "help":
			router.HandleHelp(ctx, id)
		case "event":
			router.HandleEventCommand(ctx, id)
		case "template":
			router.HandleTemplateCommand(ctx, id)
		case "status":
			router.HandleStatus(ctx, id)
		case "visibility":
			router.HandleVisibilityCommand(ctx, id)
		case "delete":
			router.HandleDelete(ctx, id)
		}
		return
	}

	switch {
	case len(m.Photo) > 0:
		// Telegram sends multiple resolutions; the largest is last.
		ps := m.Photo[len(m.Photo)-1]
		router.HandlePhoto(ctx, id, Upload{FileID: ps.FileID, Size: int64(ps.FileSize)})
	case m.Audio != nil:
		router.HandleAudio(ctx, id, Upload{FileID: m.Audio.FileID, Size: int64(m.Audio.FileSize)})
	case m.Voice != nil:
		router.HandleAudio(ctx, id, Upload{FileID: m.Voice.FileID, Size: int64(m.Voice.FileSize)})
	}
}

func (t *Telegram) SendMessage(chatID int64, text string) error {
	_, err := t.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

func (t *Telegram) SendKeyboard(chatID int64, text string, rows [][]Button) error {
	kbRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		kbRow := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			kbRow = append(kbRow, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		kbRows = append(kbRows, kbRow)
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(kbRows...)
	_, err := t.api.Send(msg)
	return err
}

func (t *Telegram) EditMessage(chatID int64, messageID int, text string) error {
	_, err := t.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}

func (t *Telegram) AnswerCallback(callbackID, text string) error {
	_, err := t.api.Request(tgbotapi.NewCallback(callbackID, text))
	return err
}

// Download fetches an upload's bytes through the Bot API file endpoint.
func (t *Telegram) Download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := t.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch file: unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
