// Package telegram connects the dialogue to the Telegram Bot API through long polling.
package telegram

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"stocks_bot/internal/feature/dialogue/usecase"
)

// BotAPI is the subset of *tgbotapi.BotAPI used by Bot.
type BotAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Dialogue handles one incoming message.
type Dialogue interface {
	Handle(ctx context.Context, in usecase.Incoming) (usecase.Outcome, error)
}

// JobRunner executes a finished dialogue.
type JobRunner interface {
	Run(ctx context.Context, job usecase.Job) []usecase.Reply
}

// Pool runs jobs off the dispatcher goroutine.
type Pool interface {
	Go(ctx context.Context, task func(ctx context.Context)) error
}

// Options tunes polling and job execution.
type Options struct {
	PollTimeout int           // long polling timeout in seconds
	JobTimeout  time.Duration // upper bound for one chart, SMA or full data job
}

// Bot dispatches updates on a single goroutine. Market data work runs on the pool.
type Bot struct {
	api       BotAPI
	dialogue  Dialogue
	runner    JobRunner
	pool      Pool
	opts      Options
	startedAt time.Time
}

// NewBot creates a Bot.
func NewBot(api BotAPI, dialogue Dialogue, runner JobRunner, pool Pool, opts Options) *Bot {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 60
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 2 * time.Minute
	}
	return &Bot{
		api:       api,
		dialogue:  dialogue,
		runner:    runner,
		pool:      pool,
		opts:      opts,
		startedAt: time.Now(),
	}
}

// Run polls for updates until ctx is canceled or the update channel is closed.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.opts.PollTimeout
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	slog.Info("telegram polling started", "poll_timeout", b.opts.PollTimeout)
	for {
		select {
		case <-ctx.Done():
			slog.Info("telegram polling stopped")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return
	}
	// 起動前に溜まっていたメッセージは処理しない
	if msg.Time().Before(b.startedAt.Truncate(time.Second)) {
		slog.Debug("skipping stale update", "update_id", upd.UpdateID)
		return
	}

	in := usecase.Incoming{
		UserID: msg.Chat.ID,
		ChatID: msg.Chat.ID,
		Text:   normalizeCommand(msg.Text),
	}
	if msg.From != nil {
		in.UserID = msg.From.ID
	}

	out, err := b.dialogue.Handle(ctx, in)
	if err != nil {
		slog.Error("failed to handle message", "chat_id", in.ChatID, "user_id", in.UserID, "error", err)
		b.send(in.ChatID, []usecase.Reply{{Text: usecase.ErrorUnexpected, Markdown: true, Keyboard: usecase.MainMenuKeyboard()}})
		return
	}
	b.send(in.ChatID, out.Replies)

	if out.Job == nil {
		return
	}
	job := *out.Job
	err = b.pool.Go(ctx, func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, b.opts.JobTimeout)
		defer cancel()
		b.send(job.ChatID, b.runner.Run(ctx, job))
	})
	if err != nil {
		slog.Warn("job rejected", "kind", job.Kind, "chat_id", job.ChatID, "error", err)
		b.send(in.ChatID, []usecase.Reply{{Text: usecase.ErrorBusy, Keyboard: usecase.MainMenuKeyboard()}})
	}
}

// send delivers replies in order. Failures are logged; a chart file is removed either way.
func (b *Bot) send(chatID int64, replies []usecase.Reply) {
	for _, r := range replies {
		if r.PhotoPath != "" {
			b.sendPhoto(chatID, r)
			continue
		}
		b.sendText(chatID, r)
	}
}

func (b *Bot) sendPhoto(chatID int64, r usecase.Reply) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(r.PhotoPath))
	photo.Caption = r.Caption
	if r.Keyboard != nil {
		photo.ReplyMarkup = replyKeyboard(r.Keyboard)
	}
	if _, err := b.api.Send(photo); err != nil {
		slog.Error("failed to send photo", "chat_id", chatID, "path", r.PhotoPath, "error", err)
	}
	if r.DeleteAfterSend {
		if err := os.Remove(r.PhotoPath); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove chart file", "path", r.PhotoPath, "error", err)
		}
	}
}

func (b *Bot) sendText(chatID int64, r usecase.Reply) {
	m := tgbotapi.NewMessage(chatID, r.Text)
	if r.Keyboard != nil {
		m.ReplyMarkup = replyKeyboard(r.Keyboard)
	}
	if r.Markdown {
		m.ParseMode = tgbotapi.ModeMarkdown
	}
	_, err := b.api.Send(m)
	if err != nil && r.Markdown && isParseError(err) {
		// 価格や銘柄名に Markdown の記号が含まれる場合はプレーンテキストで再送する
		m.ParseMode = ""
		_, err = b.api.Send(m)
	}
	if err != nil {
		slog.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func replyKeyboard(kb *usecase.Keyboard) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
	for _, row := range kb.Rows {
		buttons := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, label := range row {
			buttons = append(buttons, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, tgbotapi.NewKeyboardButtonRow(buttons...))
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.OneTimeKeyboard = kb.OneTime
	return markup
}

func isParseError(err error) bool {
	return strings.Contains(err.Error(), "can't parse entities")
}

// normalizeCommand strips the bot mention from commands sent in groups ("/start@stocks_bot").
func normalizeCommand(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return text
	}
	cmd, _, _ := strings.Cut(text, "@")
	return cmd
}
