package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	portssvc "github.com/SscSPs/club_tab_app/internal/core/ports/services"
	"github.com/SscSPs/club_tab_app/internal/middleware"
	"github.com/go-telegram/bot"
)

var ErrNoSenderToken = errors.New("telegram: bot token not configured")

// BotSender delivers messages through the Bot API sendMessage method.
type BotSender struct {
	client  *bot.Bot
	initErr error
	token   string
	timeout time.Duration
}

var (
	_ portssvc.MessageSender = (*BotSender)(nil)
	_ portssvc.MessageSender = LogSender{}
)

// NewBotSender creates a sender. Each message is bounded by timeout.
// A sender without a token fails every send.
func NewBotSender(baseURL, token string, timeout time.Duration) *BotSender {
	s := &BotSender{token: token, timeout: timeout}
	if token == "" {
		s.initErr = ErrNoSenderToken
		return s
	}
	client, err := bot.New(token,
		bot.WithSkipGetMe(),
		bot.WithServerURL(baseURL),
	)
	if err != nil {
		s.initErr = fmt.Errorf("telegram: failed to create bot client: %w", redactToken(err, token))
		return s
	}
	s.client = client
	return s
}

func (s *BotSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	if s.initErr != nil {
		return s.initErr
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("telegram: sendMessage to %d failed: %w", chatID, redactToken(err, s.token))
	}
	return nil
}

// tokenRedactedError hides the bot token that request URLs carry.
type tokenRedactedError struct {
	msg string
	err error
}

func (e *tokenRedactedError) Error() string { return e.msg }
func (e *tokenRedactedError) Unwrap() error { return e.err }

func redactToken(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return &tokenRedactedError{msg: strings.ReplaceAll(err.Error(), token, "<redacted>"), err: err}
}

// LogSender logs messages instead of sending them. Used in DEV_MODE.
type LogSender struct{}

func (LogSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	middleware.GetLoggerFromCtx(ctx).InfoContext(ctx, "[DEV] Would send message",
		slog.Int64("chat_id", chatID),
		slog.String("text", text))
	return nil
}
