package telegram

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"skincare-report/internal/app"
	"skincare-report/internal/archive"
	"skincare-report/internal/config"
	"skincare-report/internal/report"

	"github.com/dustin/go-humanize"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// maxRequestBytes caps uploaded request documents.
const maxRequestBytes = 5 << 20

const helpText = `👋 *Skincare Report Bot*

Send me a report request as a YAML or JSON document (or paste it as text) and I'll reply with your personalised HTML report.

Add the caption ` + "`summary`" + ` to a document for the short layout.

/last - resend your latest report
/metrics - usage and health (admin only)`

// botAPI is the subset of *tgbotapi.BotAPI the bot relies on.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

// Bot delivers reports over Telegram.
type Bot struct {
	api        botAPI
	app        *app.App
	cfg        *config.Config
	logger     *zap.Logger
	httpClient *http.Client
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, application *app.App, logger *zap.Logger) (*Bot, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}

	logger.Info("authorized on telegram", zap.String("account", bot.Self.UserName))

	webhookURL := cfg.TelegramWebhookURL
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook url %s: %w", webhookURL, err)
	}
	resp, err := bot.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", webhookURL, err)
	}
	logger.Info("webhook set", zap.String("description", resp.Description))

	return newBot(bot, cfg, application, logger), nil
}

func newBot(api botAPI, cfg *config.Config, application *app.App, logger *zap.Logger) *Bot {
	return &Bot{
		api:        api,
		app:        application,
		cfg:        cfg,
		logger:     logger,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := b.api.HandleUpdate(r)
	if err != nil {
		b.logger.Warn("error parsing update", zap.Error(err))
		return
	}

	if update.Message == nil || update.Message.From == nil {
		return
	}

	if !b.cfg.IsAllowed(update.Message.From.ID) {
		b.logger.Warn("unauthorized access attempt",
			zap.Int64("user_id", update.Message.From.ID),
			zap.String("username", update.Message.From.UserName),
		)
		return
	}

	go b.processMessage(update.Message)
}

func (b *Bot) processMessage(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch msg.Command() {
	case "start", "help":
		b.sendMarkdown(msg.Chat.ID, helpText)
		return
	case "metrics":
		b.handleMetricsRequest(ctx, msg)
		return
	case "last":
		b.handleLastRequest(ctx, msg)
		return
	}

	b.handleReportRequest(ctx, msg)
}

func (b *Bot) handleMetricsRequest(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From.ID != b.cfg.AdminTelegramID {
		b.sendMarkdown(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	usage, health, err := b.app.Usage(ctx, 7)
	if err != nil {
		b.logger.Error("failed to fetch metrics", zap.Error(err))
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Error fetching metrics."))
		return
	}
	b.sendMarkdown(msg.Chat.ID, formatMetricsMarkdown(usage, health))
}

func (b *Bot) handleLastRequest(ctx context.Context, msg *tgbotapi.Message) {
	res, err := b.app.Latest(ctx, recipient(msg))
	if errors.Is(err, archive.ErrNotFound) {
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "You have no reports yet. Send me a request to create one."))
		return
	}
	if err != nil {
		b.logger.Error("failed to load latest report", zap.Error(err))
		b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, "❌ Error loading your last report."))
		return
	}

	caption := fmt.Sprintf("%s (generated %s)", res.Record.Title, humanize.Time(res.Record.GeneratedAt))
	b.sendReport(msg.Chat.ID, res, caption)
}

func (b *Bot) handleReportRequest(ctx context.Context, msg *tgbotapi.Message) {
	raw, err := b.requestBody(ctx, msg)
	if err != nil {
		b.logger.Warn("failed to read request", zap.Error(err))
		b.replyError(msg.Chat.ID, "Could not read your request", err)
		return
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		b.sendMarkdown(msg.Chat.ID, helpText)
		return
	}

	req, err := report.DecodeRequest(bytes.NewReader(raw))
	if err != nil {
		b.replyError(msg.Chat.ID, "Could not parse your request", err)
		return
	}

	var layout report.Layout
	if caption := strings.TrimSpace(msg.Caption); caption != "" {
		layout, err = report.ParseLayout(caption)
		if err != nil {
			b.replyError(msg.Chat.ID, "Unknown layout", err)
			return
		}
	}

	res, err := b.app.Generate(ctx, app.GenerateInput{
		Request:   req,
		Layout:    layout,
		Recipient: recipient(msg),
	})
	if err != nil {
		if !errors.Is(err, report.ErrMissingProductName) {
			b.logger.Error("failed to generate report", zap.Error(err))
			b.sendAdminAlert(fmt.Sprintf("⚠️ *Report generation failed*\nUser: %d\n`%s`", msg.From.ID, sanitize(err.Error())))
		}
		b.replyError(msg.Chat.ID, "Error generating report", err)
		return
	}

	b.sendReport(msg.Chat.ID, res, res.Record.Title)
	b.sendMarkdown(msg.Chat.ID, formatRoutineMarkdown(req))
}

// requestBody returns the document contents when one is attached, the
// message text otherwise.
func (b *Bot) requestBody(ctx context.Context, msg *tgbotapi.Message) ([]byte, error) {
	if msg.Document == nil {
		return []byte(msg.Text), nil
	}
	if msg.Document.FileSize > maxRequestBytes {
		return nil, fmt.Errorf("document is larger than %s", humanize.IBytes(maxRequestBytes))
	}

	url, err := b.api.GetFileDirectURL(msg.Document.FileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve document url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download document: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxRequestBytes))
}

func (b *Bot) sendReport(chatID int64, res *app.Result, caption string) {
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  reportFilename(res.Record),
		Bytes: res.HTML,
	})
	doc.Caption = caption
	if _, err := b.api.Send(doc); err != nil {
		b.logger.Error("failed to send report", zap.String("id", res.Record.ID), zap.Error(err))
	}
}

func (b *Bot) sendMarkdown(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (b *Bot) replyError(chatID int64, title string, err error) {
	b.sendMarkdown(chatID, fmt.Sprintf("❌ *%s:*\n```\n%s\n```", title, sanitize(err.Error())))
}

func (b *Bot) sendAdminAlert(text string) {
	if b.cfg.AdminTelegramID == 0 {
		return
	}
	b.sendMarkdown(b.cfg.AdminTelegramID, text)
}

func recipient(msg *tgbotapi.Message) string {
	return fmt.Sprintf("%d", msg.From.ID)
}

func sanitize(s string) string {
	return strings.ReplaceAll(s, "`", "'")
}

// reportFilename builds a readable attachment name such as
// "priya-prescription-2026-03-07.html".
func reportFilename(rec archive.Record) string {
	name := strings.ToLower(strings.Fields(rec.Title + " report")[0])
	name = strings.TrimSuffix(name, "'s")
	var sb strings.Builder
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		sb.WriteString("report")
	}
	return fmt.Sprintf("%s-%s-%s.html", sb.String(), rec.Layout, rec.GeneratedAt.Format("2006-01-02"))
}
