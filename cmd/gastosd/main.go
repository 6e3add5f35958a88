// gastosd is the Telegram collaborator around the extraction engine: photos
// in, filed expenses out. It downloads each receipt photo, runs the
// configured analyzer, parks the result in the pending store, and lets the
// user confirm or fix the category and pick the payer before saving.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/gastosbot/receipts-engine/constants"
	"github.com/gastosbot/receipts-engine/internal/analyzer"
	"github.com/gastosbot/receipts-engine/internal/common"
	"github.com/gastosbot/receipts-engine/internal/export"
	"github.com/gastosbot/receipts-engine/internal/session"
	"github.com/gastosbot/receipts-engine/internal/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if cfg.Bot.Token == "" {
		logger.Error("TELEGRAM_BOT_TOKEN required")
		os.Exit(1)
	}

	a, closeAnalyzer, err := analyzer.FromConfig(cfg, logger)
	if err != nil {
		logger.Error("build analyzer", "error", err)
		os.Exit(1)
	}
	defer closeAnalyzer()

	ctx := context.Background()
	csvStore, err := storage.NewCSVStore(cfg.Storage.CSVFile)
	if err != nil {
		logger.Error("open csv store", "error", err)
		os.Exit(1)
	}
	relational, err := storage.OpenRelational(ctx, cfg.Storage.DatabaseURL, logger)
	if err != nil {
		// mirror is best-effort, the CSV keeps working
		logger.Warn("relational store unavailable", "error", err)
		relational = nil
	}
	store := storage.NewTee(csvStore, relational, logger)

	if err := os.MkdirAll(cfg.Storage.ReceiptsDir, 0o755); err != nil {
		logger.Error("receipts dir", "error", err)
		os.Exit(1)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.Bot.Token)
	if err != nil {
		logger.Error("telegram init", "error", err)
		os.Exit(1)
	}
	logger.Info("bot ready", "account", bot.Self.UserName, "mode", cfg.Analyzer.Mode)

	d := &daemon{
		bot:      bot,
		analyzer: a,
		store:    store,
		exporter: export.NewService(store, logger),
		pending:  session.NewStore(15 * time.Minute),
		cfg:      cfg,
		logger:   logger,
	}
	d.run(ctx)
}

type daemon struct {
	bot      *tgbotapi.BotAPI
	analyzer analyzer.ReceiptAnalyzer
	store    storage.ExpenseStore
	exporter *export.Service
	pending  *session.Store
	cfg      *common.Config
	logger   *slog.Logger
}

func (d *daemon) run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	for update := range d.bot.GetUpdatesChan(u) {
		switch {
		case update.Message != nil && update.Message.IsCommand():
			d.handleCommand(ctx, update.Message)
		case update.Message != nil && len(update.Message.Photo) > 0:
			d.handlePhoto(ctx, update.Message)
		case update.CallbackQuery != nil:
			d.handleCallback(ctx, update.CallbackQuery)
		}
	}
}

func (d *daemon) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		d.reply(msg.Chat.ID, "Mandame una foto de un ticket y lo registro. /export para descargar los gastos.")
	case "export":
		data, err := d.exporter.ExportExpensesXLSX(ctx, "", "")
		if err != nil {
			d.logger.Error("export failed", "error", err)
			d.reply(msg.Chat.ID, "No pude generar el export.")
			return
		}
		doc := tgbotapi.NewDocument(msg.Chat.ID, tgbotapi.FileBytes{Name: "gastos.xlsx", Bytes: data})
		if _, err := d.bot.Send(doc); err != nil {
			d.logger.Error("send export", "error", err)
		}
	}
}

func (d *daemon) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	// largest rendition is last
	photo := msg.Photo[len(msg.Photo)-1]
	localPath, err := d.downloadPhoto(ctx, photo.FileID)
	if err != nil {
		d.logger.Error("photo download failed", "error", err)
		d.reply(msg.Chat.ID, "No pude descargar la foto.")
		return
	}

	result, err := d.analyzer.Analyze(ctx, localPath)
	if err != nil {
		d.logger.Warn("analysis failed", "path", localPath, "error", err)
		d.reply(msg.Chat.ID, "No pude leer el ticket. Probá con otra foto.")
		return
	}

	d.pending.Put(msg.Chat.ID, session.Pending{
		Result:      result,
		ReceiptPath: localPath,
		User:        msg.From.UserName,
	})

	text := fmt.Sprintf("Ticket leído (%.0f%%):\n%s\n%.2f € — %s — %s\n¿Categoría correcta?",
		result.OverallConfidence, result.Title, result.Amount, result.Date, result.Category)
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyMarkup = categoryKeyboard()
	if _, err := d.bot.Send(reply); err != nil {
		d.logger.Error("send analysis summary", "error", err)
	}
}

func (d *daemon) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	defer func() {
		if _, err := d.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
			d.logger.Warn("callback ack failed", "error", err)
		}
	}()

	chatID := cb.Message.Chat.ID
	p, ok := d.pending.Get(chatID)
	if !ok {
		d.reply(chatID, "Ese ticket ya expiró, mandá la foto de nuevo.")
		return
	}

	kind, value, found := strings.Cut(cb.Data, "|")
	if !found {
		return
	}
	switch kind {
	case "category":
		p.Result.Category, _ = constants.Coerce(value)
		d.pending.Put(chatID, p)
		reply := tgbotapi.NewMessage(chatID, "¿Quién pagó?")
		reply.ReplyMarkup = payerKeyboard(d.cfg.Bot.Payers)
		if _, err := d.bot.Send(reply); err != nil {
			d.logger.Error("send payer keyboard", "error", err)
		}
	case "payer":
		expense := storage.Expense{
			Date:         p.Result.Date,
			Amount:       p.Result.Amount,
			Category:     p.Result.Category,
			TelegramUser: value,
			ProcessedAt:  time.Now().UTC(),
			ReceiptPath:  p.ReceiptPath,
			Title:        p.Result.Title,
		}
		if err := d.store.SaveExpense(ctx, expense); err != nil {
			d.logger.Error("save expense", "error", err)
			d.reply(chatID, "No pude guardar el gasto.")
			return
		}
		d.pending.Delete(chatID)
		d.reply(chatID, fmt.Sprintf("Guardado: %.2f € — %s — %s", expense.Amount, expense.Category, value))
	}
}

func (d *daemon) downloadPhoto(ctx context.Context, fileID string) (string, error) {
	url, err := d.bot.GetFileDirectURL(fileID)
	if err != nil {
		return "", fmt.Errorf("resolve file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch photo: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("fetch photo: status %d", resp.StatusCode)
	}

	name := fmt.Sprintf("%d_%s.jpg", time.Now().Unix(), fileID[:min(8, len(fileID))])
	localPath := filepath.Join(d.cfg.Storage.ReceiptsDir, name)
	out, err := os.Create(localPath)
	if err != nil {
		return "", err
	}
	defer func() { _ = out.Close() }()
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = os.Remove(localPath)
		return "", fmt.Errorf("write photo: %w", err)
	}
	return localPath, nil
}

func (d *daemon) reply(chatID int64, text string) {
	if _, err := d.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		d.logger.Error("send message", "error", err)
	}
}

func categoryKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, cat := range constants.AsStringSlice() {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(cat, "category|"+cat),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func payerKeyboard(payers []string) tgbotapi.InlineKeyboardMarkup {
	var buttons []tgbotapi.InlineKeyboardButton
	for _, p := range payers {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(p, "payer|"+p))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
}
