// Package bot wires the conversation engine, admin console, price book
// and notifier onto the Telegram transport.
package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/LucasNunez12345/bot-hexadec/internal/config"
	"github.com/LucasNunez12345/bot-hexadec/internal/database"
	"github.com/LucasNunez12345/bot-hexadec/internal/dialog"
	"github.com/LucasNunez12345/bot-hexadec/internal/notify"
	"github.com/LucasNunez12345/bot-hexadec/internal/pricing"
	"github.com/LucasNunez12345/bot-hexadec/internal/session"
	"github.com/LucasNunez12345/bot-hexadec/internal/telegram"
	"github.com/LucasNunez12345/bot-hexadec/internal/telegram/sender"
)

// App aggregates the bot's long-lived components.
type App struct {
	cfg      *config.Config
	sessions *session.Store
	book     *pricing.Book

	engine *dialog.Engine
	admin  *dialog.Admin
}

// New builds the price book from its configured backend and prepares
// the application. A store that cannot be loaded aborts startup.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	store, err := buildStore(cfg)
	if err != nil {
		return nil, err
	}
	table, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("bot: price book load failed: %w", err)
	}

	return &App{
		cfg:      cfg,
		sessions: session.NewStore(),
		book:     pricing.NewBook(table, store),
	}, nil
}

func buildStore(cfg *config.Config) (pricing.Store, error) {
	switch cfg.PriceBook.Backend {
	case config.PriceBookBackendPostgres:
		db, err := database.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(cfg.Database); err != nil {
			_ = db.Close()
			return nil, err
		}
		return pricing.NewPostgresStore(db), nil
	default:
		return pricing.NewFileStore(cfg.PriceBook.Path), nil
	}
}

// RunOptions assembles the transport composition for telegram.Run.
func (a *App) RunOptions() telegram.RunOptions {
	return telegram.RunOptions{
		Config: a.cfg,
		Build: func(bot *tele.Bot, disp *sender.Dispatcher) error {
			notifier := notify.NewTelegramNotifier(bot, a.cfg.Business.OperatorChatID, disp)
			a.engine = dialog.NewEngine(a.sessions, a.book, notifier, a.cfg.Business.Schedule)
			a.admin = dialog.NewAdmin(a.book, a.cfg.Business.AdminID)
			return nil
		},
		Middlewares: []telegram.Middleware{
			{Name: "recover", Use: telegram.RecoverMiddleware},
			{Name: "rate_limit", Use: telegram.RateLimitMiddleware(a.cfg.RateLimit)},
			{Name: "logger", Use: telegram.LoggerMiddleware},
		},
		Routes: []telegram.Route{
			{Endpoint: "/" + dialog.CmdStart, Handler: a.onCommand(dialog.CmdStart)},
			{Endpoint: "/" + dialog.CmdStatus, Handler: a.onCommand(dialog.CmdStatus)},
			{Endpoint: "/" + dialog.CmdAdmin, Handler: a.onAdminCommand},
			{Endpoint: tele.OnText, Handler: a.onText},
			{Endpoint: tele.OnCallback, Handler: a.onCallback},
		},
		Commands: []tele.Command{
			{Text: "/" + dialog.CmdStart, Description: "Comenzar una solicitud"},
			{Text: "/" + dialog.CmdStatus, Description: "Ver si el bot está activo"},
			// /precios stays out of the public command menu.
		},
	}
}

func (a *App) onCommand(name string) tele.HandlerFunc {
	return func(c tele.Context) error {
		reply, err := a.engine.Handle(telegram.BuildContext(c), dialog.Event{
			UserID: c.Sender().ID,
			Kind:   dialog.KindCommand,
			Name:   name,
		})
		if err != nil {
			return err
		}
		return a.send(c, reply)
	}
}

func (a *App) onAdminCommand(c tele.Context) error {
	reply, err := a.admin.Handle(telegram.BuildContext(c), dialog.Event{
		UserID: c.Sender().ID,
		Kind:   dialog.KindCommand,
		Name:   dialog.CmdAdmin,
	})
	if err != nil {
		return err
	}
	return a.send(c, reply)
}

func (a *App) onText(c tele.Context) error {
	userID := c.Sender().ID
	ev := dialog.Event{UserID: userID, Kind: dialog.KindText, Text: c.Text()}

	machine := a.engine.Handle
	if a.admin.Authorized(userID) && a.admin.InProgress(userID) {
		machine = a.admin.Handle
	}
	reply, err := machine(telegram.BuildContext(c), ev)
	if err != nil {
		return err
	}
	return a.send(c, reply)
}

func (a *App) onCallback(c tele.Context) error {
	tag := telegram.CallbackKey(c)
	_ = c.Respond()

	ev := dialog.Event{UserID: c.Sender().ID, Kind: dialog.KindButton, Name: tag}
	machine := a.engine.Handle
	if a.admin.Owns(tag) {
		machine = a.admin.Handle
	}
	reply, err := machine(telegram.BuildContext(c), ev)
	if err != nil {
		return err
	}
	return a.send(c, reply)
}

func (a *App) send(c tele.Context, r dialog.Reply) error {
	if r.Empty() {
		return nil
	}
	opts := &tele.SendOptions{
		ParseMode:   tele.ModeMarkdown,
		ReplyMarkup: toMarkup(r.Buttons),
	}
	if r.Edit && c.Callback() != nil {
		return c.EditOrSend(r.Text, opts)
	}
	return c.Send(r.Text, opts)
}

func toMarkup(rows [][]dialog.Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}
	btnRows := make([][]telegram.InlineBtn, len(rows))
	for i, row := range rows {
		btns := make([]telegram.InlineBtn, len(row))
		for j, b := range row {
			btns[j] = telegram.InlineBtn{Text: b.Label, Unique: b.Tag}
		}
		btnRows[i] = btns
	}
	return telegram.InlineButtonsRows(btnRows...)
}
