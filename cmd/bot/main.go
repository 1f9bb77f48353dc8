package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"staff-bot/internal/bot"
	"staff-bot/internal/config"
	"staff-bot/internal/handlers"
	"staff-bot/internal/identity"
	"staff-bot/internal/notify"
	"staff-bot/internal/schedule"
	"staff-bot/internal/sheets"
	"staff-bot/internal/store"
	"staff-bot/internal/web"
	"staff-bot/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	// Logger config from env (LOG_LEVEL, LOG_FORMAT, LOG_OUTPUT)
	loggerConfig := &logger.Config{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
		Output: getEnv("LOG_OUTPUT", "stdout"),
	}
	zapLogger, err := logger.New(loggerConfig, logger.DefaultServiceName)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = zapLogger.Sync() }()
	zap.ReplaceGlobals(zapLogger)

	cfg, err := config.FromEnv()
	if err != nil {
		zap.L().Fatal("invalid configuration", zap.Error(err))
	}

	staff, err := config.LoadStaff(cfg.StaffFile)
	if err != nil {
		zap.L().Fatal("invalid staff config", zap.Error(err))
	}

	stores, err := openStores(cfg.DataDir)
	if err != nil {
		zap.L().Fatal("failed to open data files", zap.Error(err))
	}

	b, err := bot.New(cfg.BotToken, stores, staff.Managers, zapLogger)
	if err != nil {
		zap.L().Fatal("failed to create bot", zap.Error(err))
	}

	client := sheets.NewClient(sheets.Options{
		ScheduleDocID: cfg.ScheduleSpreadsheetID,
		FallbackGID:   cfg.ScheduleFallbackGID,
		Keyword:       cfg.SheetKeyword,
		PrepsDocID:    cfg.PrepsSpreadsheetID,
		PrepsGID:      cfg.PrepsGID,
	}, zapLogger)
	parser := schedule.NewParser(staff, zapLogger)
	svc := schedule.NewService(client, parser, cfg.Location, zapLogger)
	resolver := identity.NewResolver(staff)

	notifier := notify.New(svc, stores.Registry, stores.Ledger, stores.Group,
		stores.Messages, b, cfg.Location, zapLogger)

	env := &handlers.Env{
		Bot:      b,
		Schedule: svc,
		Resolver: resolver,
		Notify:   notifier,
		Location: cfg.Location,
	}

	dashboard := web.NewServer(svc, cfg.Location, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zap.L().Info("bot started successfully")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return notifier.Run(ctx) })
	g.Go(func() error { return dashboard.Run(ctx, cfg.ListenAddr) })
	g.Go(func() error { return runUpdates(ctx, b, env) })

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		zap.L().Fatal("unhandled error in main loop", zap.Error(err))
	}
}

func runUpdates(ctx context.Context, b *bot.Bot, env *handlers.Env) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.API.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.API.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message != nil {
				if update.Message.Chat.IsPrivate() {
					if update.Message.IsCommand() {
						switch update.Message.Command() {
						case "start":
							handlers.HandleStart(env, update.Message)
						default:
							b.SendMessage(update.Message.Chat.ID,
								"Неизвестная команда. Используй /start.")
						}
					} else {
						handlers.HandleMessage(env, update.Message)
					}
				} else {
					handlers.HandleGroupMessage(env, update.Message)
				}
			} else if update.CallbackQuery != nil {
				handlers.HandleCallbackQuery(env, update.CallbackQuery)
			}
		}
	}
}

func openStores(dataDir string) (bot.Stores, error) {
	registry, err := store.OpenRegistry(filepath.Join(dataDir, "users.json"))
	if err != nil {
		return bot.Stores{}, err
	}
	ledger, err := store.OpenLedger(filepath.Join(dataDir, "notifications.json"))
	if err != nil {
		return bot.Stores{}, err
	}
	group, err := store.OpenGroup(filepath.Join(dataDir, "group.json"))
	if err != nil {
		return bot.Stores{}, err
	}
	ratings, err := store.OpenRatings(filepath.Join(dataDir, "ratings.json"))
	if err != nil {
		return bot.Stores{}, err
	}
	medical, err := store.OpenMedical(filepath.Join(dataDir, "medical_info.json"))
	if err != nil {
		return bot.Stores{}, err
	}
	return bot.Stores{
		Registry: registry,
		Ledger:   ledger,
		Group:    group,
		Ratings:  ratings,
		Medical:  medical,
		Messages: store.OpenMessages(dataDir),
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
