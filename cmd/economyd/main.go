package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"reflect"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/meadowmc/economyd/internal/adapters/httpapi"
	"github.com/meadowmc/economyd/internal/adapters/metrics"
	"github.com/meadowmc/economyd/internal/adapters/persistence"
	"github.com/meadowmc/economyd/internal/adapters/redisquote"
	"github.com/meadowmc/economyd/internal/application/common"
	pricingServices "github.com/meadowmc/economyd/internal/application/pricing/services"
	"github.com/meadowmc/economyd/internal/application/shop/commands"
	"github.com/meadowmc/economyd/internal/application/shop/queries"
	"github.com/meadowmc/economyd/internal/application/shop/services"
	"github.com/meadowmc/economyd/internal/domain/pricing"
	"github.com/meadowmc/economyd/internal/domain/session"
	"github.com/meadowmc/economyd/internal/infrastructure/config"
	"github.com/meadowmc/economyd/internal/infrastructure/database"
	"github.com/meadowmc/economyd/internal/infrastructure/logging"
)

// Exit codes: 0 clean shutdown, 1 configuration error, 2 storage error,
// 3 engine fault.
const (
	exitConfig  = 1
	exitStorage = 2
	exitEngine  = 3
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "economyd",
		Short: "Dynamic pricing engine for the in-game shop economy",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newMigrateCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitConfig)
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the pricing engine and HTTP control plane",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(exitConfig)
			}
			logging.Setup(&cfg.Logging)

			if err := serve(cfg); err != nil {
				log.Error().Err(err).Msg("economyd exited with error")
				os.Exit(exitCodeFor(err))
			}
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations and exit",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(exitConfig)
			}
			logging.Setup(&cfg.Logging)

			db, err := database.NewConnection(&cfg.Database)
			if err != nil {
				log.Error().Err(err).Msg("database connection failed")
				os.Exit(exitStorage)
			}
			defer database.Close(db)

			if err := database.AutoMigrate(db); err != nil {
				log.Error().Err(err).Msg("migration failed")
				os.Exit(exitStorage)
			}
			log.Info().Msg("migrations applied")
		},
	}
}

// exitCodeFor classifies a serve failure: a pricing invariant violation is
// an engine fault, everything else counts as storage unavailability.
func exitCodeFor(err error) int {
	var fault *pricing.ErrEngineFault
	if errors.As(err, &fault) {
		return exitEngine
	}
	return exitStorage
}

func serve(cfg *config.Config) error {
	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection: %w", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migration: %w", err)
	}

	location, err := time.LoadLocation(cfg.Engine.Timezone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	initialBalance, err := decimal.NewFromString(cfg.Engine.InitialBalance)
	if err != nil {
		return fmt.Errorf("initial balance: %w", err)
	}

	// Repositories
	itemRepo := persistence.NewGormItemRepository(db)
	ledgerRepo := persistence.NewGormLedgerRepository(db, nil, initialBalance)
	historyRepo := persistence.NewGormHistoryRepository(db, nil)
	sessionRepo := persistence.NewGormSessionRepository(db)
	settingsRepo := persistence.NewGormSettingsRepository(db)

	// Session registry, restored from the last run. Sessions that were online
	// at crash time stay online; the game server re-syncs on reconnect.
	registry := session.NewRegistry()
	if persisted, err := sessionRepo.FindAll(context.Background()); err != nil {
		log.Warn().Err(err).Msg("session restore failed, starting empty")
	} else {
		registry.Restore(persisted)
		log.Info().Int("sessions", len(persisted)).Msg("session registry restored")
	}

	accumulator := pricing.NewAccumulator()
	cache := pricing.NewPriceCache()

	executor := services.NewTradeExecutor(
		itemRepo, ledgerRepo, registry, accumulator, cache,
		settingsRepo, nil, location, cfg.Engine.CommitTimeout,
	)

	var collector *metrics.EngineMetricsCollector
	var observer pricingServices.TickObserver
	if cfg.Metrics.Enabled {
		collector = metrics.NewEngineMetricsCollector(nil)
		observer = collector
	}

	var mirror pricing.QuoteMirror
	if cfg.Redis.Enabled {
		m, err := redisquote.NewMirror(cfg.Redis.URL, cfg.Redis.KeyPrefix)
		if err != nil {
			return fmt.Errorf("redis mirror: %w", err)
		}
		defer m.Close()
		mirror = m
	}

	repricer := pricingServices.NewRepriceService(
		itemRepo, historyRepo, accumulator, cache, registry,
		settingsRepo, nil, location, mirror, observer,
	)

	med, err := buildMediator(executor, itemRepo, ledgerRepo, historyRepo, sessionRepo, settingsRepo, registry, collector)
	if err != nil {
		return fmt.Errorf("mediator: %w", err)
	}

	server := httpapi.NewServer(cfg, med)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		err := repricer.Run(ctx)
		if err != nil && err != context.Canceled {
			return err
		}
		return nil
	})

	log.Info().Msg("economyd started")
	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	log.Info().Msg("economyd stopped")
	return nil
}

func buildMediator(
	executor *services.TradeExecutor,
	itemRepo *persistence.GormItemRepository,
	ledgerRepo *persistence.GormLedgerRepository,
	historyRepo *persistence.GormHistoryRepository,
	sessionRepo *persistence.GormSessionRepository,
	settingsRepo *persistence.GormSettingsRepository,
	registry *session.Registry,
	collector *metrics.EngineMetricsCollector,
) (common.Mediator, error) {
	med := common.NewMediator()
	med.Use(common.LoggingMiddleware())
	if collector != nil {
		med.Use(collector.MediatorMiddleware())
	}

	sessionHandler := commands.NewSessionHandler(registry, sessionRepo, settingsRepo, nil)

	registrations := []struct {
		request common.Request
		handler common.RequestHandler
	}{
		{&commands.ExecuteTradeCommand{}, commands.NewExecuteTradeHandler(executor)},
		{&commands.ExecuteBatchCommand{}, commands.NewExecuteBatchHandler(executor)},
		{&commands.SetBalanceCommand{}, commands.NewSetBalanceHandler(ledgerRepo)},
		{&commands.CreateItemCommand{}, commands.NewCreateItemHandler(itemRepo, nil)},
		{&commands.UpdateSettingCommand{}, commands.NewUpdateSettingHandler(settingsRepo)},
		{&commands.PlayerLoginCommand{}, sessionHandler},
		{&commands.PlayerActivityCommand{}, sessionHandler},
		{&commands.PlayerLogoutCommand{}, sessionHandler},
		{&queries.GetBalanceQuery{}, queries.NewGetBalanceHandler(ledgerRepo)},
		{&queries.GetTransactionsQuery{}, queries.NewGetTransactionsHandler(ledgerRepo)},
		{&queries.GetItemsQuery{}, queries.NewGetItemsHandler(itemRepo)},
		{&queries.GetItemQuery{}, queries.NewGetItemHandler(itemRepo)},
		{&queries.GetPriceQuery{}, queries.NewGetPriceHandler(executor, itemRepo)},
		{&queries.GetPriceHistoryQuery{}, queries.NewGetPriceHistoryHandler(itemRepo, historyRepo)},
		{&queries.GetTrendQuery{}, queries.NewGetTrendHandler(itemRepo, historyRepo)},
		{&queries.GetOnlineQuery{}, queries.NewGetOnlineHandler(registry)},
	}
	for _, r := range registrations {
		if err := med.Register(reflect.TypeOf(r.request), r.handler); err != nil {
			return nil, err
		}
	}
	return med, nil
}
