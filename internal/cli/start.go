package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"golang.org/x/sync/errgroup"

	"gengo-bot/internal/config"
	"gengo-bot/internal/deck"
	"gengo-bot/internal/immersion"
	"gengo-bot/internal/infra/memory"
	pgstore "gengo-bot/internal/infra/postgres"
	redisstore "gengo-bot/internal/infra/redis"
	"gengo-bot/internal/provider"
	"gengo-bot/internal/quiz"
	"gengo-bot/internal/transport/discord"
)

// NewStartCmd builds the CLI subcommand that runs the bot.
func NewStartCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Connect to Discord and serve commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), *configPath)
		},
	}
}

func runBot(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	token := cfg.Discord.Token
	if token == "" {
		token = os.Getenv("DISCORD_TOKEN")
	}
	if token == "" {
		return fmt.Errorf("discord token not configured")
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var bunDB *bun.DB
	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		bunDB = bun.NewDB(sqldb, pgdialect.New())
		defer bunDB.Close()

		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	deckDir := cfg.Decks.Dir
	if deckDir == "" {
		deckDir = "decks"
	}
	catalog, err := deck.Load(deckDir, logger)
	if err != nil {
		return err
	}
	logger.Info("deck catalog loaded", "dir", deckDir, "decks", catalog.Len())

	var guilds quiz.GuildStore
	var immersionStore immersion.Store
	var summaries immersion.SummaryStore
	if bunDB != nil {
		guilds = pgstore.NewGuildStore(bunDB)
		immersionStore = pgstore.NewImmersionStore(bunDB)
		summaries = pgstore.NewSummaryReader(pool)
	} else {
		memGuilds := memory.NewGuildStore()
		memLogs := memory.NewImmersionStore()
		guilds = memGuilds
		immersionStore = memLogs
		summaries = memLogs
	}

	var cooldowns quiz.CooldownStore
	if redisClient != nil {
		cooldowns = redisstore.NewCooldownStore(redisClient)
	} else {
		cooldowns = memory.NewCooldownStore()
	}

	providers, err := buildProviders(cfg, redisClient)
	if err != nil {
		return err
	}

	gw, err := discord.New(token, guilds, cooldowns, logger)
	if err != nil {
		return err
	}
	manager := quiz.NewManager(catalog, gw, guilds, logger)
	svc := immersion.NewService(immersionStore, summaries, guilds, providers, logger)
	gw.SetManager(manager)
	gw.SetImmersion(svc)

	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return gw.Open(gctx)
	})
	return g.Wait()
}

// buildProviders loads the static metadata catalog, if configured, and
// wraps each provider in the cache layer.
func buildProviders(cfg config.Config, redisClient *redis.Client) (*provider.Set, error) {
	set := provider.NewSet()
	if cfg.Metadata.File == "" {
		return set, nil
	}
	byMedia, err := provider.LoadFile(cfg.Metadata.File)
	if err != nil {
		return nil, err
	}
	ttl := config.TTLDuration(cfg.Metadata.TTL, 24*time.Hour)
	for media, p := range byMedia {
		if redisClient != nil {
			set.Register(media, redisstore.NewMetadataCache(redisClient, p, ttl))
		} else {
			set.Register(media, memory.NewMetadataCache(p, ttl))
		}
	}
	return set, nil
}
