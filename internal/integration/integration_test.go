package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"

	"gengo-bot/internal/domain"
	"gengo-bot/internal/immersion"
	pgstore "gengo-bot/internal/infra/postgres"
	pgmigrations "gengo-bot/internal/infra/postgres/migrations"
	infraredis "gengo-bot/internal/infra/redis"
	"gengo-bot/internal/provider"
)

func TestImmersionLoggingEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	db := openBun(t, ctx, pgURL)
	defer db.Close()

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	guilds := pgstore.NewGuildStore(db)
	if err := guilds.PutGuildConfig(ctx, domain.GuildConfig{
		GuildID:          "g1",
		ImmersionEnabled: true,
	}); err != nil {
		t.Fatalf("seed guild: %v", err)
	}

	svc := immersion.NewService(pgstore.NewImmersionStore(db), pgstore.NewSummaryReader(pool), guilds, provider.NewSet(), nil)

	for i := 0; i < 2; i++ {
		if _, err := svc.Log(ctx, immersion.LogRequest{
			UserID:    "u1",
			GuildID:   "g1",
			MediaType: domain.MediaAnime,
			Amount:    1,
			Duration:  24 * time.Minute,
			Content:   "Monster",
		}); err != nil {
			t.Fatalf("log: %v", err)
		}
	}
	last, err := svc.Log(ctx, immersion.LogRequest{
		UserID:    "u1",
		GuildID:   "g1",
		MediaType: domain.MediaManga,
		Amount:    12,
		Duration:  40 * time.Minute,
		Content:   "Yotsuba&",
	})
	if err != nil {
		t.Fatalf("log: %v", err)
	}

	logs, err := svc.Recent(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(logs) != 3 || logs[0].ID != last.ID {
		t.Fatalf("expected 3 logs newest first, got %+v", logs)
	}

	removed, err := svc.Undo(ctx, "u1")
	if err != nil || removed.ID != last.ID {
		t.Fatalf("undo: %+v %v", removed, err)
	}

	totals, err := svc.Totals(ctx, "u1")
	if err != nil {
		t.Fatalf("totals: %v", err)
	}
	if len(totals) != 1 || totals[0].MediaType != domain.MediaAnime || totals[0].Amount != 2 {
		t.Fatalf("expected anime total 2, got %+v", totals)
	}
}

func TestGuildRewardsEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	db := openBun(t, ctx, pgURL)
	defer db.Close()

	store := pgstore.NewGuildStore(db)
	if _, err := store.GuildConfig(ctx, "g1"); !errors.Is(err, domain.ErrGuildNotConfigured) {
		t.Fatalf("expected ErrGuildNotConfigured, got %v", err)
	}

	reward := domain.QuizReward{
		RoleID:   "r1",
		GuildID:  "g1",
		Sort:     1,
		Name:     "kana",
		Command:  "-d kana -s 15",
		Cooldown: 24 * time.Hour,
	}
	if err := store.PutReward(ctx, reward); err != nil {
		t.Fatalf("put reward: %v", err)
	}
	if err := store.PutReward(ctx, domain.QuizReward{RoleID: "r2", GuildID: "g1", Sort: 2, Name: "kanji"}); err != nil {
		t.Fatalf("put reward: %v", err)
	}

	rewards, err := store.GuildRewards(ctx, "g1")
	if err != nil {
		t.Fatalf("list rewards: %v", err)
	}
	if len(rewards) != 2 || rewards[0].RoleID != "r1" {
		t.Fatalf("unexpected rewards %+v", rewards)
	}

	got, err := store.RewardByName(ctx, "g1", "kana")
	if err != nil {
		t.Fatalf("reward by name: %v", err)
	}
	if got.Command != reward.Command || got.Cooldown != reward.Cooldown {
		t.Fatalf("unexpected reward %+v", got)
	}
}

func TestCooldownStoreEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	client, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	store := infraredis.NewCooldownStore(client)

	if err := store.Set(ctx, "u1", "r1", time.Hour); err != nil {
		t.Fatalf("set: %v", err)
	}
	_, ok, err := store.Get(ctx, "u1", "r1")
	if err != nil || !ok {
		t.Fatalf("expected active cooldown, got ok=%v err=%v", ok, err)
	}
	if err := store.Clear(ctx, "u1", "r1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "u1", "r1"); ok {
		t.Fatalf("expected cooldown cleared")
	}
}

func openBun(t *testing.T, ctx context.Context, dsn string) *bun.DB {
	t.Helper()
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "bot", "POSTGRES_PASSWORD": "botpass", "POSTGRES_DB": "botdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://bot:botpass@%s:%s/botdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
