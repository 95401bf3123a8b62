package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"waterwise-quiz-service/internal/app"
	"waterwise-quiz-service/internal/domain"
	pgcatalog "waterwise-quiz-service/internal/infra/postgres"
	pgmigrations "waterwise-quiz-service/internal/infra/postgres/migrations"
	infraredis "waterwise-quiz-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestQuizFlowEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedScreens(t, ctx, pgURL, sampleScreens())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	loader := pgcatalog.NewCatalogLoader(pool)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	catalogs := infraredis.NewCatalogRepository(redisClient, loader, 5*time.Minute)
	sessionStore := infraredis.NewSessionStore(redisClient, 5*time.Minute)
	service := app.NewQuizService(sessionStore, catalogs)

	if _, err := service.Start(ctx, "sid", "Ada"); err != nil {
		t.Fatalf("start: %v", err)
	}

	session, outcome, err := service.SubmitScreen(ctx, "sid", "s1", domain.Submission{
		0: "right", 1: "right", 2: "wrong",
	})
	if err != nil {
		t.Fatalf("submit s1: %v", err)
	}
	if session.Score != 2 || outcome.Percentage != 66 || outcome.Badge != "badge-1" {
		t.Fatalf("unexpected s1 result: %+v %+v", session, outcome)
	}

	if _, err := service.FinalSummary(ctx, "sid"); err != domain.ErrSummaryBlocked {
		t.Fatalf("expected blocked summary, got %v", err)
	}

	if _, _, err := service.SubmitScreen(ctx, "sid", "s2", domain.Submission{
		0: "right", 1: "right", 2: "right",
	}); err != nil {
		t.Fatalf("submit s2: %v", err)
	}

	summary, err := service.FinalSummary(ctx, "sid")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Score != 5 || summary.TotalPossible != 6 || summary.Percentage != 83 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.Badges) != 2 {
		t.Fatalf("expected both badges, got %v", summary.Badges)
	}
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
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
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
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

func seedScreens(t *testing.T, ctx context.Context, dsn string, screens []domain.Screen) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	for position, screen := range screens {
		data, err := json.Marshal(screen)
		if err != nil {
			t.Fatalf("marshal screen: %v", err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO screens (id, position, data) VALUES (?, ?, ?::jsonb) ON CONFLICT (id) DO UPDATE SET position=EXCLUDED.position, data=EXCLUDED.data`, screen.ID, position, string(data)); err != nil {
			t.Fatalf("insert screen: %v", err)
		}
	}
}

func sampleScreens() []domain.Screen {
	question := domain.Question{
		Prompt:  "Pick right",
		Options: []string{"wrong", "right"},
		Answer:  "right",
		Fact:    "right was right",
	}
	return []domain.Screen{
		{ID: "s1", Title: "One", Questions: []domain.Question{question, question, question}, Next: "s2", Badge: "badge-1"},
		{ID: "s2", Title: "Two", Questions: []domain.Question{question, question, question}, Next: domain.TerminalNext, Badge: "badge-2"},
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
