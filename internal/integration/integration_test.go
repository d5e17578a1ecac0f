package integration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"airport-cyber-crisis/internal/app"
	"airport-cyber-crisis/internal/domain"
	"airport-cyber-crisis/internal/infra/memory"
	"airport-cyber-crisis/internal/infra/postgres"
	pgmigrations "airport-cyber-crisis/internal/infra/postgres/migrations"
	infraredis "airport-cyber-crisis/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestFullRunOverPostgres(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()

	if err := pgmigrations.Run(ctx, pgURL); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// A second run must be a no-op.
	if err := pgmigrations.Run(ctx, pgURL); err != nil {
		t.Fatalf("migrate again: %v", err)
	}

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	storage := postgres.NewStorage(pool)
	if _, err := storage.Load(ctx, app.LeaderboardKey); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on empty table, got %v", err)
	}

	service := newService(t, memory.NewSessionStore(), storage)
	playPerfectRun(t, ctx, service, "kiosk-1", "Ava")

	// A fresh service over the same table sees the persisted board and name.
	restarted := newService(t, memory.NewSessionStore(), storage)
	board := restarted.Leaderboard(ctx, 0)
	if len(board) != 1 || board[0].Name != "Ava" || board[0].Score != 1300 || board[0].Correct != 10 {
		t.Fatalf("unexpected persisted board %+v", board)
	}
	if _, name := restarted.Open(ctx, "kiosk-1"); name != "Ava" {
		t.Fatalf("expected remembered name, got %q", name)
	}

	if err := restarted.ClearLeaderboard(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if board := restarted.Leaderboard(ctx, 0); len(board) != 0 {
		t.Fatalf("expected empty board after clear, got %+v", board)
	}
}

func TestFullRunOverRedis(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	client, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	defer client.Close()

	storage := infraredis.NewStorage(client, "it:", 0)
	sessions := infraredis.NewSessionStore(client, "it:", time.Minute)
	service := newService(t, sessions, storage)

	session := playPerfectRun(t, ctx, service, "kiosk-2", "Ben")
	if n, err := client.Exists(ctx, "it:session:"+session.ID()).Result(); err != nil || n != 1 {
		t.Fatalf("expected live session marker, got %d (%v)", n, err)
	}
	service.Close(ctx, session.ID())
	if n, _ := client.Exists(ctx, "it:session:"+session.ID()).Result(); n != 0 {
		t.Fatalf("expected session marker removed")
	}

	raw, err := client.Get(ctx, "it:"+app.LeaderboardKey).Bytes()
	if err != nil {
		t.Fatalf("get leaderboard key: %v", err)
	}
	entries, err := app.DecodeLeaderboard(raw)
	if err != nil || len(entries) != 1 || entries[0].Name != "Ben" {
		t.Fatalf("unexpected stored board %+v (%v)", entries, err)
	}
}

func newService(t *testing.T, sessions app.SessionRepository, storage app.Storage) *app.GameService {
	t.Helper()
	bank, err := app.NewQuestionBank(context.Background(), memory.NewStaticQuestionLoader(memory.AirportScenarios()))
	if err != nil {
		t.Fatalf("bank: %v", err)
	}
	return app.NewGameService(
		sessions,
		bank,
		app.NewLeaderboard(storage, app.DefaultLeaderboardSize),
		app.NewNameMemory(storage),
		app.DefaultRules(),
		clockwork.NewFakeClock(),
	)
}

// playPerfectRun answers every built-in scenario correctly with the clock frozen at 30:00.
func playPerfectRun(t *testing.T, ctx context.Context, service *app.GameService, device, name string) *app.Session {
	t.Helper()
	session, _ := service.Open(ctx, device)
	if err := service.Start(ctx, session.ID(), name); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i, q := range memory.AirportScenarios() {
		result, err := service.Answer(ctx, session.ID(), q.Correct)
		if err != nil {
			t.Fatalf("answer %d: %v", i, err)
		}
		if !result.Correct || result.Awarded != 130 {
			t.Fatalf("answer %d: unexpected result %+v", i, result)
		}
	}
	if state := session.Snapshot(); state.Stage != domain.StageEnd || state.Score != 1300 {
		t.Fatalf("expected finished run with 1300 points, got %+v", state)
	}
	return session
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "arcade", "POSTGRES_PASSWORD": "arcadepass", "POSTGRES_DB": "arcade"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60 * time.Second),
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
	dsn := fmt.Sprintf("postgres://arcade:arcadepass@%s:%s/arcade?sslmode=disable", host, port.Port())
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
	return goredis.NewClient(opts), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
