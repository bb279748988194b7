package integration

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/steamfetch/steam-topsellers/internal/testutil"
	"github.com/steamfetch/steam-topsellers/pkg/cache"
	"github.com/steamfetch/steam-topsellers/pkg/client"
	"github.com/steamfetch/steam-topsellers/pkg/pipeline"
	"github.com/steamfetch/steam-topsellers/pkg/storage"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

// seedStore configures two search pages and details for every listed app.
func seedStore(mock *testutil.MockStore) {
	mock.SetSearchPage(1, `{"items": [`+
		testutil.SearchItem("Counter-Strike 2", 730)+`,`+
		testutil.SearchItem("Dota 2", 570)+
		`]}`)
	mock.SetSearchPage(2, `{"items": [`+
		testutil.SearchItem("Team Fortress 2", 440)+
		`]}`)

	mock.SetAppDetails(730, `{"730": {"success": true, "data": {"name": "Counter-Strike 2"}}}`)
	mock.SetAppDetails(570, `{"570": {"success": true, "data": {"name": "Dota 2"}}}`)
	mock.SetAppDetails(440, `{"440": {"success": true, "data": {"name": "Team Fortress 2"}}}`)
}

// TestFullRun covers the complete flow: search pages → appid extraction →
// cached detail fetches → JSON file on disk.
func TestFullRun(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockStore()
	defer mock.Close()
	seedStore(mock)

	storeClient, err := client.New(client.Config{
		BaseURL:   mock.URL(),
		UserAgent: "IntegrationTest/1.0.0",
		Cache:     cache.NewManager(redisClient, time.Minute),
	})
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}

	p := pipeline.New(storeClient, pipeline.Config{Pages: 2, DetailWorkers: 10})

	ctx := context.Background()
	details, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(details) != 3 {
		t.Fatalf("got %d details, want 3", len(details))
	}

	// Persist and read back
	path := filepath.Join(t.TempDir(), "search_results.json")
	writer := storage.NewJSONWriter(path)
	if err := writer.Write(details); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var decoded []map[string]json.RawMessage
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not a JSON array of objects: %v", err)
	}
	if len(decoded) != 3 {
		t.Errorf("output has %d records, want 3", len(decoded))
	}

	// A second run must serve every detail from the Redis cache
	detailsBefore := mock.GetDetailsCount()
	if detailsBefore != 3 {
		t.Fatalf("details requests after first run = %d, want 3", detailsBefore)
	}

	if _, err := p.Run(ctx); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if got := mock.GetDetailsCount(); got != detailsBefore {
		t.Errorf("details requests after second run = %d, want %d (cache should absorb them)", got, detailsBefore)
	}
}

// TestFullRun_PageFailureProducesNoOutput verifies the phase-1 fatality:
// a failing search page aborts the run before anything is written.
func TestFullRun_PageFailureProducesNoOutput(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	mock := testutil.NewMockStore()
	defer mock.Close()

	mock.SetSearchPage(1, `{"items": [`+testutil.SearchItem("Game A", 10)+`]}`)
	mock.SetSearchPageResponse(2, testutil.MockResponse{StatusCode: 502, Body: `{"error": "bad gateway"}`})

	storeClient, err := client.New(client.Config{
		BaseURL:   mock.URL(),
		UserAgent: "IntegrationTest/1.0.0",
		Cache:     cache.NewManager(redisClient, time.Minute),
	})
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}

	p := pipeline.New(storeClient, pipeline.Config{Pages: 2, DetailWorkers: 10})

	details, err := p.Run(context.Background())
	if err == nil {
		t.Fatal("Run() must fail on a page fetch error")
	}
	if details != nil {
		t.Errorf("Run() returned %d details alongside an error", len(details))
	}
	if mock.GetDetailsCount() != 0 {
		t.Errorf("detail requests = %d, want 0 after fatal phase 1", mock.GetDetailsCount())
	}

	path := filepath.Join(t.TempDir(), "search_results.json")
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Error("no output file should exist for an aborted run")
	}
}
