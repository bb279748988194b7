// Command topsellers fetches the storefront's top-seller listings and
// their per-app details in one batch run, writing the collected details
// to a JSON file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/steamfetch/steam-topsellers/pkg/cache"
	"github.com/steamfetch/steam-topsellers/pkg/client"
	"github.com/steamfetch/steam-topsellers/pkg/logging"
	"github.com/steamfetch/steam-topsellers/pkg/pipeline"
	"github.com/steamfetch/steam-topsellers/pkg/storage"
)

// options holds the resolved run configuration. Flags override
// environment variables, which override the documented defaults.
type options struct {
	pages     int
	workers   int
	out       string
	baseURL   string
	userAgent string
	redisAddr string
	cacheTTL  time.Duration
	timeout   time.Duration
	logLevel  string
	jsonLog   bool
}

func parseOptions(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("topsellers", flag.ContinueOnError)
	fs.IntVar(&opts.pages, "pages", getEnvInt("PAGES", 2),
		"number of search result pages to fetch")
	fs.IntVar(&opts.workers, "workers", getEnvInt("DETAIL_WORKERS", 10),
		"size of the detail fetch worker pool")
	fs.StringVar(&opts.out, "out", getEnv("OUTPUT_FILE", storage.DefaultPath),
		"output file path")
	fs.StringVar(&opts.baseURL, "base-url", getEnv("STORE_BASE_URL", client.DefaultBaseURL),
		"storefront base URL")
	fs.StringVar(&opts.userAgent, "user-agent", getEnv("USER_AGENT", "steam-topsellers/0.1.0"),
		"User-Agent header for storefront requests")
	fs.StringVar(&opts.redisAddr, "redis", getEnv("REDIS_ADDR", ""),
		"Redis address for the detail response cache (empty disables caching)")
	fs.DurationVar(&opts.cacheTTL, "cache-ttl", 0,
		"TTL for cached detail responses (0 uses the cache default)")
	fs.DurationVar(&opts.timeout, "timeout", 0,
		"per-request timeout (0 waits indefinitely)")
	fs.StringVar(&opts.logLevel, "log-level", getEnv("LOG_LEVEL", "info"),
		"log level: debug, info, warn, error")
	fs.BoolVar(&opts.jsonLog, "json-log", false,
		"emit JSON logs instead of console output")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.pages <= 0 {
		return options{}, fmt.Errorf("pages must be positive, got %d", opts.pages)
	}
	if opts.workers <= 0 {
		return options{}, fmt.Errorf("workers must be positive, got %d", opts.workers)
	}

	return opts, nil
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(opts.logLevel),
		Pretty: !opts.jsonLog,
		Output: os.Stderr,
	})

	ctx := context.Background()

	// Optional Redis-backed detail cache
	var detailCache *cache.Manager
	if opts.redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr: opts.redisAddr,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("addr", opts.redisAddr).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		detailCache = cache.NewManager(rdb, opts.cacheTTL)
		logger.Info().Str("addr", opts.redisAddr).Msg("Detail response cache enabled")
	}

	storeClient, err := client.New(client.Config{
		BaseURL:   opts.baseURL,
		UserAgent: opts.userAgent,
		Timeout:   opts.timeout,
		Cache:     detailCache,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create storefront client")
	}

	p := pipeline.New(storeClient, pipeline.Config{
		Pages:         opts.pages,
		DetailWorkers: opts.workers,
	})

	details, err := p.Run(ctx)
	if err != nil {
		// Phase-1 failures land here: nothing is written
		logger.Fatal().Err(err).Msg("Run aborted")
	}

	writer := storage.NewJSONWriter(opts.out)
	if err := writer.Write(details); err != nil {
		logger.Fatal().Err(err).Msg("Failed to save results")
	}

	logger.Info().
		Str("path", writer.Path()).
		Int("games", len(details)).
		Msg("All game details saved")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
