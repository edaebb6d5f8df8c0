// cmd/pipl/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/piplapis/piplapis-go/internal/batch"
	"github.com/piplapis/piplapis-go/internal/common/cache"
	"github.com/piplapis/piplapis-go/internal/common/config"
	"github.com/piplapis/piplapis-go/internal/common/database"
	"github.com/piplapis/piplapis-go/internal/common/logger"
	"github.com/piplapis/piplapis-go/internal/common/observability"
	"github.com/piplapis/piplapis-go/pkg/pipl"
)

func main() {
	app := &cli.App{
		Name:    "pipl",
		Usage:   "Search the Pipl identity API from the command line",
		Version: pipl.Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:    "key",
				Aliases: []string{"k"},
				Usage:   "API key, overrides the config file and PIPL_API_KEY",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "search",
				Usage:  "Run a single identity search",
				Action: searchCommand,
				Flags:  searchFlags(),
			},
			{
				Name:   "batch",
				Usage:  "Enrich a file of query records through a worker pool",
				Action: batchCommand,
				Flags:  batchFlags(),
			},
			{
				Name:  "version",
				Usage: "Print the library version",
				Action: func(c *cli.Context) error {
					fmt.Println(pipl.Version)
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "first-name", Usage: "First name"},
		&cli.StringFlag{Name: "middle-name", Usage: "Middle name or initial"},
		&cli.StringFlag{Name: "last-name", Usage: "Last name"},
		&cli.StringFlag{Name: "raw-name", Usage: "Full name, parsed on the API side"},
		&cli.StringFlag{Name: "email", Usage: "Email address"},
		&cli.Int64Flag{Name: "phone", Usage: "Phone number including area code, digits only"},
		&cli.IntFlag{Name: "country-code", Usage: "Phone country code"},
		&cli.StringFlag{Name: "raw-phone", Usage: "Phone number in any format"},
		&cli.StringFlag{Name: "username", Usage: "Username or screen name, at least 4 characters"},
		&cli.StringFlag{Name: "user-id", Usage: "Service-scoped ID in user@service form, for example 11231@facebook"},
		&cli.StringFlag{Name: "url", Usage: "Profile URL, for example a LinkedIn page"},
		&cli.StringFlag{Name: "country", Usage: "Two-letter country code"},
		&cli.StringFlag{Name: "state", Usage: "State or region code"},
		&cli.StringFlag{Name: "city", Usage: "City name"},
		&cli.StringFlag{Name: "street", Usage: "Street name"},
		&cli.StringFlag{Name: "house", Usage: "House or building number"},
		&cli.StringFlag{Name: "zip-code", Usage: "Postal code"},
		&cli.StringFlag{Name: "raw-address", Usage: "Full address, parsed on the API side"},
		&cli.IntFlag{Name: "from-age", Usage: "Minimum age"},
		&cli.IntFlag{Name: "to-age", Usage: "Maximum age"},
		&cli.StringFlag{Name: "search-pointer", Usage: "Continue a previous search from one of its possible persons"},
		&cli.BoolFlag{Name: "top-match", Usage: "Ask for the single best match only"},
		&cli.Float64Flag{Name: "minimum-match", Usage: "Hide possible persons below this match score (0-1)"},
		&cli.Float64Flag{Name: "minimum-probability", Usage: "Hide inferred fields below this probability (0-1)"},
		&cli.StringFlag{Name: "show-sources", Usage: "Return sources: all, matching, true or false"},
		&cli.BoolFlag{Name: "hide-sponsored", Usage: "Hide sponsored results"},
		&cli.BoolFlag{Name: "infer-persons", Usage: "Let the API return inferred persons"},
		&cli.StringFlag{Name: "match-requirements", Usage: `Only charge for results satisfying this criteria, for example "email and phone"`},
		&cli.BoolFlag{Name: "strict", Usage: "Reject queries with unsearchable fields instead of sending them"},
		&cli.BoolFlag{Name: "raw", Aliases: []string{"r"}, Usage: "Print the full response JSON"},
	}
}

func searchCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applySearchOverrides(c, cfg)

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)

	client, err := newSearchClient(cfg, log)
	if err != nil {
		return err
	}

	req := &pipl.SearchRequest{
		FirstName:     c.String("first-name"),
		MiddleName:    c.String("middle-name"),
		LastName:      c.String("last-name"),
		RawName:       c.String("raw-name"),
		Email:         c.String("email"),
		Phone:         c.Int64("phone"),
		CountryCode:   c.Int("country-code"),
		RawPhone:      c.String("raw-phone"),
		Username:      c.String("username"),
		UserID:        c.String("user-id"),
		URL:           c.String("url"),
		Country:       c.String("country"),
		State:         c.String("state"),
		City:          c.String("city"),
		Street:        c.String("street"),
		House:         c.String("house"),
		ZipCode:       c.String("zip-code"),
		RawAddress:    c.String("raw-address"),
		FromAge:       c.Int("from-age"),
		ToAge:         c.Int("to-age"),
		SearchPointer: c.String("search-pointer"),
		TopMatch:      c.Bool("top-match"),
	}

	resp, err := client.Search(context.Background(), req)
	if err != nil {
		return err
	}

	if c.Bool("raw") {
		encoded, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	}

	printSummary(resp)
	return nil
}

func batchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "input",
			Aliases:  []string{"i"},
			Usage:    "Query records file (JSON array or one object per line)",
			Required: true,
		},
		&cli.IntFlag{Name: "concurrency", Usage: "Worker pool size"},
		&cli.IntFlag{Name: "max-retries", Usage: "Attempts per record for retryable failures"},
		&cli.DurationFlag{Name: "retry-delay", Usage: "Base delay for exponential backoff"},
		&cli.StringFlag{Name: "cache", Usage: "Response cache backend: redis, badger or none"},
		&cli.BoolFlag{Name: "postgres", Usage: "Write results to PostgreSQL"},
		&cli.BoolFlag{Name: "elasticsearch", Usage: "Write results to Elasticsearch"},
	}
}

func batchCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	applyBatchOverrides(c, cfg)

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New("pipl-batch")
	defer obs.Shutdown()

	records, err := batch.LoadRecords(c.String("input"))
	if err != nil {
		return err
	}
	zapLog.Info("batch input loaded",
		zap.String("file", c.String("input")),
		zap.Int("records", len(records)),
	)

	client, err := newSearchClient(cfg, log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := openCache(cfg, zapLog)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	sinks, closeSinks, err := openSinks(ctx, cfg, log, zapLog)
	if err != nil {
		return err
	}
	defer closeSinks()

	if cfg.Metrics.Enabled {
		go serveMetrics(cfg.Metrics.Address, zapLog)
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		zapLog.Info("Shutdown signal received, stopping batch...")
		cancel()
	}()

	runner := batch.NewRunner(cfg.Batch, client, store, sinks, log)
	summary, err := runner.Run(ctx, records)
	if err != nil {
		return err
	}

	for _, result := range summary.Results {
		status := "ok"
		if result.Err != nil {
			status = "error"
		}
		obs.RecordSearchProcessed(ctx, status)
		obs.RecordSearchDuration(ctx, result.Duration, status)
	}

	fmt.Printf("Processed %d records: %d succeeded, %d failed, %d cache hits in %s\n",
		summary.Processed, summary.Succeeded, summary.Failed, summary.CacheHits,
		summary.Duration.Round(time.Millisecond))
	for _, result := range summary.Results {
		if result.Err != nil {
			fmt.Printf("  %s: [%s] %s\n", result.RecordID, result.Err.Code, result.Err.Message)
		}
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d records failed", summary.Failed, summary.Processed)
	}
	return nil
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	if path := c.String("config"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func applyGlobalOverrides(c *cli.Context, cfg *config.Config) {
	if key := c.String("key"); key != "" {
		cfg.API.Key = key
	}
	if level := c.String("log-level"); level != "" {
		cfg.Logging.Level = level
	}
}

func applySearchOverrides(c *cli.Context, cfg *config.Config) {
	applyGlobalOverrides(c, cfg)

	if c.IsSet("minimum-match") {
		cfg.API.MinimumMatch = c.Float64("minimum-match")
	}
	if c.IsSet("minimum-probability") {
		cfg.API.MinimumProbability = c.Float64("minimum-probability")
	}
	if c.IsSet("show-sources") {
		cfg.API.ShowSources = c.String("show-sources")
	}
	if c.IsSet("hide-sponsored") {
		cfg.API.HideSponsored = pipl.Bool(c.Bool("hide-sponsored"))
	}
	if c.IsSet("infer-persons") {
		cfg.API.InferPersons = pipl.Bool(c.Bool("infer-persons"))
	}
	if c.IsSet("match-requirements") {
		cfg.API.MatchRequirements = c.String("match-requirements")
	}
	if c.Bool("strict") {
		cfg.API.StrictValidation = true
	}
}

func applyBatchOverrides(c *cli.Context, cfg *config.Config) {
	applyGlobalOverrides(c, cfg)

	if c.IsSet("concurrency") {
		cfg.Batch.Concurrency = c.Int("concurrency")
	}
	if c.IsSet("max-retries") {
		cfg.Batch.MaxRetries = c.Int("max-retries")
	}
	if c.IsSet("retry-delay") {
		cfg.Batch.RetryDelay = int(c.Duration("retry-delay").Milliseconds())
	}
	if c.IsSet("cache") {
		cfg.Cache.Backend = c.String("cache")
	}
	if c.Bool("postgres") {
		cfg.Storage.Postgres.Enabled = true
	}
	if c.Bool("elasticsearch") {
		cfg.Storage.Elasticsearch.Enabled = true
	}
}

func newSearchClient(cfg *config.Config, log logger.Logger) (*pipl.Client, error) {
	return pipl.NewClient(pipl.Settings{
		APIKey:                     cfg.API.Key,
		BaseURL:                    cfg.API.BaseURL,
		UserAgent:                  cfg.API.UserAgent,
		HTTPClient:                 &http.Client{Timeout: config.GetDuration(cfg.API.Timeout)},
		Logger:                     log,
		MinimumProbability:         cfg.API.MinimumProbability,
		MinimumMatch:               cfg.API.MinimumMatch,
		ShowSources:                pipl.ShowSources(cfg.API.ShowSources),
		HideSponsored:              cfg.API.HideSponsored,
		LiveFeeds:                  cfg.API.LiveFeeds,
		InferPersons:               cfg.API.InferPersons,
		MatchRequirements:          cfg.API.MatchRequirements,
		SourceCategoryRequirements: cfg.API.SourceCategoryRequirements,
		TopMatch:                   cfg.API.TopMatch,
		StrictValidation:           cfg.API.StrictValidation,
	})
}

func openCache(cfg *config.Config, zapLog *zap.Logger) (cache.Cache, error) {
	ttl := time.Duration(cfg.Cache.TTL) * time.Second

	switch cfg.Cache.Backend {
	case "redis":
		var redisCache *cache.RedisCache
		err := retryWithBackoff(func() error {
			var err error
			redisCache, err = cache.NewRedisCache(cfg.Cache.Redis, ttl)
			if err != nil {
				return err
			}
			return redisCache.Ping(context.Background())
		}, 3, time.Second, zapLog, "Redis connection")
		if err != nil {
			return nil, err
		}
		zapLog.Info("Redis connected successfully")
		return redisCache, nil

	case "badger":
		return cache.NewBadgerCache(cfg.Cache.Badger, ttl)

	case "", "none":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

func openSinks(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) ([]batch.Sink, func(), error) {
	var sinks []batch.Sink
	closeAll := func() {
		for _, sink := range sinks {
			if err := sink.Close(); err != nil {
				zapLog.Warn("sink close failed", zap.String("sink", sink.Name()), zap.Error(err))
			}
		}
	}

	if cfg.Storage.Postgres.Enabled {
		var pg *database.PostgresClient
		err := retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Storage.Postgres)
			if err != nil {
				return err
			}
			return pg.Ping(ctx)
		}, 3, time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, batch.NewPostgresSink(pg.GetDB(), log))
		zapLog.Info("PostgreSQL connected successfully")
	}

	if cfg.Storage.Elasticsearch.Enabled {
		var esClient *database.ElasticsearchClient
		err := retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Storage.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 3, time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, batch.NewElasticsearchSink(esClient.Client, cfg.Storage.Elasticsearch.Index, log))
		zapLog.Info("Elasticsearch connected successfully")
	}

	return sinks, closeAll, nil
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func serveMetrics(addr string, zapLog *zap.Logger) {
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	http.Handle("/metrics", promhttp.Handler())
	zapLog.Info("Health/Metrics server listening", zap.String("address", addr))
	if err := http.ListenAndServe(addr, nil); err != nil {
		zapLog.Error("Health/Metrics server failed", zap.Error(err))
	}
}

func printSummary(resp *pipl.SearchResponse) {
	if resp.Person != nil {
		fmt.Printf("Match found (%d sources)\n", len(resp.Sources))
		printPersonFields(resp)
		return
	}

	if len(resp.PossiblePersons) > 0 {
		fmt.Printf("%d possible persons found, narrow the query or follow a search pointer:\n",
			len(resp.PossiblePersons))
		for i, possible := range resp.PossiblePersons {
			label := "(no name)"
			if len(possible.Names) > 0 {
				label = possible.Names[0].String()
			}
			fmt.Printf("%3d. %s\n", i+1, label)
			if possible.SearchPointer != "" {
				pointer := possible.SearchPointer
				if len(pointer) > 60 {
					pointer = pointer[:60] + "..."
				}
				fmt.Printf("     search pointer: %s\n", pointer)
			}
		}
		return
	}

	fmt.Println("No match found.")
}

func printPersonFields(resp *pipl.SearchResponse) {
	if name := resp.Name(); name != nil {
		fmt.Printf("  Name:      %s\n", name)
	}
	if dob := resp.DOB(); dob != nil {
		fmt.Printf("  DOB:       %s\n", dob)
	}
	if gender := resp.Gender(); gender != nil {
		fmt.Printf("  Gender:    %s\n", gender)
	}
	if address := resp.Address(); address != nil {
		fmt.Printf("  Address:   %s\n", address)
	}
	if phone := resp.Phone(); phone != nil {
		fmt.Printf("  Phone:     %s\n", phone)
	}
	if email := resp.Email(); email != nil {
		fmt.Printf("  Email:     %s\n", email)
	}
	if username := resp.Username(); username != nil {
		fmt.Printf("  Username:  %s\n", username)
	}
	if job := resp.Job(); job != nil {
		fmt.Printf("  Job:       %s\n", job)
	}
	if education := resp.Education(); education != nil {
		fmt.Printf("  Education: %s\n", education)
	}
	if language := resp.Language(); language != nil {
		fmt.Printf("  Language:  %s\n", language)
	}
	if url := resp.URL(); url != nil {
		fmt.Printf("  URL:       %s\n", url)
	}
}
