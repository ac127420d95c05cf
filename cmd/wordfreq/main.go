// Command wordfreq runs the word-frequency analysis engine over a corpus
// supplied as a JSON file or a PostgreSQL table, logs aggregation progress,
// prints the top words, and optionally exports the aggregate.
//
// Usage:
//
//	go run ./cmd/wordfreq -corpus testdata/articles.json [-config configs/development.yaml] [-export csv -out words.csv]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lexiscope/wordfreq/internal/corpus"
	"github.com/lexiscope/wordfreq/internal/engine"
	"github.com/lexiscope/wordfreq/internal/engine/analysis"
	"github.com/lexiscope/wordfreq/internal/engine/export"
	"github.com/lexiscope/wordfreq/pkg/config"
	"github.com/lexiscope/wordfreq/pkg/health"
	"github.com/lexiscope/wordfreq/pkg/kafka"
	"github.com/lexiscope/wordfreq/pkg/logger"
	"github.com/lexiscope/wordfreq/pkg/metrics"
	"github.com/lexiscope/wordfreq/pkg/postgres"
	pkgredis "github.com/lexiscope/wordfreq/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	corpusPath := flag.String("corpus", "", "path to a JSON corpus file")
	sourceKind := flag.String("source", "json", "corpus source: json or postgres")
	exportFormat := flag.String("export", "", "export format: csv or json")
	outPath := flag.String("out", "", "export output file (default stdout)")
	topN := flag.Int("top", 20, "number of top words to print")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithRunID(ctx, fmt.Sprintf("run-%d", time.Now().UnixNano()))

	source, cleanup, err := buildSource(*sourceKind, *corpusPath, cfg)
	if err != nil {
		slog.Error("failed to build corpus source", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	opts := []engine.Option{}
	if cfg.Metrics.Enabled {
		opts = append(opts, engine.WithMetrics(metrics.New()))
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer shutdown(context.Background())
	}
	if cfg.Kafka.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.EngineEvents)
		defer producer.Close()
		opts = append(opts, engine.WithEventSink(engine.NewKafkaSink(producer)))
	}
	var redisClient *pkgredis.Client
	if cfg.Cache.Backend == "redis" {
		client, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		redisClient = client
		opts = append(opts, engine.WithAnalysisStore(analysis.NewRedisStore(client, cfg.Cache.TTL)))
	}

	eng := engine.New(cfg, source, opts...)
	startHealthServer(cfg, eng, redisClient)

	agg, err := eng.AnalyzeAll(ctx)
	if err != nil {
		slog.Error("aggregation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("aggregation complete",
		"documents", agg.Documents,
		"tokens", agg.TokenCount,
		"distinct_words", len(agg.Entries),
	)

	for i, entry := range agg.Entries {
		if i >= *topN {
			break
		}
		fmt.Printf("%4d  %-24s stem=%-20s articles=%d\n",
			entry.Frequency, entry.Word, entry.Stemmed, len(entry.Articles))
	}

	if *exportFormat != "" {
		out := os.Stdout
		if *outPath != "" {
			f, err := os.Create(*outPath)
			if err != nil {
				slog.Error("failed to create export file", "path", *outPath, "error", err)
				os.Exit(1)
			}
			defer f.Close()
			out = f
		}
		if err := eng.Export(out, export.Format(*exportFormat)); err != nil {
			slog.Error("export failed", "format", *exportFormat, "error", err)
			os.Exit(1)
		}
	}
}

// buildSource selects the corpus adapter. JSON files hold a Document array.
func buildSource(kind, path string, cfg *config.Config) (corpus.Source, func(), error) {
	switch kind {
	case "postgres":
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			return nil, func() {}, err
		}
		return corpus.NewPostgresSource(client, "articles"), func() { client.Close() }, nil
	case "json":
		if path == "" {
			return nil, func() {}, fmt.Errorf("-corpus is required for the json source")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, func() {}, fmt.Errorf("reading corpus file: %w", err)
		}
		var docs []corpus.Document
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, func() {}, fmt.Errorf("parsing corpus file: %w", err)
		}
		return corpus.NewStaticSource(docs), func() {}, nil
	default:
		return nil, func() {}, fmt.Errorf("unknown corpus source %q", kind)
	}
}

func startHealthServer(cfg *config.Config, eng *engine.Engine, redisClient *pkgredis.Client) {
	checker := health.NewChecker()
	checker.Register("aggregate", func(ctx context.Context) health.ComponentHealth {
		if eng.Initialized() {
			return health.ComponentHealth{Status: health.StatusUp, Message: "aggregate built"}
		}
		return health.ComponentHealth{Status: health.StatusDegraded, Message: "aggregate not built yet"}
	})
	if redisClient != nil {
		checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
			if err := redisClient.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("health server error", "error", err)
		}
	}()
}
