package main

// @title           lexcore API
// @version         1.0
// @description     Legal-text ingestion, chunking, search and lineage API. lexcore parses statutes into structural units, chunks them for retrieval and tracks the custody and version history of every edition.

// @contact.name   lexcore maintainers
// @contact.url    https://github.com/custodia-labs/lexcore/issues

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/custodia-labs/lexcore/docs"
	"github.com/custodia-labs/lexcore/internal/adapters/driven/ai"
	"github.com/custodia-labs/lexcore/internal/adapters/driven/blob"
	"github.com/custodia-labs/lexcore/internal/adapters/driven/cache"
	"github.com/custodia-labs/lexcore/internal/adapters/driven/filestore"
	"github.com/custodia-labs/lexcore/internal/adapters/driven/postgres"
	postgresqueue "github.com/custodia-labs/lexcore/internal/adapters/driven/queue/postgres"
	redisqueue "github.com/custodia-labs/lexcore/internal/adapters/driven/queue/redis"
	redisadapter "github.com/custodia-labs/lexcore/internal/adapters/driven/redis"
	"github.com/custodia-labs/lexcore/internal/adapters/driven/sourcecheck"
	"github.com/custodia-labs/lexcore/internal/adapters/driving/http"
	"github.com/custodia-labs/lexcore/internal/chunking"
	"github.com/custodia-labs/lexcore/internal/config"
	"github.com/custodia-labs/lexcore/internal/core/domain"
	"github.com/custodia-labs/lexcore/internal/core/ports/driven"
	"github.com/custodia-labs/lexcore/internal/core/services"
	"github.com/custodia-labs/lexcore/internal/lineage"
	"github.com/custodia-labs/lexcore/internal/locale"
	"github.com/custodia-labs/lexcore/internal/normalisers"
	"github.com/custodia-labs/lexcore/internal/runtime"
	"github.com/custodia-labs/lexcore/internal/structure"
	"github.com/custodia-labs/lexcore/internal/worker"
)

var version = "dev"

// stores groups the persistence ports of the selected storage backend
type stores struct {
	documents driven.LegalDocumentStore
	chunks    driven.ChunkStore
	lineages  driven.LineageStore
	checks    driven.ChangeDetectionStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	// Command line arg overrides RUN_MODE
	if len(os.Args) > 1 {
		cfg.Mode = os.Args[1]
		if err := cfg.Validate(); err != nil {
			log.Fatalf("Invalid configuration: %v", err)
		}
	}

	log.Printf("lexcore %s starting in %s mode (storage=%s)", version, cfg.Mode, cfg.Storage)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutdown signal received, stopping...")
		cancel()
	}()

	logger := slog.Default()
	clock := domain.SystemClock{}
	pingers := map[string]http.Pinger{}

	// ===== Storage =====
	var st stores
	var db *postgres.DB
	switch cfg.Storage {
	case config.StoragePostgres:
		log.Println("Connecting to PostgreSQL...")
		db, err = postgres.Connect(ctx, postgres.Config{
			URL:             cfg.DatabaseURL,
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.DB.ConnMaxIdleTime,
		})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := db.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize schema: %v", err)
		}
		log.Println("PostgreSQL connected and schema initialized")

		st = stores{
			documents: postgres.NewDocumentStore(db),
			chunks:    postgres.NewChunkStore(db),
			lineages:  postgres.NewLineageStore(db),
			checks:    postgres.NewChangeDetectionStore(db),
		}
		pingers["postgres"] = db

	case config.StorageFiles:
		fs, err := filestore.Open(filestore.Config{Root: cfg.CorpusDir, Clock: clock, Logger: logger})
		if err != nil {
			log.Fatalf("Failed to open corpus directory: %v", err)
		}
		st = stores{
			documents: fs.Documents(),
			chunks:    fs.Chunks(),
			lineages:  fs.Lineages(),
			checks:    fs.Checks(),
		}
		log.Printf("Using file corpus at %s", fs.Root())
	}

	// ===== Redis (optional) =====
	var redisClient *redis.Client
	instance := redisadapter.InstanceName()
	if cfg.RedisURL != "" {
		log.Println("Connecting to Redis...")
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to parse Redis URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		log.Printf("Redis connected (instance %s)", instance)
	}

	// ===== Document cache (Redis if available, otherwise in-process LRU) =====
	var docCache driven.DocumentCache
	switch cfg.CacheBackend() {
	case "redis":
		docCache = redisadapter.NewDocumentCache(redisClient, cfg.Cache.TTL, logger)
		log.Println("Using Redis document cache")
	case "memory":
		lru, err := cache.NewLRU(cfg.Cache.Size, cfg.Cache.TTL, clock)
		if err != nil {
			log.Fatalf("Failed to create document cache: %v", err)
		}
		docCache = lru
		log.Printf("Using in-process document cache (%d entries)", cfg.Cache.Size)
	}
	if docCache != nil {
		st.documents = cache.NewCachedDocumentStore(st.documents, docCache, logger)
	}

	// ===== Task Queue (Redis if available, otherwise PostgreSQL) =====
	var taskQueue driven.TaskQueue
	switch {
	case redisClient != nil:
		q, err := redisqueue.NewQueue(ctx, redisClient, instance)
		if err != nil {
			log.Fatalf("Failed to create task queue: %v", err)
		}
		taskQueue = q
		log.Println("Using Redis task queue")
	case db != nil:
		taskQueue = postgresqueue.NewQueue(db.DB)
		log.Println("Using PostgreSQL task queue")
	default:
		log.Println("No task queue available; refreshes run inline")
	}
	if taskQueue != nil {
		pingers["queue"] = taskQueue
	}

	// ===== Distributed Lock (Redis if available, otherwise PostgreSQL advisory locks) =====
	var distributedLock driven.DistributedLock
	switch {
	case redisClient != nil:
		distributedLock = redisadapter.NewLock(redisClient, instance)
		pingers["redis"] = distributedLock
		log.Println("Using Redis distributed lock")
	case db != nil:
		distributedLock = postgres.NewAdvisoryLock(db)
		log.Println("Using PostgreSQL advisory lock")
	}

	// ===== Blob storage for raw editions =====
	var blobs driven.BlobStore
	if cfg.Blob.Backend == "postgres" {
		blobs = postgres.NewBlobStore(db)
	} else {
		blobs, err = blob.New(ctx, blob.Config{
			Backend:   cfg.Blob.Backend,
			LocalPath: cfg.Blob.LocalPath,
			S3: blob.S3Config{
				Bucket:    cfg.Blob.S3Bucket,
				Region:    cfg.Blob.S3Region,
				Prefix:    cfg.Blob.S3Prefix,
				Endpoint:  cfg.Blob.S3Endpoint,
				AccessKey: cfg.Blob.S3AccessKey,
				SecretKey: cfg.Blob.S3SecretKey,
			},
		})
		if err != nil {
			log.Fatalf("Failed to create blob store: %v", err)
		}
	}
	log.Printf("Archiving editions in %s blob storage", cfg.Blob.Backend)

	// ===== Locale and processing components =====
	loc, err := locale.LoadOrDefault(cfg.LocalePath)
	if err != nil {
		log.Fatalf("Failed to load locale: %v", err)
	}
	parser, err := structure.NewParser(loc)
	if err != nil {
		log.Fatalf("Failed to build parser: %v", err)
	}
	builder, err := chunking.NewBuilder(chunking.Config{
		Locale:             loc,
		DropNearDuplicates: cfg.Chunking.DropDuplicates,
		Dedup:              chunking.DefaultDeduplicatorConfig(),
	})
	if err != nil {
		log.Fatalf("Failed to build chunker: %v", err)
	}
	tracker := lineage.NewTracker(lineage.TrackerConfig{Locale: loc, Clock: clock})

	var sealer *lineage.Sealer
	if cfg.SealSecret != "" {
		sealer, err = lineage.NewSealer(cfg.SealSecret, clock)
		if err != nil {
			log.Fatalf("Failed to create custody sealer: %v", err)
		}
		log.Println("Custody seals enabled")
	}

	// ===== Embedding (optional) =====
	runtimeConfig := domain.NewRuntimeConfig(cfg.Storage, cfg.CacheBackend())
	runtimeServices := runtime.NewServices(runtimeConfig)
	defer runtimeServices.Close()

	embedder, err := ai.NewFactory().CreateEmbeddingService(cfg.EmbeddingSettings())
	if err != nil {
		log.Fatalf("Failed to create embedding service: %v", err)
	}
	if embedder != nil {
		if err := runtimeServices.ValidateAndSetEmbedding(ctx, embedder); err != nil {
			log.Printf("Warning: embedding health check failed: %v (lexical search only)", err)
		}
	}

	// ===== Source checks =====
	fetcher := sourcecheck.NewHTTPFetcher(sourcecheck.Config{
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		MaxRetries:        cfg.Fetch.MaxRetries,
		Timeout:           cfg.Fetch.Timeout,
		UserAgent:         cfg.Fetch.UserAgent,
		Clock:             clock,
		Logger:            logger,
	})
	checker := sourcecheck.NewChecker(st.lineages, fetcher, logger)

	// ===== Services =====
	documentService := services.NewDocumentService(st.documents, st.chunks)

	var embeddingRate float64
	var embeddingBatch int
	if settings := cfg.EmbeddingSettings(); settings != nil {
		embeddingRate = settings.RequestsPerSecond
		embeddingBatch = settings.BatchSize
	}
	ingestionService := services.NewIngestionService(services.IngestionConfig{
		Documents:      st.documents,
		Chunks:         st.chunks,
		Builder:        builder,
		Services:       runtimeServices,
		Logger:         logger,
		Options:        cfg.ChunkOptions(),
		Concurrency:    cfg.IngestConcurrency,
		EmbeddingRate:  embeddingRate,
		EmbeddingBatch: embeddingBatch,
	})

	lineageService := services.NewLineageService(services.LineageConfig{
		Documents:      st.documents,
		Lineages:       st.lineages,
		Blobs:          blobs,
		Ingestion:      ingestionService,
		Tracker:        tracker,
		Parser:         parser,
		Normalisers:    normalisers.DefaultRegistry(),
		Sealer:         sealer,
		Fetcher:        fetcher,
		Checks:         st.checks,
		CheckFrequency: domain.CheckFrequency(cfg.CheckFrequency),
		Clock:          clock,
		Logger:         logger,
	})

	searchService := services.NewSearchService(services.SearchConfig{
		Chunks:   st.chunks,
		Services: runtimeServices,
		Lineages: st.lineages,
		Tracker:  tracker,
		Logger:   logger,
	})

	log.Printf("Runtime config: store=%s, cache=%s, embedding=%t, search_mode=%s",
		runtimeConfig.StoreBackend,
		runtimeConfig.CacheBackend,
		runtimeConfig.EmbeddingAvailable(),
		runtimeConfig.EffectiveSearchMode())

	var monitor *services.ChangeMonitor
	if cfg.RunsMonitor() {
		monitor, err = services.NewChangeMonitor(services.ChangeMonitorConfig{
			Checks:    st.checks,
			Checker:   checker,
			TaskQueue: taskQueue,
			Lineage:   lineageService,
			Lock:      distributedLock,
			Clock:     clock,
			Logger:    logger,
			Schedule:  cfg.Monitor.Schedule,
			LockTTL:   cfg.Monitor.LockTTL,
		})
		if err != nil {
			log.Fatalf("Failed to create change monitor: %v", err)
		}
	}

	// ===== Background processing =====
	var w *worker.Worker
	if cfg.RunsWorker() {
		if taskQueue == nil {
			log.Fatalf("Worker mode requires REDIS_URL or STORAGE_BACKEND=postgres")
		}
		w = worker.NewWorker(worker.WorkerConfig{
			TaskQueue:      taskQueue,
			Ingestion:      ingestionService,
			Lineage:        lineageService,
			Monitor:        monitor,
			Logger:         logger,
			Concurrency:    cfg.Worker.Concurrency,
			DequeueTimeout: cfg.Worker.DequeueTimeout,
		})
		if err := w.Start(ctx); err != nil {
			log.Fatalf("Failed to start worker: %v", err)
		}
		log.Println("Worker started")
	} else if monitor != nil {
		if err := monitor.Start(ctx); err != nil {
			log.Fatalf("Failed to start change monitor: %v", err)
		}
		defer monitor.Stop()
	}
	if w != nil {
		defer w.Stop()
	}

	if !cfg.RunsAPI() {
		<-ctx.Done()
		log.Println("Stopping...")
		return
	}

	server := http.NewServer(
		http.Config{
			Host:           cfg.Host,
			Port:           cfg.Port,
			Version:        version,
			AllowedOrigins: cfg.AllowedOrigins,
			Logger:         logger,
		},
		documentService,
		ingestionService,
		searchService,
		lineageService,
		taskQueue,
		pingers,
	)

	if err := server.Start(ctx); err != nil {
		log.Printf("Server error: %v", err)
	}
}
