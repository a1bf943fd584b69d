package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach-analytics/internal/api"
	"github.com/ignite/outreach-analytics/internal/cache"
	"github.com/ignite/outreach-analytics/internal/callcenter"
	"github.com/ignite/outreach-analytics/internal/collector"
	"github.com/ignite/outreach-analytics/internal/config"
	"github.com/ignite/outreach-analytics/internal/deliverability"
	"github.com/ignite/outreach-analytics/internal/export"
	"github.com/ignite/outreach-analytics/internal/functions"
	"github.com/ignite/outreach-analytics/internal/repository/postgres"
	"github.com/ignite/outreach-analytics/internal/scoring"
	"github.com/ignite/outreach-analytics/internal/service/insights"
	"github.com/ignite/outreach-analytics/internal/service/leads"
	"github.com/ignite/outreach-analytics/internal/sesauth"
	"github.com/ignite/outreach-analytics/internal/warehouse"
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v\n"+
			"  Hint: Run 'lsof -i :%d' to find the blocking process", port, addr, err, port)
	}
	ln.Close()
	return nil
}

// scoringPolicy builds the campaign scoring policy, overriding defaults with
// any configured values.
func scoringPolicy(cfg config.ScoringConfig) scoring.Policy {
	p := scoring.DefaultPolicy()
	if cfg.MinSends > 0 {
		p.MinSends = cfg.MinSends
	}
	if cfg.BenchmarkReplyRate > 0 {
		p.BenchmarkReplyRate = cfg.BenchmarkReplyRate
	}
	if cfg.StarThreshold > 0 {
		p.StarThreshold = cfg.StarThreshold
	}
	if cfg.SolidThreshold > 0 {
		p.SolidThreshold = cfg.SolidThreshold
	}
	if cfg.OptimizeThreshold > 0 {
		p.OptimizeThreshold = cfg.OptimizeThreshold
	}
	return p
}

// qualityPolicy builds the call quality policy with config overrides.
func qualityPolicy(cfg config.CoachingConfig) callcenter.QualityPolicy {
	p := callcenter.DefaultQualityPolicy()
	if cfg.MinCalls > 0 {
		p.MinCalls = cfg.MinCalls
	}
	if cfg.BenchmarkConnectRate > 0 {
		p.BenchmarkConnectRate = cfg.BenchmarkConnectRate
	}
	if cfg.BenchmarkOutcomeRate > 0 {
		p.BenchmarkOutcomeRate = cfg.BenchmarkOutcomeRate
	}
	if cfg.IdealTalkRatio > 0 {
		p.IdealTalkRatio = cfg.IdealTalkRatio
	}
	return p
}

func main() {
	log.Println("Outreach Analytics Server starting...")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("DATABASE_URL") != "" {
		log.Println("[config] DATABASE_URL env override active")
	}

	// Pre-flight check: verify the target port is available
	host := cfg.Server.GetHost()
	port := cfg.Server.Port
	if err := checkPortAvailable(host, port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}
	log.Printf("Pre-flight check passed: port %d is available", port)

	// Database
	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	if err := db.Ping(); err != nil {
		log.Fatalf("Database unreachable: %v", err)
	}
	defer db.Close()

	metricsRepo := postgres.NewMetricsRepo(db)
	leadRepo := postgres.NewLeadRepo(db)

	// Services
	window := time.Duration(cfg.Polling.AnalysisWindowDays) * 24 * time.Hour
	insightsSvc := insights.NewService(metricsRepo, scoringPolicy(cfg.Scoring), qualityPolicy(cfg.Coaching), window)
	leadsSvc := leads.NewService(leadRepo, invokerOrNil(cfg.Functions))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis snapshot cache (optional)
	var redisClient *redis.Client
	var snapCache *cache.SnapshotCache
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis unreachable, snapshot cache disabled: %v", err)
			redisClient = nil
		} else {
			snapCache = cache.New(redisClient, cfg.Redis.TTL())
			log.Println("Snapshot cache enabled")
		}
	}

	// S3 snapshot export (optional)
	var exporter *export.S3Exporter
	if cfg.Export.Enabled && cfg.Export.S3Bucket != "" {
		exporter, err = export.NewS3Exporter(ctx, cfg.Export)
		if err != nil {
			log.Printf("S3 export disabled: %v", err)
			exporter = nil
		} else {
			log.Printf("Snapshot export enabled: s3://%s/%s", cfg.Export.S3Bucket, cfg.Export.S3Prefix)
		}
	}

	// Collector
	var store collector.SnapshotStore
	if snapCache != nil {
		store = snapCache
	}
	var exp collector.Exporter
	if exporter != nil {
		exp = exporter
	}
	coll := collector.New(insightsSvc, store, exp, cfg.Polling)
	go coll.Start(ctx)

	// Domain auth syncer against SESv2 (optional)
	if cfg.SESAuth.Enabled {
		authClient, err := sesauth.NewClient(ctx, cfg.SESAuth)
		if err != nil {
			log.Printf("SES auth sync disabled: %v", err)
		} else {
			go sesauth.NewSyncer(authClient, metricsRepo, 0).Start(ctx)
			log.Println("Domain auth syncer started")
		}
	}

	// DNSBL health checks
	healthChecker := deliverability.NewHealthChecker(db)
	go healthChecker.Start(ctx)

	// Snowflake warehouse for historical trends (optional)
	var trends api.TrendSource
	if cfg.Warehouse.Enabled {
		wh, err := warehouse.NewClient(cfg.Warehouse)
		if err != nil {
			log.Printf("Warehouse disabled: %v", err)
		} else {
			defer wh.Close()
			trends = wh
			log.Println("Warehouse trends enabled")
		}
	}

	// HTTP server
	handlers := api.NewHandlers(insightsSvc, leadsSvc, coll, trends)
	handlers.SetHealthProbes(db, redisClient)
	if redisClient != nil {
		handlers.SetRemapLimiter(cache.NewRateLimiter(redisClient, "remap", 2, 5*time.Minute))
	}
	server := api.NewServer(handlers, nil)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		log.Printf("Starting server on %s", addr)
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	log.Println("All services initialized — server is ready")

	<-done
	log.Println("Shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// invokerOrNil returns a typed-nil-safe Invoker for the leads service.
func invokerOrNil(cfg config.FunctionsConfig) leads.Invoker {
	client := functions.NewClient(cfg)
	if client == nil {
		return nil
	}
	return client
}
