package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/cache"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/config"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/consumer"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/domain"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/elastic"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/handler"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/provider"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/scout"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/service"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/internal/store"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/database"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/jwt"
	pkglog "github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/log"
	"github.com/weiawesome/wes-io-live/scout-elasticsearch/pkg/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty || cfg.Log.Level == "debug",
		ServiceName: cfg.Log.ServiceName,
	})
	logger := pkglog.L()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Register the search driver
	manager := scout.NewManager(cfg.Scout.Driver)
	esClient, err := provider.Register(manager, cfg.Elasticsearch)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create elasticsearch client")
	}
	logger.Info().Strs("hosts", cfg.Elasticsearch.Hosts).Str(pkglog.FieldIndex, cfg.Elasticsearch.Index).Msg("elasticsearch configured")

	if cfg.Elasticsearch.CreateIndex {
		created, err := elastic.EnsureIndex(ctx, esClient, cfg.Elasticsearch.Index, domain.ArticlesMapping())
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to ensure index")
		}
		if created {
			logger.Info().Str(pkglog.FieldIndex, cfg.Elasticsearch.Index).Msg("index created")
		}
	}

	engine, err := manager.Engine("")
	if err != nil {
		logger.Fatal().Err(err).Str(pkglog.FieldDriver, cfg.Scout.Driver).Msg("failed to resolve search engine")
	}

	// Initialize Redis result cache
	if cfg.Cache.Enabled {
		resultCache, err := cache.NewRedisResultCache(cfg.Redis, cfg.Cache.Prefix)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer resultCache.Close()
		engine = cache.NewEngine(engine, resultCache, cfg.Cache.TTL)
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db, &domain.ArticleModel{}); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}
	articles := store.NewGormStore[domain.ArticleModel](db)

	// Initialize services
	searchService := service.NewSearchService(engine, articles, cfg.Scout.ChunkSize)
	indexService := service.NewIndexService(engine, articles)

	tokens, err := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize jwt")
	}
	httpHandler := handler.NewHandler(searchService, middleware.NewAuthMiddleware(tokens), cfg.Auth.AdminRole)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	httpHandler.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", addr).Msg("scout-elasticsearch starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Kafka.Enabled {
		changeConsumer, err := consumer.NewConfluentConsumer(cfg.Kafka.Config, indexService)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create change consumer")
		}
		g.Go(func() error {
			return changeConsumer.Run(gCtx)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("scout-elasticsearch stopped with error")
		return
	}
	logger.Info().Msg("scout-elasticsearch stopped")
}
