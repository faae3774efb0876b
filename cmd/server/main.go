package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"mockreview/internal/auth"
	"mockreview/internal/config"
	"mockreview/internal/domain/repositories"
	reviewRepo "mockreview/internal/domain/repositories/review"
	"mockreview/internal/events"
	"mockreview/internal/handler"
	"mockreview/internal/metrics"
	"mockreview/internal/middleware"
	"mockreview/internal/repository/memory"
	"mockreview/internal/repository/postgres"
	postgresReview "mockreview/internal/repository/postgres/review"
	"mockreview/internal/service/review"
	"mockreview/internal/storage"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// stores is the persistence backend selected by STORE
type stores struct {
	clients   reviewRepo.ClientRepository
	projects  reviewRepo.ProjectRepository
	screens   reviewRepo.ScreenRepository
	comments  reviewRepo.CommentRepository
	votes     reviewRepo.VoteRepository
	txManager repositories.TransactionManager
	health    handler.HealthCheck
	close     func()
}

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"store", cfg.Store,
		"storage", cfg.Storage,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.close()

	blobs, files, err := openBlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to set up blob storage: %v", err)
	}

	// Operator authentication: password sessions and/or Supabase JWTs
	sessions, verifier, err := setupAuth(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to set up operator authentication: %v", err)
	}
	defer verifier.Close()

	// Review activity goes to Prometheus and, when configured, RabbitMQ
	sinks := []events.Sink{{Name: "metrics", Publisher: events.NewCounterPublisher(m.ReviewEventsTotal)}}
	if cfg.RabbitMQURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.EventsQueue, logger)
		if err != nil {
			logger.Warn("rabbitmq unavailable, events will only be counted", "error", err)
		} else {
			defer amqpPub.Close()
			sinks = append(sinks, events.Sink{Name: "amqp", Publisher: amqpPub})
		}
	}
	publisher := events.NewFanout(m.PublishFailures, logger, sinks...)

	// Rate limiting: Redis when reachable, in-process otherwise
	var primary middleware.Limiter
	if rdb := config.NewRedisClient(cfg, logger); rdb != nil {
		defer rdb.Close()
		primary = middleware.NewRedisLimiter(rdb, cfg.RateLimit)
	}
	rateLimit := middleware.RateLimit(cfg.RateLimit, primary, middleware.NewLocalLimiter(cfg.RateLimit), m, logger)

	// Services
	screenService := review.NewScreenService(st.projects, st.screens, blobs, st.txManager, logger)
	annotationService := review.NewAnnotationService(st.screens, st.comments, st.txManager, publisher, logger)
	votingService := review.NewVotingService(st.votes, publisher, logger)
	accessGateway := review.NewAccessGateway(st.clients, st.projects, st.screens, st.comments, st.votes, logger)
	catalogService := review.NewCatalogService(st.clients, st.projects, st.screens, st.votes, blobs, logger)
	exportService := review.NewExportService(st.projects, st.screens, blobs, logger)
	identityResolver := review.NewIdentityResolver(logger)

	var issuer handler.SessionIssuer
	if sessions != nil {
		issuer = sessions
	}

	handlers := &handler.Handlers{
		Review:   handler.NewReviewHandler(accessGateway, annotationService, votingService, identityResolver, cfg.ReviewerCookieSecure, logger),
		Portal:   handler.NewPortalHandler(accessGateway, exportService, logger),
		Session:  handler.NewSessionHandler(issuer, logger),
		Clients:  handler.NewClientHandler(catalogService, logger),
		Projects: handler.NewProjectHandler(catalogService, screenService, exportService, logger),
		Screens:  handler.NewScreenHandler(screenService, logger),
		Health:   handler.NewHealthHandler(map[string]handler.HealthCheck{"store": st.health}, logger),
	}

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()
	handlers.Register(mux, rateLimit, middleware.RequireOperator(verifier, logger))
	mux.Handle("GET /metrics", promhttp.Handler())
	if files != nil {
		mux.Handle("GET /files/", files)
	}

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Instrument → Routes
	var h http.Handler = mux
	h = middleware.Instrument(m)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     h,
		ReadTimeout: 60 * time.Second, // image uploads
		// Exports stream large archives
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	if cfg.Store == "memory" {
		logger.Warn("using in-memory store: data is lost on restart")
		mem := memory.NewStore(memory.Options{UniqueVotes: cfg.EnforceUniqueVotes})
		return &stores{
			clients:   mem.Clients(),
			projects:  mem.Projects(),
			screens:   mem.Screens(),
			comments:  mem.Comments(),
			votes:     mem.Votes(),
			txManager: mem.TxManager(),
			health:    func(context.Context) error { return nil },
			close:     func() {},
		}, nil
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected", "max_conns", 25, "min_conns", 5)

	tables := postgres.NewTableNames(cfg.TablePrefix)
	if err := postgres.EnsureSchema(ctx, pool, tables, postgres.SchemaOptions{UniqueVotes: cfg.EnforceUniqueVotes}); err != nil {
		pool.Close()
		return nil, err
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	return &stores{
		clients:   postgresReview.NewClientRepository(repoConfig),
		projects:  postgresReview.NewProjectRepository(repoConfig),
		screens:   postgresReview.NewScreenRepository(repoConfig),
		comments:  postgresReview.NewCommentRepository(repoConfig),
		votes:     postgresReview.NewVoteRepository(repoConfig),
		txManager: postgres.NewTransactionManager(pool, logger),
		health:    pool.Ping,
		close:     pool.Close,
	}, nil
}

// openBlobStore returns the configured store and, for local storage, the
// handler serving its files
func openBlobStore(cfg *config.Config) (repositories.BlobStore, http.Handler, error) {
	switch cfg.Storage {
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return nil, nil, errors.New("supabase storage needs SUPABASE_URL and SUPABASE_KEY")
		}
		return storage.NewSupabaseStore(cfg.SupabaseURL, cfg.StorageBucket, cfg.SupabaseKey), nil, nil
	case "local":
		local, err := storage.NewLocalStore(cfg.LocalStorageDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return local, local.Handler(), nil
	default:
		return nil, nil, errors.New("unknown STORAGE_BACKEND " + cfg.Storage)
	}
}

func setupAuth(cfg *config.Config, logger *slog.Logger) (*auth.PasswordSessions, auth.TokenVerifier, error) {
	var (
		sessions *auth.PasswordSessions
		chain    auth.ChainVerifier
	)

	if cfg.AdminPasswordHash != "" {
		s, err := auth.NewPasswordSessions(cfg.AdminPasswordHash, cfg.SessionSecret, cfg.SessionTTL, logger)
		if err != nil {
			return nil, nil, err
		}
		sessions = s
		chain = append(chain, s)
	}

	if cfg.SupabaseJWKSURL != "" {
		v, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, cfg.OperatorEmails, logger)
		if err != nil {
			logger.Warn("supabase JWT verification unavailable", "error", err)
		} else {
			chain = append(chain, v)
		}
	}

	if len(chain) == 0 {
		return nil, nil, errors.New("set ADMIN_PASSWORD_HASH or SUPABASE_URL")
	}
	return sessions, chain, nil
}
