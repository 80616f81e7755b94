package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"webservicepoc/src/domain"
	"webservicepoc/src/helper/env"
	"webservicepoc/src/infra/kafka"
	"webservicepoc/src/infra/postgres"
	"webservicepoc/src/infra/redis"
	"webservicepoc/src/repositories"
	"webservicepoc/src/security"
	"webservicepoc/src/server"
	"webservicepoc/src/services/events"
	"webservicepoc/src/services/posts"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

func main() {
	// Configurar logger
	log.SetOutput(os.Stdout)
	log.Println("Starting posts web service with Uber Fx...")

	app := fx.New(
		// Providers
		fx.Provide(
			newLogger,
			newStorage,
			newCache,
			newCachedPostsRepository,
			newEventPublisher,
			newPostsService,
			newSessionStore,
			newOAuth2Login,
			newServer,
		),

		// Invocations
		fx.Invoke(registerServerHooks),
	)

	// Start the application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	// Wait for app to exit gracefully
	<-app.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Printf("Failed to stop application gracefully: %v", err)
	}
}

func newLogger() *slog.Logger {
	logLevel := env.GetString("LOG_LEVEL", "info")
	var level slog.Level

	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

// newStorage picks the stores from STORAGE: "postgres" checks the schema
// mapping against the database before serving, anything else keeps
// everything in memory.
func newStorage(lc fx.Lifecycle, logger *slog.Logger) (repositories.PostsStore, repositories.UsersStore, error) {
	if env.GetString("STORAGE", "memory") != "postgres" {
		logger.Info("Using in-memory storage")
		return repositories.NewMemoryPostsRepository(), repositories.NewMemoryUsersRepository(), nil
	}

	dbHost := env.MustGetString("DB_HOST")
	dbPort := env.GetString("DB_PORT", "5432")
	dbname := env.MustGetString("DB_NAME")
	dbUser := env.MustGetString("DB_USER")
	dbPassword := env.MustGetString("DB_PASSWORD")
	maxConnections := env.GetInt("DB_MAX_POOL_CONNECTIONS", 25)

	pool, err := postgres.NewPostgresClient(dbHost, dbPort, dbname, dbUser, dbPassword, maxConnections)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.EnsureSchema(ctx, pool, postgres.PostsTable, postgres.UsersTable); err != nil {
		pool.Close()
		return nil, nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	})

	logger.Info("Using postgres storage", "host", dbHost, "database", dbname)
	return repositories.NewPostsRepository(pool), repositories.NewUsersRepository(pool), nil
}

// newCache returns a nil Cache when REDIS_HOSTS is empty, which turns the
// cached repository into a pass-through.
func newCache(lc fx.Lifecycle, logger *slog.Logger) repositories.Cache {
	if !env.IsSet("REDIS_HOSTS") {
		return nil
	}

	redisHosts := env.MustGetString("REDIS_HOSTS")
	redisPoolSize := env.GetInt("REDIS_POOL_SIZE", 50)
	redisDefaultTTLSeconds := env.GetInt("REDIS_DEFAULT_TTL_SECONDS", 120)
	redisDefaultTTL := time.Duration(redisDefaultTTLSeconds) * time.Second

	redisClient := redis.NewRedisClient(redisHosts, redisPoolSize, redisDefaultTTL)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := redisClient.HealthCheck(ctx); err != nil {
				logger.Warn("Redis unreachable, reads fall back to the store", "error", err)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return redisClient.Close()
		},
	})

	return redisClient
}

func newCachedPostsRepository(
	logger *slog.Logger,
	store repositories.PostsStore,
	cache repositories.Cache,
) *repositories.CachedPostsRepository {
	return repositories.NewCachedPostsRepository(logger, store, cache)
}

func newEventPublisher(lc fx.Lifecycle, logger *slog.Logger) (posts.EventPublisher, error) {
	if !env.IsSet("KAFKA_BROKERS") {
		return events.NewNoopPublisher(logger), nil
	}

	brokers := env.MustGetString("KAFKA_BROKERS")
	batchSize := env.GetInt("KAFKA_BATCH_SIZE", 100)
	topic := env.GetString("KAFKA_POSTS_TOPIC", "posts-events")

	kafkaClient, err := kafka.NewKafkaClient(logger, brokers, "", batchSize)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return kafkaClient.Close()
		},
	})

	return events.NewPostEventPublisher(logger, kafkaClient, topic), nil
}

func newPostsService(
	logger *slog.Logger,
	cachedPostsRepository *repositories.CachedPostsRepository,
	publisher posts.EventPublisher,
) *posts.PostsService {
	return posts.NewPostsService(logger, cachedPostsRepository, publisher)
}

func newSessionStore(logger *slog.Logger) *security.SessionStore {
	secret := env.GetString("SESSION_SECRET")
	if secret == "" {
		logger.Warn("SESSION_SECRET not set, sessions will not survive a restart")
		secret = uuid.NewString() + uuid.NewString()
	}

	return security.NewSessionStore([]byte(secret), env.GetBool("SESSION_COOKIE_SECURE", false))
}

// newOAuth2Login registers google and naver when their client ids are set.
// Without any provider the login routes are not served.
func newOAuth2Login(
	logger *slog.Logger,
	sessions *security.SessionStore,
	users repositories.UsersStore,
) (*security.OAuth2Login, error) {
	redirectBaseURL := env.GetString("OAUTH_REDIRECT_BASE_URL", "http://localhost:8080")
	providers := make(map[string]security.Provider)

	if env.IsSet("GOOGLE_CLIENT_ID") {
		providers["google"] = security.GoogleProvider(env.MustGetString("GOOGLE_CLIENT_ID"), env.MustGetString("GOOGLE_CLIENT_SECRET"), redirectBaseURL)
	}
	if env.IsSet("NAVER_CLIENT_ID") {
		providers["naver"] = security.NaverProvider(env.MustGetString("NAVER_CLIENT_ID"), env.MustGetString("NAVER_CLIENT_SECRET"), redirectBaseURL)
	}

	if len(providers) == 0 {
		logger.Warn("No OAuth2 provider configured, login is disabled")
		return nil, nil
	}

	defaultRole, err := domain.ParseRole(env.GetString("AUTH_DEFAULT_ROLE", string(domain.RoleGuest)))
	if err != nil {
		return nil, err
	}

	userService := security.NewOAuth2UserService(logger, users, defaultRole)
	return security.NewOAuth2Login(logger, sessions, userService, providers), nil
}

func newServer(
	logger *slog.Logger,
	postsService *posts.PostsService,
	sessions *security.SessionStore,
	login *security.OAuth2Login,
) *server.Server {

	port := 8080 // default value
	if portStr := os.Getenv("SERVER_ADDR"); portStr != "" {
		if val, err := strconv.Atoi(portStr); err == nil {
			port = val
		}
	}

	loginURL := env.GetString("AUTH_LOGIN_URL")
	switch {
	case loginURL != "":
	case login != nil:
		loginURL = login.LoginURL()
	default:
		loginURL = "/oauth2/authorization/google"
		logger.Warn("No login route is served, anonymous requests to protected paths will end in 404", "login_url", loginURL)
	}

	return server.NewServer(logger, port, postsService, server.Auth{
		Policy:   security.DefaultPolicy(),
		Resolver: sessions,
		Login:    login,
		LoginURL: loginURL,
	})
}

// registerServerHooks registers lifecycle hooks for the HTTP server
func registerServerHooks(lc fx.Lifecycle, logger *slog.Logger, srv *server.Server) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Start server in a separate goroutine
			go func() {
				if err := srv.Start(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("Server failed: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			// Create timeout context for graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("Server forced to shutdown", "error", err)
				return err
			}
			logger.Info("Server exited gracefully")
			return nil
		},
	})
}
