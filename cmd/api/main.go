package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"espbridge/internal/application"
	apiinfra "espbridge/internal/infrastructure/api"
	"espbridge/internal/infrastructure/esp"
	"espbridge/internal/infrastructure/store"
	"espbridge/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}

	// Pick the store backend: Mongo or Redis when configured, JSON file
	// otherwise.
	integrationStore, cleanup := buildStore(logger)
	defer cleanup()

	// Register provider adapters
	registry := esp.NewRegistry(
		esp.NewMailchimp(logger),
		esp.NewGetResponse(logger),
	)

	// Initialize application services
	integrationService := application.NewIntegrationService(registry, integrationStore, logger)

	// REST handler
	handler := apiinfra.NewHandler(integrationService, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiinfra.MetricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))

	// Health check - must be public for monitoring
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", apiinfra.MetricsHandler())

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, "./docs/swagger.json")
	})

	// Integration endpoints
	handler.Routes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logger.Info().Str("port", port).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + port + "/swagger/index.html")
	if err := http.ListenAndServe(":"+port, r); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// buildStore selects the integration store backend from the environment and
// returns it with a shutdown func for the backing connection.
func buildStore(logger zerolog.Logger) (ports.IntegrationStore, func()) {
	if mongoURI := os.Getenv("MONGODB_URI"); mongoURI != "" {
		client, err := mongo.Connect(context.Background(), options.Client().ApplyURI(mongoURI))
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		dbName := os.Getenv("MONGODB_DATABASE")
		if dbName == "" {
			dbName = "espbridge"
		}
		logger.Info().Str("database", dbName).Msg("Using MongoDB integration store")
		return store.NewMongoStore(client.Database(dbName), logger), func() {
			_ = client.Disconnect(context.Background())
		}
	}

	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
		logger.Info().Str("addr", redisAddr).Msg("Using Redis integration store")
		return store.NewRedisStore(client, "espbridge:integrations", logger), func() {
			_ = client.Close()
		}
	}

	path := os.Getenv("STORE_PATH")
	if path == "" {
		path = "data/integrations.json"
	}
	logger.Info().Str("path", path).Msg("Using file integration store")
	return store.NewFileStore(path, logger), func() {}
}
