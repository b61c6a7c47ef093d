package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/villaworks/villaserve-backend/api/routes"
	"github.com/villaworks/villaserve-backend/internal/auth"
	"github.com/villaworks/villaserve-backend/internal/cart"
	"github.com/villaworks/villaserve-backend/internal/equipment"
	"github.com/villaworks/villaserve-backend/internal/foods"
	"github.com/villaworks/villaserve-backend/internal/orders"
	"github.com/villaworks/villaserve-backend/internal/users"
	"github.com/villaworks/villaserve-backend/internal/villas"
	"github.com/villaworks/villaserve-backend/pkg/auth/session"
	"github.com/villaworks/villaserve-backend/pkg/config"
	"github.com/villaworks/villaserve-backend/pkg/db"
	"github.com/villaworks/villaserve-backend/pkg/logger"
	"github.com/villaworks/villaserve-backend/pkg/metrics"
	"github.com/villaworks/villaserve-backend/pkg/migrate"
	"github.com/villaworks/villaserve-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	villaRepo := villas.NewRepository(dbClient.DB())
	equipmentRepo := equipment.NewRepository(dbClient.DB())
	foodRepo := foods.NewRepository(dbClient.DB())
	cartRepo := cart.NewRepository(dbClient.DB())
	orderRepo := orders.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		RateLimiter:    redisClient,
		JWTConfig:      cfg.JWT,
		RateLimit:      cfg.AuthRateLimit,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	userService, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create user service", err)
		os.Exit(1)
	}

	villaService, err := villas.NewService(villaRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create villa service", err)
		os.Exit(1)
	}

	equipmentService, err := equipment.NewService(equipmentRepo, villaRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create equipment service", err)
		os.Exit(1)
	}

	foodService, err := foods.NewService(foodRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create food service", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartRepo, dbClient, foodRepo, userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:           cfg,
			Logger:           logg,
			DB:               dbClient,
			Redis:            redisClient,
			SessionChecker:   sessionManager,
			HTTPMetrics:      httpMetrics,
			AuthService:      authService,
			UserService:      userService,
			VillaService:     villaService,
			EquipmentService: equipmentService,
			FoodService:      foodService,
			CartService:      cartService,
			OrderService:     orderService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
