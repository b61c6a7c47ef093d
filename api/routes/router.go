package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/villaworks/villaserve-backend/api/controllers"
	"github.com/villaworks/villaserve-backend/api/middleware"
	authsvc "github.com/villaworks/villaserve-backend/internal/auth"
	cartsvc "github.com/villaworks/villaserve-backend/internal/cart"
	equipmentsvc "github.com/villaworks/villaserve-backend/internal/equipment"
	foodsvc "github.com/villaworks/villaserve-backend/internal/foods"
	ordersvc "github.com/villaworks/villaserve-backend/internal/orders"
	usersvc "github.com/villaworks/villaserve-backend/internal/users"
	villasvc "github.com/villaworks/villaserve-backend/internal/villas"
	"github.com/villaworks/villaserve-backend/pkg/auth/session"
	"github.com/villaworks/villaserve-backend/pkg/config"
	"github.com/villaworks/villaserve-backend/pkg/db"
	"github.com/villaworks/villaserve-backend/pkg/enums"
	"github.com/villaworks/villaserve-backend/pkg/logger"
	"github.com/villaworks/villaserve-backend/pkg/metrics"
	"github.com/villaworks/villaserve-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. Router construction fails
// fast in main if any service is nil, so handlers only guard defensively.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	HTTPMetrics    *metrics.HTTPMetrics

	AuthService      authsvc.Service
	UserService      usersvc.Service
	VillaService     villasvc.Service
	EquipmentService equipmentsvc.Service
	FoodService      foodsvc.Service
	CartService      cartsvc.Service
	OrderService     ordersvc.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	readiness := map[string]controllers.Pinger{
		"database": deps.DB,
	}
	if deps.Redis != nil {
		readiness["redis"] = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(deps.AuthService, logg))
		r.With(middleware.Auth(cfg.JWT, deps.SessionChecker, logg)).
			Post("/logout", controllers.Logout(deps.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Post("/items", controllers.CartAddItems(deps.CartService, logg))
			r.Patch("/items", controllers.CartEditItem(deps.CartService, logg))
			r.Post("/status", controllers.CartSetStatus(deps.CartService, logg))
		})

		r.Get("/orders", controllers.OrdersList(deps.OrderService, logg))

		r.Route("/villas", func(r chi.Router) {
			r.Get("/", controllers.VillasList(deps.VillaService, logg))
			r.Get("/{id}", controllers.VillasGet(deps.VillaService, logg))
		})

		r.Get("/rooms/{id}/equipment", controllers.EquipmentListByRoom(deps.EquipmentService, logg))
		r.Patch("/equipment/{id}/state", controllers.EquipmentSetState(deps.EquipmentService, logg))

		r.Route("/foods", func(r chi.Router) {
			r.Get("/", controllers.FoodsList(deps.FoodService, logg))
			r.Get("/{id}", controllers.FoodsGet(deps.FoodService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, deps.SessionChecker, logg),
			middleware.RequireRole(string(enums.UserRoleAdmin), logg),
		)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", controllers.UsersCreate(deps.UserService, logg))
			r.Get("/", controllers.UsersList(deps.UserService, logg))
			r.Get("/{id}", controllers.UsersGet(deps.UserService, logg))
			r.Patch("/{id}", controllers.UsersUpdate(deps.UserService, logg))
			r.Delete("/{id}", controllers.UsersDeactivate(deps.UserService, logg))
		})

		r.Route("/villas", func(r chi.Router) {
			r.Post("/", controllers.VillasCreate(deps.VillaService, logg))
			r.Post("/{id}/rooms", controllers.VillasAddRoom(deps.VillaService, logg))
		})

		r.Post("/rooms/{id}/equipment", controllers.EquipmentRegister(deps.EquipmentService, logg))

		r.Route("/foods", func(r chi.Router) {
			r.Post("/", controllers.FoodsCreate(deps.FoodService, logg))
			r.Patch("/{id}", controllers.FoodsUpdate(deps.FoodService, logg))
			r.Delete("/{id}", controllers.FoodsDelete(deps.FoodService, logg))
		})
	})

	return r
}
