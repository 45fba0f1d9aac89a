package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/anand-5154/edurise-server/internal/config"
	appmiddleware "github.com/anand-5154/edurise-server/internal/middleware"
	"github.com/anand-5154/edurise-server/internal/modules/admin"
	"github.com/anand-5154/edurise-server/internal/modules/course"
	"github.com/anand-5154/edurise-server/internal/modules/enrollment"
	"github.com/anand-5154/edurise-server/internal/modules/user"
	"github.com/anand-5154/edurise-server/internal/storage"
)

// Services bundles the module services the server exposes.
type Services struct {
	User       user.Service
	Course     course.Service
	Enrollment enrollment.Service
	Admin      admin.Service
	Uploader   storage.Uploader
}

// New creates and configures the HTTP router: chi middleware, the huma API
// with its bearer security scheme, and every module's routes.
func New(cfg *config.Config, log *slog.Logger, svcs Services) chi.Router {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	apiConfig := huma.DefaultConfig("Edurise API", "1.0.0")
	apiConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "JWT",
		},
	}
	api := humachi.New(router, apiConfig)

	// One parameterized guard serves all three portals.
	anyAuth := appmiddleware.RequireRole(cfg.Auth.JWTSecret, log,
		string(user.RoleStudent), string(user.RoleInstructor), string(user.RoleAdmin))
	studentAuth := appmiddleware.RequireRole(cfg.Auth.JWTSecret, log, string(user.RoleStudent))
	instructorAuth := appmiddleware.RequireRole(cfg.Auth.JWTSecret, log, string(user.RoleInstructor))
	adminAuth := appmiddleware.RequireRole(cfg.Auth.JWTSecret, log, string(user.RoleAdmin))

	user.NewHandler(svcs.User, log, anyAuth).RegisterRoutes(api)
	course.NewHandler(svcs.Course, log, instructorAuth, adminAuth).RegisterRoutes(api)
	enrollment.NewHandler(svcs.Enrollment, log, studentAuth).RegisterRoutes(api)
	admin.NewHandler(svcs.Admin, log, adminAuth).RegisterRoutes(api)
	storage.NewHandler(svcs.Uploader, log, instructorAuth).RegisterRoutes(api)

	huma.Register(api, huma.Operation{
		OperationID: "get-health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health Check",
		Description: "Responds with the server's health status.",
	}, func(ctx context.Context, input *struct{}) (*struct {
		Body struct {
			Status string `json:"status"`
		}
	}, error) {
		resp := &struct {
			Body struct {
				Status string `json:"status"`
			}
		}{}
		resp.Body.Status = "ok"
		return resp, nil
	})

	return router
}
