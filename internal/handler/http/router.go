package http

import (
	"log/slog"
	"os"

	"github.com/cmlabs-hris/gigshift-attendance-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/gigshift-attendance-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// RouterConfig carries the settings the router needs from the application config.
type RouterConfig struct {
	AppName        string
	Version        string
	Env            string
	LogLevel       slog.Level
	AllowedOrigins []string
}

func NewRouter(
	cfg RouterConfig,
	JWTService jwt.Service,
	attendanceHandler AttendanceHandler,
	locationHandler LocationHandler,
	confirmationHandler ConfirmationHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(cfg.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.LogLevel,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.AppName),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/attendance", func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
			r.Use(middleware.RequireWorker)
			r.Use(chiMiddleware.AllowContentType("application/json"))

			r.Post("/location", locationHandler.Report)
			r.Post("/check-in", attendanceHandler.CheckIn)
			r.Post("/{attendanceID}/check-out", attendanceHandler.CheckOut)
			r.Get("/me/open", attendanceHandler.GetMyOpen)
		})

		r.Route("/admin", func(r chi.Router) {

			// EventSource cannot set headers, so the stream also accepts ?jwt=
			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
				r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
				r.Use(middleware.RequireAdmin)

				r.Get("/events/{eventID}/stream", confirmationHandler.Stream)
			})

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService.JWTAuth()))
				r.Use(middleware.RequireAdmin)
				r.Use(chiMiddleware.AllowContentType("application/json"))

				r.Post("/applications/{applicationID}/check-in", attendanceHandler.AdminCheckIn)
				r.Post("/attendances/{attendanceID}/check-out", attendanceHandler.AdminCheckOut)
				r.Get("/events/{eventID}/workers", confirmationHandler.ListWorkers)
			})
		})
	})
	return r
}
