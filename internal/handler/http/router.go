package http

import (
	"log/slog"
	"os"

	"github.com/gestion-conges/leave-backend-go/internal/domain/employee"
	"github.com/gestion-conges/leave-backend-go/internal/handler/http/middleware"
	"github.com/gestion-conges/leave-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

type RouterDeps struct {
	JWTService          jwt.Service
	AuthHandler         AuthHandler
	LeaveHandler        LeaveHandler
	HolidayHandler      HolidayHandler
	QuotaHandler        QuotaHandler
	AttachmentHandler   AttachmentHandler
	NotificationHandler NotificationHandler
	FrontendURL         string
	Env                 string
}

func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "gestion-conges"),
		slog.String("version", "v1.0.0"),
		slog.String("env", deps.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{deps.FrontendURL},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
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

	// Signed links carry their own authorization.
	r.Get("/files/*", deps.AttachmentHandler.ServeFile)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", deps.AuthHandler.Login)

		// SSE connections authenticate via short-lived query token.
		r.Get("/notifications/stream", deps.NotificationHandler.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(deps.JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(deps.JWTService.JWTAuth()))

			r.Get("/auth/me", deps.AuthHandler.Me)

			r.Get("/working-days", deps.LeaveHandler.WorkingDays)

			r.Route("/leave-requests", func(r chi.Router) {
				r.Post("/", deps.LeaveHandler.Submit)
				r.Get("/", deps.LeaveHandler.List)

				// Validator views
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireValidator)
					r.Get("/queue", deps.LeaveHandler.Queue)
					r.Get("/history", deps.LeaveHandler.History)
					r.Get("/stats", deps.LeaveHandler.Stats)
					r.Get("/stats/performance", deps.LeaveHandler.Performance)
					r.Get("/delayed", deps.LeaveHandler.Delayed)
					r.Get("/delayed/count", deps.LeaveHandler.DelayedCount)
				})

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", deps.LeaveHandler.Get)
					r.Get("/timeline", deps.LeaveHandler.Timeline)

					r.Post("/attachments", deps.AttachmentHandler.Upload)
					r.Get("/attachments", deps.AttachmentHandler.ListForRequest)

					r.Group(func(r chi.Router) {
						r.Use(middleware.RequireValidator)
						r.Post("/decision", deps.LeaveHandler.Transition)
						r.Patch("/priority", deps.LeaveHandler.SetPriority)
					})
				})
			})

			r.Route("/attachments/{attachmentID}", func(r chi.Router) {
				r.Get("/download", deps.AttachmentHandler.Download)
				r.Delete("/", deps.AttachmentHandler.Delete)

				// Attachment review belongs to the DGPEC
				r.With(middleware.RequireRole(employee.RoleDGPEC)).
					Patch("/status", deps.AttachmentHandler.SetStatus)
			})

			r.Route("/holidays", func(r chi.Router) {
				r.Get("/", deps.HolidayHandler.ListYear)

				// Calendar management belongs to the DGPEC
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(employee.RoleDGPEC))
					r.Post("/", deps.HolidayHandler.Create)
					r.Put("/{id}", deps.HolidayHandler.Update)
					r.Delete("/{id}", deps.HolidayHandler.Delete)
				})
			})

			r.Route("/quotas", func(r chi.Router) {
				r.Get("/my", deps.QuotaHandler.Mine)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireValidator)
					r.Get("/", deps.QuotaHandler.List)
					r.Get("/employee/{employeeID}", deps.QuotaHandler.ForEmployee)
					r.Get("/employee/{employeeID}/history", deps.QuotaHandler.History)
				})

				// Balance adjustments belong to the DGPEC
				r.With(middleware.RequireRole(employee.RoleDGPEC)).
					Post("/adjust", deps.QuotaHandler.Adjust)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", deps.NotificationHandler.List)
				r.Get("/sse-token", deps.NotificationHandler.GetSSEToken)
				r.Post("/{id}/read", deps.NotificationHandler.MarkAsRead)
				r.Post("/read-all", deps.NotificationHandler.MarkAllAsRead)
			})
		})
	})

	return r
}
