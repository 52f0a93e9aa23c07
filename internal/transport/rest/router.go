package rest

import (
	"net/http"
	"time"

	"github.com/frahmantamala/leave-management/internal/employee"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/leavetype"
	"github.com/frahmantamala/leave-management/internal/ledger"
	"github.com/frahmantamala/leave-management/internal/transport/middleware"
	"github.com/frahmantamala/leave-management/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
)

type Handlers struct {
	Health    *HealthHandler
	Leave     *leave.Handler
	Employee  *employee.Handler
	LeaveType *leavetype.Handler
	Ledger    *ledger.Handler
}

type RouterOptions struct {
	OpenAPISpec []byte
	// Validator is applied to /api/v1 when set.
	Validator func(http.Handler) http.Handler
	// Idempotency guards leave submission when set.
	Idempotency    func(http.Handler) http.Handler
	RequestTimeout time.Duration
	// AllowedOrigins configures CORS; nil disables it.
	AllowedOrigins []string
}

func RegisterAllRoutes(router chi.Router, h Handlers, opts RouterOptions) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)
	router.Use(middleware.Logging)
	if len(opts.AllowedOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", middleware.IdempotencyHeader, middleware.TraceHeader},
			ExposedHeaders: []string{middleware.TraceHeader, middleware.ReplayedHeader},
			MaxAge:         300,
		}))
	}
	if opts.RequestTimeout > 0 {
		router.Use(chiMiddleware.Timeout(opts.RequestTimeout))
	}

	if len(opts.OpenAPISpec) > 0 {
		router.Get(swagger.DocumentPath, swagger.DocumentHandler(opts.OpenAPISpec))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)

		r.Group(func(api chi.Router) {
			if opts.Validator != nil {
				api.Use(opts.Validator)
			}

			api.Get("/leave-types", h.LeaveType.GetLeaveTypes)
			api.Get("/balances", h.Ledger.GetBalances)

			api.Route("/employees", func(er chi.Router) {
				er.Get("/", h.Employee.ListEmployees)
				er.Get("/{id}", h.Employee.GetEmployee)
				er.Get("/{id}/balance", h.Employee.GetBalance)
				er.Put("/{id}/allotments", h.Employee.SetAllotments)
				er.Put("/{id}/manager", h.Employee.AssignManager)
				er.Put("/{id}/leaves-taken", h.Employee.CorrectLeavesTaken)
			})

			api.Route("/leave-applications", func(lr chi.Router) {
				submit := http.Handler(http.HandlerFunc(h.Leave.SubmitApplication))
				if opts.Idempotency != nil {
					submit = opts.Idempotency(submit)
				}
				lr.Method(http.MethodPost, "/", submit)
				lr.Get("/", h.Leave.ListApplications)
				lr.Get("/{id}", h.Leave.GetApplication)
				lr.Post("/{id}/approve", h.Leave.ApproveApplication)
				lr.Post("/{id}/reject", h.Leave.RejectApplication)
			})
		})
	})
}
