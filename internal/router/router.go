package router

import (
	"net/http"

	"baby-care-tracker/internal/dashboard"
	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/babies"
	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/reports"
	"baby-care-tracker/internal/middleware"
	"baby-care-tracker/internal/platform/logger"
	"baby-care-tracker/internal/ports/auth"
	"baby-care-tracker/internal/quickaction"
	"baby-care-tracker/internal/session"

	_ "baby-care-tracker/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Services son los módulos que expone el API. Los arma internal/app.
type Services struct {
	Accounts     *session.Accounts
	Resolver     *session.Resolver
	Caregivers   *caregivers.Service
	Babies       *babies.Service
	Activities   *activities.Service
	Reports      *reports.Service
	Dashboard    *dashboard.Service
	QuickActions *quickaction.Mutator
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev: X-Debug-User-ID)
	Services     Services
	Logger       logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	svc := opts.Services

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(log))
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Públicas: login/registro. /me solo exige principal.
	session.RegisterRoutes(r, svc.Accounts, svc.Resolver)

	// Todo lo demás vive dentro de la familia del principal.
	r.Group(func(tr chi.Router) {
		tr.Use(middleware.TenantContext(session.TenantResolver(svc.Resolver)))
		tr.Use(middleware.RequireTenant)

		caregivers.RegisterRoutes(tr, svc.Caregivers)
		babies.RegisterRoutes(tr, svc.Babies)
		activities.RegisterRoutes(tr, svc.Activities)
		reports.RegisterRoutes(tr, svc.Reports)
		dashboard.RegisterRoutes(tr, svc.Dashboard)
		quickaction.RegisterRoutes(tr, svc.QuickActions, svc.Activities)
	})

	return r
}
