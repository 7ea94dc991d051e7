// Package app arma las dependencias del API y del CLI a partir de config.Config.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"baby-care-tracker/internal/adapters/auth/gotrue"
	"baby-care-tracker/internal/adapters/auth/jwtauth"
	"baby-care-tracker/internal/adapters/auth/memauth"
	"baby-care-tracker/internal/adapters/events/kafka"
	"baby-care-tracker/internal/adapters/storage/memory"
	pg "baby-care-tracker/internal/adapters/storage/postgres"
	"baby-care-tracker/internal/config"
	"baby-care-tracker/internal/dashboard"
	"baby-care-tracker/internal/domain/activities"
	"baby-care-tracker/internal/domain/babies"
	"baby-care-tracker/internal/domain/caregivers"
	"baby-care-tracker/internal/domain/families"
	"baby-care-tracker/internal/domain/reports"
	"baby-care-tracker/internal/platform/logger"
	"baby-care-tracker/internal/ports/auth"
	"baby-care-tracker/internal/quickaction"
	"baby-care-tracker/internal/router"
	"baby-care-tracker/internal/session"
)

type repositories struct {
	families   families.Repository
	caregivers caregivers.Repository
	babies     babies.Repository
	activities activities.Repository
	reporter   reports.Reporter
}

// App reúne los servicios ya cableados.
type App struct {
	Config config.Config
	Log    logger.Logger

	Provider auth.Provider
	Verifier auth.AuthVerifier // nil en modo dev header

	Families     *families.Service
	Caregivers   *caregivers.Service
	Babies       *babies.Service
	Activities   *activities.Service
	Reports      *reports.Service
	Dashboard    *dashboard.Service
	QuickActions *quickaction.Mutator
	Accounts     *session.Accounts
	Resolver     *session.Resolver

	db        *sql.DB
	publisher *kafka.Publisher
}

func New(_ context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}

	a := &App{Config: cfg, Log: log}

	repos, err := a.openStorage()
	if err != nil {
		return nil, err
	}

	if err := a.openAuth(); err != nil {
		a.Close()
		return nil, err
	}

	var publisher activities.Publisher = activities.NopPublisher()
	if len(cfg.Events.KafkaBrokers) > 0 {
		a.publisher = kafka.NewPublisher(cfg.Events.KafkaBrokers, cfg.Events.Topic)
		publisher = a.publisher
		log.Info("activity events enabled", map[string]any{"topic": cfg.Events.Topic})
	}

	a.Families = families.NewService(repos.families)
	a.Caregivers = caregivers.NewService(repos.caregivers)
	a.Babies = babies.NewService(repos.babies)
	a.Activities = activities.NewService(repos.activities, a.Babies,
		activities.WithPublisher(publisher),
		activities.WithPublishTimeout(cfg.Events.PublishTimeout),
		activities.WithLogger(log.With(map[string]any{"component": "activities"})),
	)
	a.Reports = reports.NewService(repos.reporter, a.Babies)
	a.Dashboard = dashboard.NewService(a.Babies, a.Caregivers, a.Activities, a.Reports,
		dashboard.WithLogger(log.With(map[string]any{"component": "dashboard"})),
	)
	a.QuickActions = quickaction.New(a.Activities,
		quickaction.WithLogger(log.With(map[string]any{"component": "quickaction"})),
	)

	a.Accounts = session.NewAccounts(a.Provider, a.Caregivers, a.Families, log.With(map[string]any{"component": "accounts"}))
	a.Resolver = session.NewResolver(a.Caregivers, a.Families,
		session.WithRetries(cfg.Resolver.Retries),
		session.WithRetryDelay(cfg.Resolver.RetryDelay),
		session.WithResolverLogger(log.With(map[string]any{"component": "resolver"})),
	)

	return a, nil
}

func (a *App) openStorage() (repositories, error) {
	switch a.Config.Storage.Driver {
	case config.StoragePostgres:
		db, err := pg.Open(a.Config.Storage.DSN)
		if err != nil {
			return repositories{}, fmt.Errorf("open postgres: %w", err)
		}
		a.db = db
		a.Log.Info("storage ready", map[string]any{"driver": "postgres"})
		return repositories{
			families:   pg.NewFamiliesRepo(db),
			caregivers: pg.NewCaregiversRepo(db),
			babies:     pg.NewBabiesRepo(db),
			activities: pg.NewActivitiesRepo(db),
			reporter:   pg.NewReporter(db),
		}, nil
	default:
		store := memory.NewStore()
		a.Log.Info("storage ready", map[string]any{"driver": "memory"})
		return repositories{
			families:   store.Families(),
			caregivers: store.Caregivers(),
			babies:     store.Babies(),
			activities: store.Activities(),
			reporter:   store.Reporter(),
		}, nil
	}
}

func (a *App) openAuth() error {
	ac := a.Config.Auth
	jwtCfg := jwtauth.Config{Secret: ac.JWTSecret, Issuer: ac.JWTIssuer}

	switch ac.Driver {
	case config.AuthGoTrue:
		client, err := gotrue.NewClient(gotrue.Config{
			BaseURL:    ac.URL,
			APIKey:     ac.APIKey,
			ServiceKey: ac.ServiceKey,
			Timeout:    ac.Timeout,
		})
		if err != nil {
			return fmt.Errorf("auth client: %w", err)
		}
		a.Provider = client
		if ac.JWTSecret == "" {
			a.Verifier = gotrue.NewVerifier(client)
		}
	default:
		a.Provider = memauth.New(jwtCfg, memauth.WithTTL(ac.TokenTTL))
	}

	if ac.DevHeader {
		a.Verifier = nil
		a.Log.Warn("auth disabled: trusting X-Debug-User-ID", nil)
		return nil
	}
	if a.Verifier == nil {
		v, err := jwtauth.NewVerifier(jwtCfg)
		if err != nil {
			return fmt.Errorf("auth verifier: %w", err)
		}
		a.Verifier = v
	}
	return nil
}

// Handler devuelve el router HTTP completo.
func (a *App) Handler() http.Handler {
	return router.NewRouter(router.Options{
		AuthVerifier: a.Verifier,
		Logger:       a.Log,
		Services: router.Services{
			Accounts:     a.Accounts,
			Resolver:     a.Resolver,
			Caregivers:   a.Caregivers,
			Babies:       a.Babies,
			Activities:   a.Activities,
			Reports:      a.Reports,
			Dashboard:    a.Dashboard,
			QuickActions: a.QuickActions,
		},
	})
}

func (a *App) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.Log.Warn("close kafka publisher", map[string]any{"err": err})
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Log.Warn("close postgres", map[string]any{"err": err})
		}
	}
}
