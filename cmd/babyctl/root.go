package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"baby-care-tracker/internal/adapters/auth/sessionstore"
	"baby-care-tracker/internal/app"
	"baby-care-tracker/internal/config"
	"baby-care-tracker/internal/pageload"
	"baby-care-tracker/internal/platform/logger"
	"baby-care-tracker/internal/ports/auth"
	"baby-care-tracker/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var errNotSignedIn = errors.New("not signed in, run: babyctl sign-in")

// cli guarda el estado compartido por los subcomandos.
// En tests app, storage y store vienen armados de afuera.
type cli struct {
	configPath string
	verbose    bool

	out     io.Writer
	log     logger.Logger
	app     *app.App
	storage auth.SessionStorage
	store   *session.Store

	owned bool
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "babyctl",
		Short:         "Registro de actividades de los bebés desde la terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd.Context())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			c.teardown()
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "archivo YAML de configuración")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "logs de depuración")

	root.AddCommand(
		newSignInCmd(c),
		newSignUpCmd(c),
		newSignOutCmd(c),
		newWhoAmICmd(c),
		newBabiesCmd(c),
		newStartCmd(c),
		newStopCmd(c),
		newDiaperCmd(c),
		newStatusCmd(c),
	)
	return root
}

func (c *cli) setup(ctx context.Context) error {
	if c.store != nil {
		return nil
	}

	cfg := config.Default()
	if c.app != nil {
		cfg = c.app.Config
	} else {
		var err error
		if c.configPath != "" {
			cfg, err = config.LoadFile(c.configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}
	}

	if c.log == nil {
		zc := zap.NewDevelopmentConfig()
		zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if c.verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		zc.OutputPaths = []string{"stderr"}
		z, err := zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		c.log = logger.Wrap(z)
	}

	if c.app == nil {
		a, err := app.New(ctx, cfg, c.log)
		if err != nil {
			return err
		}
		c.app = a
		c.owned = true
	}
	if c.storage == nil {
		c.storage = sessionstore.NewFile(cfg.SessionFile)
	}

	c.store = session.NewStore(c.app.Accounts, c.app.Resolver, c.app.Provider, c.storage,
		session.WithStoreLogger(c.log.With(map[string]any{"component": "session"})))
	return c.store.Init(ctx)
}

func (c *cli) teardown() {
	if !c.owned {
		return
	}
	if c.store != nil {
		c.store.Close()
	}
	if c.app != nil {
		c.app.Close()
	}
	if c.log != nil {
		_ = c.log.Sync()
	}
}

// page espera a que la sesión tenga familia y corre load una vez,
// con los reintentos del loader. Devuelve la familia resuelta.
func (c *cli) page(ctx context.Context, name string, load pageload.LoadFunc) (string, error) {
	lc := c.app.Config.Loader
	l := pageload.New(c.store, load,
		pageload.WithName(name),
		pageload.WithAutoRetry(lc.AutoRetry),
		pageload.WithRetryDelay(lc.RetryDelay),
		pageload.WithMaxRetries(lc.MaxRetries),
		pageload.WithTenantPollInterval(lc.TenantPollInterval),
		pageload.WithLogger(c.log),
	)
	defer l.Close()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	st, err := l.Wait(ctx)
	if err != nil {
		return "", err
	}
	switch st.Phase {
	case pageload.PhaseIdle:
		return "", errNotSignedIn
	case pageload.PhaseFailed:
		return "", errors.New(st.Error)
	}
	return c.store.TenantID(), nil
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
