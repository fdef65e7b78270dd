package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"source.hodakov.me/hdkv/f2aac/internal/configuration"
	"source.hodakov.me/hdkv/f2aac/internal/domains"
)

type App struct {
	ctx     context.Context
	logger  *logrus.Entry
	config  *configuration.Config
	version string

	domains      map[string]domains.Domain
	domainsOrder []string
	domainsMutex sync.RWMutex
}

func (a *App) Config() *configuration.Config {
	return a.config
}

func (a *App) Context() context.Context {
	return a.ctx
}

func (a *App) Logger() *logrus.Entry {
	return a.logger
}

func (a *App) Version() string {
	return a.version
}

func New(ctx context.Context, version string) *App {
	app := new(App)

	// Every App gets its own logger so that tests and embedders never
	// share output or level with the process-wide standard logger.
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	app.logger = logger.WithContext(ctx)
	app.ctx = ctx
	app.version = version
	app.config = configuration.Default()

	app.domains = make(map[string]domains.Domain)

	return app
}

// NewWithConfig creates an App around an already built configuration.
func NewWithConfig(ctx context.Context, config *configuration.Config) *App {
	app := New(ctx, "dev")
	app.config = config
	app.InitLogger()

	return app
}

func (a *App) InitConfig(args []string) error {
	config, err := configuration.New(args)
	if err != nil {
		return fmt.Errorf("%w: %w (%w)", ErrApplication, ErrConfigInitializationError, err)
	}

	a.config = config

	return nil
}

func (a *App) InitLogger() {
	level := a.config.F2AAC.LogLevel
	if a.config.F2AAC.Quiet && level > logrus.WarnLevel {
		level = logrus.WarnLevel
	}

	a.logger.Logger.SetLevel(level)

	a.logger.WithField("log level", level).Debug("Set log level")
}

// SetLogOutput points every log line at w.
func (a *App) SetLogOutput(w io.Writer) {
	a.logger.Logger.SetOutput(w)
}

func (a *App) RegisterDomain(name string, implementation domains.Domain) {
	a.domainsMutex.Lock()
	defer a.domainsMutex.Unlock()

	if _, ok := a.domains[name]; !ok {
		a.domainsOrder = append(a.domainsOrder, name)
	}

	a.domains[name] = implementation
}

func (a *App) RetrieveDomain(name string) any {
	a.domainsMutex.RLock()
	defer a.domainsMutex.RUnlock()

	return a.domains[name]
}

func (a *App) ConnectDependencies() error {
	a.domainsMutex.RLock()
	defer a.domainsMutex.RUnlock()

	for _, name := range a.domainsOrder {
		err := a.domains[name].ConnectDependencies()
		if err != nil {
			return fmt.Errorf("%w: %w (%w)", ErrApplication, ErrConnectDependencies, err)
		}
	}

	return nil
}

func (a *App) StartDomains() error {
	a.domainsMutex.RLock()
	defer a.domainsMutex.RUnlock()

	for _, name := range a.domainsOrder {
		err := a.domains[name].Start()
		if err != nil {
			return fmt.Errorf("%w: %w (%w)", ErrApplication, ErrDomainInit, err)
		}
	}

	return nil
}

// Shutdown closes every domain that holds resources, in reverse
// registration order.
func (a *App) Shutdown() error {
	a.domainsMutex.RLock()
	defer a.domainsMutex.RUnlock()

	var errs []error

	for i := len(a.domainsOrder) - 1; i >= 0; i-- {
		closer, ok := a.domains[a.domainsOrder[i]].(io.Closer)
		if !ok {
			continue
		}

		if err := closer.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w (%w)", ErrApplication, ErrDomainShutdown, errors.Join(errs...))
	}

	return nil
}
