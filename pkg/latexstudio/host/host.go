// Package host assembles plugins and command handlers into a runnable
// application, in the order: plugins first, then invoke handlers.
package host

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/latexstudio/pkg/latexstudio"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/bridge"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/config"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/dispatch"
	"github.com/arthur-debert/latexstudio/pkg/latexstudio/plugin"
)

// Builder collects the pieces of an App. Errors are deferred to Build.
type Builder struct {
	logger   zerolog.Logger
	plugins  *plugin.Set
	handlers []func(*dispatch.Registry)
	err      error
}

// NewBuilder creates a builder with no plugins that logs through
// latexstudio.DefaultLogger until WithLogger replaces it.
func NewBuilder() *Builder {
	return &Builder{
		logger:  latexstudio.DefaultLogger(),
		plugins: plugin.NewSet(),
	}
}

// WithLogger sets the logger shared by the registry, plugins and bridge.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// Plugin registers p for initialization during Build.
func (b *Builder) Plugin(p plugin.Plugin) *Builder {
	if b.err != nil {
		return b
	}
	if err := b.plugins.Add(p); err != nil {
		b.err = err
	}
	return b
}

// InvokeHandler adds a function that installs commands into the registry.
func (b *Builder) InvokeHandler(install func(*dispatch.Registry)) *Builder {
	b.handlers = append(b.handlers, install)
	return b
}

// Build initializes plugins, installs the command handlers and returns the App.
func (b *Builder) Build(ctx context.Context) (*App, error) {
	if b.err != nil {
		return nil, fmt.Errorf("host build failed: %w", b.err)
	}

	reg := dispatch.NewRegistry(b.logger)
	sc := plugin.SetupContext{Registry: reg, Logger: b.logger}
	if err := b.plugins.Init(ctx, sc); err != nil {
		return nil, fmt.Errorf("host build failed: %w", err)
	}
	for _, install := range b.handlers {
		install(reg)
	}

	b.logger.Debug().
		Strs("plugins", b.plugins.Names()).
		Strs("commands", reg.Names()).
		Msg("host ready")

	return &App{
		registry: reg,
		plugins:  b.plugins.Names(),
		logger:   b.logger,
	}, nil
}

// App is a built host: a command registry with its plugins initialized.
type App struct {
	registry *dispatch.Registry
	plugins  []string
	logger   zerolog.Logger
}

// Invoke runs a command in-process.
func (a *App) Invoke(ctx context.Context, cmd string, args json.RawMessage) (json.RawMessage, error) {
	return a.registry.Invoke(ctx, cmd, args)
}

// Commands lists the registered command names.
func (a *App) Commands() []string { return a.registry.Names() }

// Plugins lists the initialized plugins in registration order.
func (a *App) Plugins() []string { return a.plugins }

// Registry exposes the command table.
func (a *App) Registry() *dispatch.Registry { return a.registry }

// NewServer creates the IPC bridge for this app from cfg.
func (a *App) NewServer(cfg config.Config) *bridge.Server {
	return bridge.NewServer(a.registry, bridge.Options{
		Addr:           cfg.Addr,
		Token:          cfg.Token,
		AllowedOrigins: cfg.AllowedOrigins,
	}, a.logger)
}

// Serve runs the IPC bridge until ctx is cancelled.
func (a *App) Serve(ctx context.Context, cfg config.Config) error {
	return a.NewServer(cfg).Start(ctx)
}
