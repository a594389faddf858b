// Package plugin handles the one-time registration of host plugins at
// startup. The built-in plugins (shell, dialog, fs) are owned by the front
// end; registering them records that the host provides them and gives them
// a chance to add commands of their own.
package plugin

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/latexstudio/pkg/latexstudio/dispatch"
)

// SetupContext is what a plugin receives during initialization.
type SetupContext struct {
	Registry *dispatch.Registry
	Logger   zerolog.Logger
}

// Plugin is a unit of host functionality initialized once at startup.
type Plugin interface {
	Name() string
	// Requires lists plugins that must be set up before this one.
	Requires() []string
	Setup(ctx context.Context, sc SetupContext) error
}

type funcPlugin struct {
	name     string
	requires []string
	setup    func(ctx context.Context, sc SetupContext) error
}

// Func builds a Plugin from a setup function. A nil setup does nothing.
func Func(name string, requires []string, setup func(ctx context.Context, sc SetupContext) error) Plugin {
	return &funcPlugin{name: name, requires: requires, setup: setup}
}

func (p *funcPlugin) Name() string       { return p.name }
func (p *funcPlugin) Requires() []string { return p.requires }

func (p *funcPlugin) Setup(ctx context.Context, sc SetupContext) error {
	if p.setup == nil {
		return nil
	}
	return p.setup(ctx, sc)
}

func frontendOwned(name, capability string) Plugin {
	return Func(name, nil, func(_ context.Context, sc SetupContext) error {
		sc.Logger.Debug().
			Str("plugin", name).
			Str("capability", capability).
			Str("owner", "frontend").
			Msg("plugin initialized")
		return nil
	})
}

// Shell registers the shell/process plugin.
func Shell() Plugin { return frontendOwned("shell", "process") }

// Dialog registers the file dialog plugin. open_file_dialog and
// save_file_dialog point callers here.
func Dialog() Plugin { return frontendOwned("dialog", "file-dialog") }

// FS registers the file-system plugin.
func FS() Plugin { return frontendOwned("fs", "file-system") }

// Builtins returns the plugins every host registers.
func Builtins() []Plugin {
	return []Plugin{Shell(), Dialog(), FS()}
}
