// Package app wires config, store and engine together for the CLI and
// the server entrypoint.
package app

import (
	"arbeitskorb/internal/config"
	"arbeitskorb/internal/engine"
	"arbeitskorb/internal/store"
)

type App struct {
	Config *config.Config
	Store  *store.Store
	Engine engine.Engine
}

// Open loads the workspace config (defaults if absent) and the
// workspace-backed store, so CLI invocations see each other's state.
func Open(workspace string) (*App, error) {
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(store.Config{Workspace: workspace})
	if err != nil {
		return nil, err
	}
	return &App{Config: cfg, Store: st, Engine: engine.New(st, cfg)}, nil
}

// OpenVolatile builds the reference in-memory deployment: the seed
// fixture, no snapshot, state gone on exit. Used by serve.
func OpenVolatile(workspace string) (*App, error) {
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return nil, err
	}
	st := store.New()
	return &App{Config: cfg, Store: st, Engine: engine.New(st, cfg)}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}
