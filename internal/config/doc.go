// Package config provides the application configuration model, YAML
// loading with environment variable substitution, validation, and file
// watching.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfig("avaweb.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := config.ValidateConfig(cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Values may reference the environment as ${VAR} or ${VAR:-default};
// "$$" produces a literal dollar sign.
//
// # File Watching
//
// In development mode the watcher also reports changes in controller
// source directories so the controller reloader can start a new
// generation:
//
//	w, err := config.NewWatcher(path, onConfig,
//	    config.WithSourceDirs("app/controllers"),
//	    config.WithSourceCallback(func(path string) { reloader.Bump(path) }),
//	)
//	err = w.Start(ctx)
package config
