// Package app provides the application context for wolfi-dev.
//
// This package manages application-wide dependencies using the functional
// options pattern, enabling easy testing through dependency injection.
//
// # App Context
//
// The App struct holds the configuration, the working directory and the
// OS seams every workflow needs:
//
//	type App struct {
//	    Config  *config.Config
//	    Exec    system.CommandExecutor
//	    FS      system.FileSystem
//	    Runtime runtime.Runtime
//	    Prober  probe.Prober
//	    Workdir string
//	    Out     io.Writer
//	}
//
// Services (Sandboxes, Fetcher, Branches, Launcher, Converter, Images,
// Bootstrapper) are built from these on demand.
//
// # Creating an App
//
//	// Production usage
//	a := app.New(app.WithConfig(cfg), app.WithWorkdir(dir))
//
//	// Testing with custom dependencies
//	a := app.New(
//	    app.WithExecutor(system.NewMockExecutor()),
//	    app.WithFS(system.NewMockFS()),
//	    app.WithRuntime(runtime.NewMockRuntime()),
//	)
package app
