package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bashhack/gitwip/internal/config"
)

// These variables are set during build using ldflags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	app := NewDefaultApp(config.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		<-sigChan
		_, _ = fmt.Fprintln(app.Stderr, "Received signal, shutting down...")
		cancel()

		// A second signal skips the graceful shutdown
		<-sigChan
		app.CleanupOnSignal()
		app.exit(130)
	}()

	err := NewRootCommand(app).ExecuteContext(ctx)

	if closeErr := app.Close(); closeErr != nil && err == nil {
		err = closeErr
	}

	if err != nil {
		_, _ = fmt.Fprintf(app.Stderr, "❌ Error: %v\n", err)
		app.exit(1)
	}
}
