package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwantia/aio"
	"github.com/mwantia/aio/cmd"
	"github.com/mwantia/aio/cmd/builtin"
)

func usage(w io.Writer, manager *cmd.Manager) {
	fmt.Fprintf(w, "Usage: aio <command> [flags] <path>\n\nCommands:\n")
	for _, command := range manager.Commands() {
		fmt.Fprintf(w, "  %-10s %s\n", command.Name(), command.Description())
		fmt.Fprintf(w, "  %-10s usage: %s\n", "", command.Usage())
	}
	fmt.Fprintf(w, "\nEnvironment: AIO_ENGINE (auto|async|blocking|objstore), AIO_WORKERS, AIO_CHUNK_SIZE,\n")
	fmt.Fprintf(w, "AIO_LOG_LEVEL, AIO_LOG_FILE, AIO_LOG_JSON, AIO_OBJSTORE_* for the objstore engine\n")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := cmd.NewManager()
	if err := builtin.InitBuiltin(manager); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup commands: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 || os.Args[1] == "help" || os.Args[1] == "-h" || os.Args[1] == "--help" {
		usage(os.Stdout, manager)
		return
	}

	cfg, err := aio.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	logger := cfg.Logger()
	rt := cmd.NewRuntime(aio.DefaultEngine(), aio.DefaultLoop(), logger)
	logger.Debug("Engine: %s (async %v)", aio.DefaultEngine().Name(), aio.Supported())

	code, err := manager.Execute(ctx, rt, os.Args[1], os.Args[2:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aio %s: %v\n", os.Args[1], err)
	}
	stop()
	os.Exit(code)
}
