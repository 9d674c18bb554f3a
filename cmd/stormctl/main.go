package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/stormctl/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return cli.Execute(ctx, version, os.Args[1:], os.Stdout, os.Stderr)
}
