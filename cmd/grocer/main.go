package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/tauheed2233/Grocery-Inventory-Management-System/internal/cli"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = ""
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, cli.Options{Version: version, Commit: commit}, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
