package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/cistage/cmd/cistage/commands"
	"git.home.luguber.info/inful/cistage/internal/config"
)

func main() {
	if _, err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load environment file: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	g := &commands.Global{Stdout: os.Stdout, Stderr: os.Stderr}
	err := commands.Execute(ctx, os.Args[1:], g)
	stop()

	commands.NewErrorAdapter(g).HandleError(err)
}
