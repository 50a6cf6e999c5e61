// Package main is the entry point for the zyphar CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/grindlemire/graft"

	"go.trai.ch/zyphar/cmd/zyphar/commands"
	"go.trai.ch/zyphar/internal/app"
	_ "go.trai.ch/zyphar/internal/wiring"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

func run(ctx context.Context, args []string) int {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, _, err := graft.ExecuteFor[*app.App](ctx)
	if err != nil {
		// Logger is not available if initialization failed.
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
	defer a.Close()

	cli := commands.New(a)
	cli.SetArgs(args)
	if err := cli.Execute(ctx); err != nil {
		// zerr prints a pretty error report with stack trace and metadata
		// when using %+v.
		_, _ = fmt.Fprintf(os.Stderr, "%+v\n", err)
		return 1
	}
	return 0
}
