package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmynk/freelancepay/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], cli.Env{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	})
	stop()
	os.Exit(code)
}
