package main

import (
	"context"
	"fmt"
	"github.com/ilindan-dev/homemaster-mailer/internal/app"
	"go.uber.org/fx"
	"os"
	"time"
)

// main creates the demo homeowner, provider and admin accounts, then exits.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

// run starts the seed module once. Failures before the logger exists, such as a
// missing config file or an unreachable database, come back as the error.
func run() error {
	a := fx.New(app.SeedModule, fx.NopLogger)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := a.Start(ctx); err != nil {
		return err
	}
	return a.Stop(ctx)
}
