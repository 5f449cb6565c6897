package main

import (
	"github.com/ilindan-dev/homemaster-mailer/internal/app"
	"go.uber.org/fx"
)

// main is the entry point for the background worker that runs queued batches.
func main() {
	fx.New(app.WorkerModule).Run()
}
