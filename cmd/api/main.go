package main

import (
	"github.com/ilindan-dev/homemaster-mailer/internal/app"
	"go.uber.org/fx"
)

// main is the entry point for the API server application.
func main() {
	fx.New(app.APIModule).Run()
}
