// cmd/kiranapage/main.go
//
// Entry point for the kiranapage server. All application wiring lives in
// internal/app/bootstrap; WAFFLE drives the lifecycle from config loading
// through graceful shutdown.
package main

import (
	"context"
	"log"

	"github.com/dalemusser/waffle/app"

	"github.com/kiranapage/kiranapage/internal/app/bootstrap"
)

func main() {
	if err := app.Run(context.Background(), bootstrap.Hooks); err != nil {
		log.Fatal(err)
	}
}
