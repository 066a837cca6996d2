package main

import (
	"log"

	"github.com/HamzaAshfaq01/sellsgoods/internal/app"
	"github.com/HamzaAshfaq01/sellsgoods/internal/app/config"
)

func main() {
	cfg := config.MustLoad()
	if err := app.Run(cfg); err != nil {
		log.Fatalf("application error: %v", err)
	}
}
