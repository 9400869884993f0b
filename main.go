package main

import (
	"flag"
	"log"

	"yashubustudio/chandas/internal/app"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config.json (default: ./config.json)")
	flag.Parse()
	if err := app.Run(*cfgPath); err != nil {
		log.Fatalf("chandas: %v", err)
	}
}
