package main

import (
	"log"

	"github.com/relabs-tech/rtk_reader/internal/app"
	"github.com/relabs-tech/rtk_reader/internal/config"
)

func main() {
	log.Println("starting rtk-reader GPS producer (GNGGA → MQTT)")

	if err := config.InitGlobal("rtk_config.txt"); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := app.RunGPSProducer(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
