// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text


package main

import (
	"log"

	"github.com/relabs-tech/rtk_reader/internal/app"
)

func main() {
	log.Println("starting rtk-reader (simulated receiver console)")

	if err := app.RunMockConsole(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
