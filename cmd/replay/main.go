package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/rtk_reader/internal/app"
	"github.com/relabs-tech/rtk_reader/internal/gps"
)

func main() {
	threshold := flag.Int("stable", gps.DefaultStableMax, "consecutive stable samples needed to confirm the base")
	prefix := flag.String("prefix", gps.DefaultPrefix, "sentence identifier to accept")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: replay [-stable N] [-prefix $GNGGA] <nmea.log>")
	}

	if err := app.RunReplay(flag.Arg(0), *threshold, *prefix); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
