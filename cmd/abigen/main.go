// Command abigen writes the generated WGSL header of a pipeline revision and checks the
// Go records against it.
//
// Usage:
//
//	abigen [-config file] [-revision n] [-out file] [-check] [-watch] [-init]
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Printf("[abigen] %v", err)
		os.Exit(1)
	}
}
