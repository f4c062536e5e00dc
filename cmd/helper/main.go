// Command helper runs one worker endpoint (spec.md §4.9 "Helper"):
// connect to a coordinator, announce, and serve CALCULATE batches.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/kestrelga/distga/helper"

	_ "github.com/kestrelga/distga/examples/sphere"
	_ "github.com/kestrelga/distga/examples/tradeoff"
)

func main() {
	addr := flag.String("coordinator", "localhost:7737", "coordinator address")
	debug := flag.Int("debug", 0, "debug verbosity, 0-3")
	_ = flag.String("modules", "", "module search directory (unused; modules are compiled in)")
	flag.Parse()

	logger := setupLogging(*debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := helper.New(*addr, logger)
	if err := h.Run(ctx); err != nil {
		logger.Printf("helper stopped: %+v", errors.Wrap(err, "run"))
		os.Exit(1)
	}
}

func setupLogging(verbosity int) *log.Logger {
	if verbosity <= 0 {
		return log.New(nopWriter{}, "", 0)
	}
	return log.New(os.Stderr, "helper: ", log.Ldate|log.Ltime|log.Lshortfile)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
