// Command coordinator runs the distribution coordinator (spec.md §4.8):
// accepts one client session and any number of helpers on a single TCP
// listener.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"

	"github.com/kestrelga/distga/coordinator"
	"github.com/kestrelga/distga/ga/rng"
	"github.com/kestrelga/distga/parameter"

	_ "github.com/kestrelga/distga/examples/sphere"
	_ "github.com/kestrelga/distga/examples/tradeoff"
)

func main() {
	port := flag.Int("port", parameter.DefaultPort, "TCP port to listen on")
	debug := flag.Int("debug", 0, "debug verbosity, 0-3")
	seed := flag.Uint64("seed", 0, "RNG seed (0 picks one from process entropy)")
	_ = flag.String("modules", "", "module search directory (unused; modules are compiled in)")
	flag.Parse()

	logger := setupLogging(*debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := coordinator.New(rng.NewPCG(*seed), logger)
	addr := fmt.Sprintf(":%d", *port)
	logger.Printf("coordinator listening on %s", addr)
	if err := c.Serve(ctx, addr); err != nil {
		logger.Printf("coordinator stopped: %+v", errors.Wrap(err, "serve"))
		os.Exit(1)
	}
}

// setupLogging configures log output based on verbosity, mirroring
// cmd/vi-fighter's setupLogging: 0 discards everything, >0 logs to
// stderr with source-line detail.
func setupLogging(verbosity int) *log.Logger {
	if verbosity <= 0 {
		return log.New(nopWriter{}, "", 0)
	}
	return log.New(os.Stderr, "coordinator: ", log.Ldate|log.Ltime|log.Lshortfile)
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }
