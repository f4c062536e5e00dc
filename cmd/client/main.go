// Command client submits a run to a coordinator and prints the size of
// the final best-set (spec.md §4.9 "Client").
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"

	"github.com/kestrelga/distga/client"
	"github.com/kestrelga/distga/wire"
)

func main() {
	addr := flag.String("coordinator", "localhost:7737", "coordinator address")
	module := flag.String("module", "sphere", "factory module name")
	popSize := flag.Int("pop", 128, "population size")
	generations := flag.Int("generations", 100, "generations to run (informational; the coordinator runs until the factory requests a stop)")
	quiet := flag.Bool("quiet", false, "suppress the progress bar")
	flag.Parse()
	_ = *generations

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := client.New(*addr)

	var bar *progressbar.ProgressBar
	if !*quiet {
		bar = progressbar.Default(-1, "evolving")
	}
	c.OnProgress = func(entries []wire.GenomeFitness) {
		if bar != nil {
			bar.Describe(fmt.Sprintf("evolving (best-set size %d)", len(entries)))
			_ = bar.Add(1)
		}
	}

	result, err := c.Run(ctx, client.Submission{
		ModuleName:     *module,
		PopulationSize: int32(*popSize),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "run failed: %+v\n", errors.Wrap(err, "client run"))
		os.Exit(1)
	}

	fmt.Printf("final best-set: %d genome(s)\n", len(result.Entries))
}
