package coordinator

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/kestrelga/distga/client"
	"github.com/kestrelga/distga/ga/rng"
	"github.com/kestrelga/distga/helper"

	_ "github.com/kestrelga/distga/examples/sphere"
)

func startCoordinator(t *testing.T, seed uint64) (addr string, stop func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr = ln.Addr().String()
	ln.Close()

	c := New(rng.NewPCG(seed), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = c.Serve(ctx, addr)
		close(done)
	}()
	// Serve binds in its own goroutine; poll until it accepts connections.
	for i := 0; i < 50; i++ {
		if conn, err := net.DialTimeout("tcp", addr, 20*time.Millisecond); err == nil {
			conn.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	return addr, func() {
		cancel()
		<-done
	}
}

func runHelpers(ctx context.Context, addr string, n int) {
	for i := 0; i < n; i++ {
		h := helper.New(addr, nil)
		go h.Run(ctx)
	}
}

// TestEndToEndConvergesWithHelpers covers spec.md §8: a client submits a
// run, several helpers service it, and the client receives a RESULT with
// at least one best-set member.
func TestEndToEndConvergesWithHelpers(t *testing.T) {
	addr, stop := startCoordinator(t, 11)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	runHelpers(ctx, addr, 3)
	time.Sleep(100 * time.Millisecond) // let helpers announce before the run starts

	c := client.New(addr)
	result, err := c.Run(ctx, client.Submission{ModuleName: "sphere", PopulationSize: 32})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Entries) == 0 {
		t.Error("expected at least one best-set entry in the result")
	}
}

// TestNoHelpersReported covers spec.md §6 "NO_HELPERS": a client
// submitting a FACTORY with zero connected helpers gets ErrNoHelpers.
func TestNoHelpersReported(t *testing.T) {
	addr, stop := startCoordinator(t, 12)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c := client.New(addr)
	_, err := c.Run(ctx, client.Submission{ModuleName: "sphere", PopulationSize: 32})
	if err != client.ErrNoHelpers {
		t.Errorf("expected ErrNoHelpers, got %v", err)
	}
}

// TestSurvivesHelperDisconnectMidGeneration covers spec.md §8: "For any
// helper-failure injection at any point of the generation, the
// coordinator still converges and yields S fitness values for S
// genomes." One of two helpers is killed shortly after the run starts;
// the run must still complete via the survivor.
func TestSurvivesHelperDisconnectMidGeneration(t *testing.T) {
	addr, stop := startCoordinator(t, 13)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	survivorCtx, cancelSurvivor := context.WithCancel(ctx)
	defer cancelSurvivor()
	runHelpers(survivorCtx, addr, 1)

	doomedCtx, cancelDoomed := context.WithCancel(ctx)
	runHelpers(doomedCtx, addr, 1)
	time.Sleep(100 * time.Millisecond)

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancelDoomed() // drop one helper mid-run
	}()

	c := client.New(addr)
	result, err := c.Run(ctx, client.Submission{ModuleName: "sphere", PopulationSize: 24})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Entries) == 0 {
		t.Error("expected the surviving helper to carry the run to completion")
	}
}

// TestClientDisconnectAllowsSubsequentSession covers spec.md §8 scenario
// 6: after a client disconnects mid-run, a subsequent client session
// succeeds.
func TestClientDisconnectAllowsSubsequentSession(t *testing.T) {
	addr, stop := startCoordinator(t, 14)
	defer stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	runHelpers(ctx, addr, 2)
	time.Sleep(100 * time.Millisecond)

	firstCtx, cancelFirst := context.WithCancel(ctx)
	first := client.New(addr)
	go func() {
		_, _ = first.Run(firstCtx, client.Submission{ModuleName: "sphere", PopulationSize: 48})
	}()

	time.Sleep(200 * time.Millisecond) // let the first run get underway
	cancelFirst()                      // disconnect mid-run (spec.md §8 scenario 6)
	time.Sleep(200 * time.Millisecond) // let the coordinator notice the disconnect

	second := client.New(addr)
	result, err := second.Run(ctx, client.Submission{ModuleName: "sphere", PopulationSize: 24})
	if err != nil {
		t.Fatalf("second session Run: %v", err)
	}
	if len(result.Entries) == 0 {
		t.Error("expected the second client session to complete successfully")
	}
}
