// Package client implements the submitting endpoint (spec.md §4.9
// "Client"): connect, announce CLIENT_HELLO, submit a FACTORY
// descriptor, then consume CURRENT_BEST/RESULT until the run ends.
package client

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"net"
	"time"

	"github.com/kestrelga/distga/ga"
	"github.com/kestrelga/distga/gaerr"
	"github.com/kestrelga/distga/parameter"
	"github.com/kestrelga/distga/wire"
)

// ErrBusy is returned when the coordinator already has an active
// client session.
var ErrBusy = errors.New("coordinator is busy with another client")

// ErrNoHelpers is returned when no helper can service the submitted
// factory (spec.md §7 "Exhaustion").
var ErrNoHelpers = gaerr.New(gaerr.Exhaustion, "coordinator has no usable helper for this factory")

// Submission describes the run to submit (spec.md §3 "FactoryDescriptor").
type Submission struct {
	ModuleName     string
	PopulationSize int32
	FactoryParams  []byte
	GAParams       []byte
}

// Result is the final best-set returned with RESULT.
type Result struct {
	Entries []wire.GenomeFitness
}

// Client drives one coordinator session.
type Client struct {
	addr string

	// OnProgress, if set, is called for every CURRENT_BEST received
	// before the final RESULT.
	OnProgress func(entries []wire.GenomeFitness)
}

// New creates a Client targeting addr.
func New(addr string) *Client {
	return &Client{addr: addr}
}

// Run submits sub and blocks until RESULT, NO_HELPERS, or ctx
// cancellation / connection failure.
func (c *Client) Run(ctx context.Context, sub Submission) (Result, error) {
	conn, err := net.DialTimeout("tcp", c.addr, parameter.DialTimeout)
	if err != nil {
		return Result{}, gaerr.Wrap(gaerr.Transport, "dial coordinator", err)
	}
	defer conn.Close()

	reader := bufio.NewReaderSize(conn, parameter.ReadBufferSize)
	writer := bufio.NewWriterSize(conn, parameter.WriteBufferSize)
	lastWrite := time.Now()

	send := func(f wire.Frame) error {
		if err := wire.WriteFrame(writer, f); err != nil {
			return gaerr.Wrap(gaerr.Transport, "write frame", err)
		}
		if err := writer.Flush(); err != nil {
			return gaerr.Wrap(gaerr.Transport, "flush frame", err)
		}
		lastWrite = time.Now()
		return nil
	}

	if err := send(wire.Frame{Command: wire.ClientHello}); err != nil {
		return Result{}, err
	}

	frames := make(chan wire.Frame)
	errs := make(chan error, 1)
	go func() {
		for {
			_ = conn.SetReadDeadline(time.Now().Add(parameter.ReadIdleTimeout))
			f, err := wire.ReadFrame(reader)
			if err != nil {
				errs <- err
				return
			}
			frames <- f
		}
	}()

	readFrame := func(keepalive <-chan time.Time) (wire.Frame, bool, error) {
		select {
		case f := <-frames:
			return f, false, nil
		case err := <-errs:
			return wire.Frame{}, false, gaerr.Wrap(gaerr.Transport, "coordinator connection lost", err)
		case <-ctx.Done():
			return wire.Frame{}, false, ctx.Err()
		case <-keepalive:
			return wire.Frame{}, true, nil
		}
	}

	hello, _, err := readFrame(nil)
	if err != nil {
		return Result{}, err
	}
	switch hello.Command {
	case wire.Busy:
		return Result{}, ErrBusy
	case wire.NoHelpers:
		return Result{}, ErrNoHelpers
	case wire.Accept:
	default:
		return Result{}, gaerr.New(gaerr.Protocol, "unexpected reply to CLIENT_HELLO")
	}

	msg := wire.FactoryMsg{
		ModuleName:    sub.ModuleName,
		PopSize:       sub.PopulationSize,
		FactoryParams: sub.FactoryParams,
		GAParams:      sub.GAParams,
	}
	payload, err := msg.Encode()
	if err != nil {
		return Result{}, err
	}
	if err := send(wire.Frame{Command: wire.FactoryCmd, Payload: payload}); err != nil {
		return Result{}, err
	}

	ticker := time.NewTicker(parameter.KeepaliveInterval)
	defer ticker.Stop()

	for {
		f, ticked, err := readFrame(ticker.C)
		if err != nil {
			return Result{}, err
		}
		if ticked {
			if time.Since(lastWrite) >= parameter.KeepaliveInterval {
				if err := send(wire.Frame{Command: wire.Keepalive}); err != nil {
					return Result{}, err
				}
			}
			continue
		}
		switch f.Command {
		case wire.Keepalive:
			continue
		case wire.NoHelpers:
			return Result{}, ErrNoHelpers
		case wire.CurrentBest:
			best, err := wire.DecodeBestSetMsg(f.Payload)
			if err != nil {
				return Result{}, err
			}
			if c.OnProgress != nil {
				c.OnProgress(best.Entries)
			}
		case wire.Result:
			best, err := wire.DecodeBestSetMsg(f.Payload)
			if err != nil {
				return Result{}, err
			}
			return Result{Entries: best.Entries}, nil
		default:
			return Result{}, gaerr.New(gaerr.Protocol, "unexpected command from coordinator")
		}
	}
}

// Decode is a convenience for callers that want live ga.Genome values
// out of a Result entry, given the same Factory used to submit the run.
func Decode(factory ga.Factory, entries []wire.GenomeFitness) ([]ga.Genome, error) {
	out := make([]ga.Genome, len(entries))
	for i, e := range entries {
		g, err := factory.ReadGenome(bytes.NewReader(e.Genome))
		if err != nil {
			return nil, err
		}
		if err := factory.ReadGenomeFitness(bytes.NewReader(e.Fitness), g); err != nil {
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}
