// Package helper implements the worker endpoint (spec.md §4.9
// "Helper"): connect to the coordinator, announce HELPER_HELLO, then
// repeatedly receive a FACTORY descriptor and CALCULATE batches and
// return FITNESS. Connection handling follows the same
// bufio-reader/writer-plus-goroutine shape as coordinator.peerConn,
// grounded on network/connection.go's Peer.
package helper

import (
	"bufio"
	"bytes"
	"context"
	"log"
	"net"
	"time"

	"github.com/kestrelga/distga/ga"
	"github.com/kestrelga/distga/gaerr"
	"github.com/kestrelga/distga/parameter"
	"github.com/kestrelga/distga/plugin"
	"github.com/kestrelga/distga/wire"
)

// Helper runs the connect-announce-serve loop against one coordinator
// address until ctx is cancelled or the connection fails terminally.
type Helper struct {
	addr   string
	logger *log.Logger

	factory          ga.Factory
	currentFactoryID int32
	lastWrite        time.Time
}

// New creates a Helper that will dial addr when Run is called.
func New(addr string, logger *log.Logger) *Helper {
	if logger == nil {
		logger = log.New(nopWriter{}, "", 0)
	}
	return &Helper{addr: addr, logger: logger}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// Run dials the coordinator once and serves until the connection ends
// or ctx is cancelled; callers that want reconnect-on-failure loop
// around Run themselves.
func (h *Helper) Run(ctx context.Context) error {
	conn, err := net.DialTimeout("tcp", h.addr, parameter.DialTimeout)
	if err != nil {
		return gaerr.Wrap(gaerr.Transport, "dial coordinator", err)
	}
	defer conn.Close()

	reader := bufio.NewReaderSize(conn, parameter.ReadBufferSize)
	writer := bufio.NewWriterSize(conn, parameter.WriteBufferSize)

	if err := h.send(writer, wire.Frame{Command: wire.HelperHello}); err != nil {
		return err
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

	ticker := time.NewTicker(parameter.KeepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errs:
			return gaerr.Wrap(gaerr.Transport, "coordinator connection lost", err)
		case f := <-frames:
			if err := h.handle(writer, f); err != nil {
				return err
			}
		case <-ticker.C:
			if time.Since(h.lastWrite) >= parameter.KeepaliveInterval {
				if err := h.send(writer, wire.Frame{Command: wire.Keepalive}); err != nil {
					return err
				}
			}
		}
	}
}

func (h *Helper) handle(w *bufio.Writer, f wire.Frame) error {
	switch f.Command {
	case wire.Accept:
		return nil
	case wire.FactoryCmd:
		return h.handleFactory(w, f.Payload)
	case wire.GenerationInfo:
		if h.factory != nil {
			_ = h.factory.ReadCommonGenerationInfo(bytes.NewReader(f.Payload))
		}
		return nil
	case wire.Calculate:
		return h.handleCalculate(w, f.Payload)
	case wire.Keepalive:
		return nil
	default:
		return gaerr.New(gaerr.Protocol, "unexpected command from coordinator")
	}
}

// handleFactory loads (or reloads) the named module per spec.md §4.9:
// "unload any previous factory, load the named module, init(...), reply
// FACTORY_RESULT(ok?)".
func (h *Helper) handleFactory(w *bufio.Writer, payload []byte) error {
	msg, err := wire.DecodeFactoryMsg(payload)
	if err != nil {
		return err
	}
	h.factory = nil
	h.currentFactoryID = msg.FactoryID

	factory, ok := plugin.New(msg.ModuleName)
	available := ok
	if ok {
		fp := factory.CreateParamsInstance()
		if len(msg.FactoryParams) > 0 {
			if err := fp.Read(bytes.NewReader(msg.FactoryParams)); err != nil {
				available = false
			}
		}
		if available {
			if err := factory.Init(fp); err != nil {
				h.logger.Printf("factory init failed: %v", err)
				available = false
			}
		}
		if gaParams, err := ga.ReadParams(bytes.NewReader(msg.GAParams)); err == nil {
			factory.SetGAParams(gaParams)
		}
	}
	if available {
		h.factory = factory
	}

	reply := wire.FactoryResultMsg{FactoryID: msg.FactoryID, Available: available}
	out, err := reply.Encode()
	if err != nil {
		return err
	}
	return h.send(w, wire.Frame{Command: wire.FactoryResult, Payload: out})
}

// handleCalculate evaluates one batch and replies FITNESS, emitting a
// KEEPALIVE between genomes if a calculation runs long (spec.md §5
// "Suspension points").
func (h *Helper) handleCalculate(w *bufio.Writer, payload []byte) error {
	msg, err := wire.DecodeCalculateMsg(payload)
	if err != nil {
		return err
	}
	if h.factory == nil || msg.FactoryID != h.currentFactoryID {
		return nil // stale or unknown factory id; ignore (spec.md §4.9)
	}

	fitness := make([][]byte, len(msg.Genomes))
	for i, gb := range msg.Genomes {
		genome, err := h.factory.ReadGenome(bytes.NewReader(gb))
		if err != nil {
			return err
		}
		if err := genome.CalculateFitness(); err != nil {
			return gaerr.Wrap(gaerr.Factory, "calculate fitness", err)
		}
		var fb bytes.Buffer
		if err := genome.WriteFitness(&fb); err != nil {
			return err
		}
		fitness[i] = fb.Bytes()

		if time.Since(h.lastWrite) >= parameter.KeepaliveInterval {
			if err := h.send(w, wire.Frame{Command: wire.Keepalive}); err != nil {
				return err
			}
		}
	}

	reply := wire.FitnessMsg{FactoryID: msg.FactoryID, Fitness: fitness}
	out, err := reply.Encode()
	if err != nil {
		return err
	}
	return h.send(w, wire.Frame{Command: wire.Fitness, Payload: out})
}

func (h *Helper) send(w *bufio.Writer, f wire.Frame) error {
	if err := wire.WriteFrame(w, f); err != nil {
		return gaerr.Wrap(gaerr.Transport, "write frame", err)
	}
	if err := w.Flush(); err != nil {
		return gaerr.Wrap(gaerr.Transport, "flush frame", err)
	}
	h.lastWrite = time.Now()
	return nil
}
