// Package coordinator implements the distribution coordinator (spec.md
// §4.8, §4.9 "Coordinator"): it accepts one client session and many
// helper workers, drives a ga.Engine whose Evaluator dispatches genome
// batches to helpers, rebalances work by observed per-genome latency,
// and reports the best-set back to the client.
//
// Connection handling is grounded on network/connection.go's
// Peer/PeerManager: one reader goroutine and one writer goroutine per
// socket, feeding a single manager goroutine that owns all mutable
// distribution state without locks (spec.md §9 "back-pointer", adapted
// concurrency translation noted in SPEC_FULL.md §4.8).
package coordinator

import (
	"bufio"
	"net"
	"sync"
	"time"

	"github.com/kestrelga/distga/parameter"
	"github.com/kestrelga/distga/wire"
)

type peerID uint64

// peerConn wraps one accepted connection with a buffered reader/writer
// and a bounded outbound queue. All fields except the channels are
// touched only by this peer's own goroutines or by the manager
// goroutine after the peer has been removed from its maps.
type peerConn struct {
	id   peerID
	addr string
	conn net.Conn

	reader *bufio.Reader
	writer *bufio.Writer

	sendCh    chan wire.Frame
	closeCh   chan struct{}
	closeOnce sync.Once

	lastWrite time.Time
}

func newPeerConn(id peerID, conn net.Conn) *peerConn {
	return &peerConn{
		id:        id,
		addr:      conn.RemoteAddr().String(),
		conn:      conn,
		reader:    bufio.NewReaderSize(conn, parameter.ReadBufferSize),
		writer:    bufio.NewWriterSize(conn, parameter.WriteBufferSize),
		sendCh:    make(chan wire.Frame, parameter.SendQueueSize),
		closeCh:   make(chan struct{}),
		lastWrite: time.Now(),
	}
}

// Send enqueues a frame for transmission. Returns false if the peer is
// already closing or its queue is full (a slow/dead peer never blocks
// the manager goroutine).
func (p *peerConn) Send(f wire.Frame) bool {
	select {
	case <-p.closeCh:
		return false
	default:
	}
	select {
	case p.sendCh <- f:
		return true
	default:
		return false
	}
}

// Close is idempotent and safe to call from any goroutine.
func (p *peerConn) Close() {
	p.closeOnce.Do(func() {
		close(p.closeCh)
		p.conn.Close()
	})
}

// readLoop decodes frames and forwards them to the manager via events
// until the connection fails or is closed locally.
func (p *peerConn) readLoop(events chan<- event) {
	defer p.Close()
	for {
		_ = p.conn.SetReadDeadline(time.Now().Add(parameter.ReadIdleTimeout))
		f, err := wire.ReadFrame(p.reader)
		if err != nil {
			select {
			case events <- peerClosed{id: p.id, err: err}:
			case <-p.closeCh:
			}
			return
		}
		select {
		case events <- frameReceived{id: p.id, frame: f}:
		case <-p.closeCh:
			return
		}
	}
}

// writeLoop drains the send queue, flushing after each frame so replies
// are delivered promptly, and emits KEEPALIVE on write idleness.
func (p *peerConn) writeLoop() {
	defer p.Close()
	ticker := time.NewTicker(parameter.KeepaliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.closeCh:
			return
		case f := <-p.sendCh:
			if err := wire.WriteFrame(p.writer, f); err != nil {
				return
			}
			if err := p.writer.Flush(); err != nil {
				return
			}
			p.lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(p.lastWrite) >= parameter.KeepaliveInterval {
				if err := wire.WriteFrame(p.writer, wire.Frame{Command: wire.Keepalive}); err != nil {
					return
				}
				if err := p.writer.Flush(); err != nil {
					return
				}
				p.lastWrite = time.Now()
			}
		}
	}
}
