package coordinator

import (
	"github.com/kestrelga/distga/ga"
	"github.com/kestrelga/distga/wire"
)

// event is the manager goroutine's single input type; every goroutine
// that touches a connection (reader loops, the listener, the evaluator)
// talks to the manager exclusively by sending one of these.
type event interface{}

// connAccepted is emitted by the accept loop for every new socket.
type connAccepted struct {
	peer *peerConn
}

// frameReceived is emitted by a peer's readLoop for every decoded frame.
type frameReceived struct {
	id    peerID
	frame wire.Frame
}

// peerClosed is emitted by a peer's readLoop when the connection ends.
type peerClosed struct {
	id  peerID
	err error
}

// genStart is sent by the distributed evaluator to kick off dispatch
// for one generation; resultCh receives exactly one value when every
// index has been accounted for (or an unrecoverable error occurs).
type genStart struct {
	pop      ga.Population
	resultCh chan error
}
