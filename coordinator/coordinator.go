package coordinator

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net"
	"time"

	"github.com/kestrelga/distga/ga"
	"github.com/kestrelga/distga/ga/rng"
	"github.com/kestrelga/distga/gaerr"
	"github.com/kestrelga/distga/parameter"
	"github.com/kestrelga/distga/plugin"
	"github.com/kestrelga/distga/wire"
)

var (
	errCoordinatorStopped = errors.New("coordinator stopped")
	errNoHelpers          = gaerr.New(gaerr.Exhaustion, "no helper can service this factory")
)

// Coordinator owns every piece of mutable distribution state; all of it
// is touched only from the runLoop goroutine, reached exclusively through
// the events channel (SPEC_FULL.md §4.8 concurrency translation).
type Coordinator struct {
	listener net.Listener
	events   chan event
	done     chan struct{}

	nextID peerID
	peers  map[peerID]*peerConn

	helpers  map[peerID]*helperState
	client   *clientState
	clientID peerID

	run *factoryRun
	gen *generationState

	factory       ga.Factory
	engineCancel  context.CancelFunc
	engineRunning bool

	rngSrc        rng.Source
	nextFactoryID int32

	logger *log.Logger
}

// New creates a coordinator bound to no socket yet; call Serve to
// listen and run the manager loop. A nil logger discards output,
// mirroring cmd/vi-fighter's debug-gated logging (SPEC_FULL.md §10).
func New(src rng.Source, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.New(nopWriter{}, "", 0)
	}
	return &Coordinator{
		events:  make(chan event, 256),
		done:    make(chan struct{}),
		peers:   make(map[peerID]*peerConn),
		helpers: make(map[peerID]*helperState),
		rngSrc:  src,
		logger:  logger,
	}
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

// Serve listens on addr and runs until ctx is cancelled.
func (c *Coordinator) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return gaerr.Wrap(gaerr.Transport, "listen", err)
	}
	c.listener = ln
	defer ln.Close()

	go c.acceptLoop()
	go func() {
		<-ctx.Done()
		close(c.done)
		ln.Close()
	}()

	c.runLoop(ctx)
	return nil
}

func (c *Coordinator) acceptLoop() {
	for {
		conn, err := c.listener.Accept()
		if err != nil {
			return
		}
		select {
		case c.events <- connAccepted{peer: newPeerConn(0, conn)}:
		case <-c.done:
			conn.Close()
			return
		}
	}
}

// runLoop is the single manager goroutine: every mutation of peers,
// helpers, client, run, and gen happens here.
func (c *Coordinator) runLoop(ctx context.Context) {
	feedbackTicker := time.NewTicker(parameter.ClientFeedbackInterval)
	defer feedbackTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.shutdown()
			return
		case ev := <-c.events:
			c.dispatch(ev)
		case <-feedbackTicker.C:
			c.sendCurrentBest()
		}
	}
}

func (c *Coordinator) dispatch(ev event) {
	switch e := ev.(type) {
	case connAccepted:
		c.nextID++
		e.peer.id = c.nextID
		c.peers[e.peer.id] = e.peer
		go e.peer.readLoop(c.events)
		go e.peer.writeLoop()
	case frameReceived:
		c.handleFrame(e.id, e.frame)
	case peerClosed:
		c.handlePeerClosed(e.id)
	case genStart:
		c.handleGenStart(e)
	case engineFinished:
		c.handleEngineFinished(e)
	}
}

// handleEngineFinished reports the run's outcome to the client and
// clears run state so a subsequent FACTORY submission can start a new
// run (spec.md §6 "NO_HELPERS", "RESULT").
func (c *Coordinator) handleEngineFinished(e engineFinished) {
	if c.client != nil {
		switch {
		case errors.Is(e.err, errNoHelpers):
			c.client.conn.Send(wire.Frame{Command: wire.NoHelpers})
		case e.err == nil:
			c.reportBestSet(wire.Result, e.best)
		}
	}
	c.engineRunning = false
	c.engineCancel = nil
	c.run = nil
	c.gen = nil
	c.factory = nil
}

func (c *Coordinator) handleFrame(id peerID, f wire.Frame) {
	p, ok := c.peers[id]
	if !ok {
		return
	}
	if h, isHelper := c.helpers[id]; isHelper {
		c.handleHelperFrame(h, f)
		return
	}
	if c.client != nil && c.clientID == id {
		c.handleClientFrame(f)
		return
	}

	// Unidentified peer: its first frame must be a hello.
	switch f.Command {
	case wire.HelperHello:
		h := &helperState{conn: p, writeTarget: 1}
		c.helpers[id] = h
		p.Send(wire.Frame{Command: wire.Accept})
		if c.run != nil {
			c.sendFactoryTo(h)
		}
	case wire.ClientHello:
		if c.client != nil {
			p.Send(wire.Frame{Command: wire.Busy})
			c.removePeer(id)
			return
		}
		c.client = &clientState{conn: p, lastFeedback: time.Now()}
		c.clientID = id
		p.Send(wire.Frame{Command: wire.Accept})
	default:
		c.closePeer(p, gaerr.New(gaerr.Protocol, "expected a hello as the first frame"))
	}
}

func (c *Coordinator) handleHelperFrame(h *helperState, f wire.Frame) {
	switch f.Command {
	case wire.FactoryResult:
		msg, err := wire.DecodeFactoryResultMsg(f.Payload)
		if err != nil {
			c.closePeer(h.conn, err)
			return
		}
		h.ackedFactoryID = msg.FactoryID
		h.canHelp = msg.Available
		if h.phase == phaseUnidentified && msg.Available {
			h.phase = phaseIdle
		}
		c.dispatchRound()
	case wire.Fitness:
		c.handleFitness(h, f.Payload)
	case wire.Keepalive:
		// no-op (spec.md §4.8 step 4)
	default:
		c.closePeer(h.conn, gaerr.New(gaerr.Protocol, "unexpected command from helper"))
	}
}

func (c *Coordinator) handleClientFrame(f wire.Frame) {
	switch f.Command {
	case wire.FactoryCmd:
		c.handleFactoryCmd(f.Payload)
	case wire.Keepalive:
		// no-op
	default:
		c.closePeer(c.client.conn, gaerr.New(gaerr.Protocol, "unexpected command from client"))
	}
}

// handleFactoryCmd starts a new run from the client's FACTORY submission
// (spec.md §6 row 6, §4.1 Init).
func (c *Coordinator) handleFactoryCmd(payload []byte) {
	if c.engineRunning {
		return // a run is already active for this client session
	}
	msg, err := wire.DecodeFactoryMsg(payload)
	if err != nil {
		c.closePeer(c.client.conn, err)
		return
	}

	factory, ok := plugin.New(msg.ModuleName)
	if !ok {
		c.closePeer(c.client.conn, gaerr.New(gaerr.Programmer, "unknown module: "+msg.ModuleName))
		return
	}
	fp := factory.CreateParamsInstance()
	if len(msg.FactoryParams) > 0 {
		if err := fp.Read(bytes.NewReader(msg.FactoryParams)); err != nil {
			c.closePeer(c.client.conn, err)
			return
		}
	}
	if err := factory.Init(fp); err != nil {
		c.closePeer(c.client.conn, gaerr.Wrap(gaerr.Factory, "factory init failed", err))
		return
	}
	gaParams := ga.DefaultParams()
	if len(msg.GAParams) > 0 {
		if gaParams, err = ga.ReadParams(bytes.NewReader(msg.GAParams)); err != nil {
			c.closePeer(c.client.conn, err)
			return
		}
	}

	engine, err := ga.New(factory, int(msg.PopSize), gaParams, c.rngSrc)
	if err != nil {
		c.closePeer(c.client.conn, err)
		return
	}
	engine.SetEvaluator(c.Evaluator())

	c.nextFactoryID++
	c.factory = factory
	c.run = &factoryRun{
		id:            c.nextFactoryID,
		moduleName:    msg.ModuleName,
		factoryParams: msg.FactoryParams,
		gaParams:      msg.GAParams,
	}
	for _, h := range c.helpers {
		h.phase = phaseIdle
		h.canHelp = false
		h.ackedFactoryID = 0
		h.writeTarget = 1
		h.writtenThisGen = 0
		h.assignedIndices = nil
		c.sendFactoryTo(h)
	}

	engine.ReportHook = func(best []ga.Genome) { c.reportBestSet(wire.CurrentBest, best) }

	ctx, cancel := context.WithCancel(context.Background())
	c.engineCancel = cancel
	c.engineRunning = true
	go c.runEngine(ctx, engine)
}

func (c *Coordinator) runEngine(ctx context.Context, engine *ga.Engine) {
	err := engine.Run(ctx, 0)
	select {
	case c.events <- engineFinished{err: err, best: engine.BestGenomes()}:
	case <-c.done:
	}
}

func (c *Coordinator) sendFactoryTo(h *helperState) {
	if c.run == nil {
		return
	}
	msg := wire.FactoryMsg{
		FactoryID:     c.run.id,
		ModuleName:    c.run.moduleName,
		PopSize:       0, // informational only past Init; helpers never build a population
		FactoryParams: c.run.factoryParams,
		GAParams:      c.run.gaParams,
	}
	payload, err := msg.Encode()
	if err != nil {
		return
	}
	h.conn.Send(wire.Frame{Command: wire.FactoryCmd, Payload: payload})
	h.lastWrittenFactoryID = c.run.id
}

func (c *Coordinator) sendCurrentBest() {
	if c.client == nil || c.factory == nil {
		return
	}
	c.reportBestSet(wire.CurrentBest, c.factory.BestGenomes())
}

func (c *Coordinator) reportBestSet(cmd wire.CommandID, best []ga.Genome) {
	if c.client == nil {
		return
	}
	entries := make([]wire.GenomeFitness, len(best))
	for i, g := range best {
		var gb, fb bytes.Buffer
		if err := g.WriteGenome(&gb); err != nil {
			return
		}
		if err := g.WriteFitness(&fb); err != nil {
			return
		}
		entries[i] = wire.GenomeFitness{Genome: gb.Bytes(), Fitness: fb.Bytes()}
	}
	payload, err := wire.BestSetMsg{Entries: entries}.Encode()
	if err != nil {
		return
	}
	c.client.conn.Send(wire.Frame{Command: cmd, Payload: payload})
	c.client.lastFeedback = time.Now()
}

func (c *Coordinator) handlePeerClosed(id peerID) {
	if h, ok := c.helpers[id]; ok {
		c.requeueIndices(h)
		delete(c.helpers, id)
		delete(c.peers, id)
		if c.gen != nil {
			c.dispatchRound()
		}
		return
	}
	if c.client != nil && c.clientID == id {
		c.client = nil
		if c.engineCancel != nil {
			c.engineCancel() // spec.md §5 "a client disconnect mid-run aborts the run"
		}
	}
	delete(c.peers, id)
}

func (c *Coordinator) closePeer(p *peerConn, err error) {
	if err != nil {
		c.logger.Printf("closing %s: %v", p.addr, err)
	}
	p.Close()
}

func (c *Coordinator) removePeer(id peerID) {
	if p, ok := c.peers[id]; ok {
		p.Close()
	}
}

func (c *Coordinator) shutdown() {
	if c.engineCancel != nil {
		c.engineCancel()
	}
	for _, p := range c.peers {
		p.Close()
	}
}

// engineFinished is emitted once the run goroutine's engine.Run returns.
type engineFinished struct {
	err  error
	best []ga.Genome
}
