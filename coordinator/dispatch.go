package coordinator

import (
	"bytes"
	"context"
	"sort"
	"time"

	"github.com/kestrelga/distga/ga"
	"github.com/kestrelga/distga/wire"
)

// generationState tracks one in-flight Evaluate step (spec.md §4.8).
type generationState struct {
	pop        ga.Population
	workList   []int // indices not yet dispatched this generation
	calculated int
	start      time.Time
	resultCh   chan error
}

// Evaluator returns a ga.Evaluator bound to this coordinator, installed
// on the engine via engine.SetEvaluator (spec.md §4.6 "Evaluate",
// §4.8). ctx cancellation (client disconnect, process shutdown) is
// observed by aborting the wait, never the in-flight dispatch state
// itself, which the manager goroutine alone may mutate.
func (c *Coordinator) Evaluator() ga.Evaluator {
	return func(ctx context.Context, pop ga.Population) error {
		resultCh := make(chan error, 1)
		select {
		case c.events <- genStart{pop: pop, resultCh: resultCh}:
		case <-c.done:
			return errCoordinatorStopped
		case <-ctx.Done():
			return ctx.Err()
		}
		select {
		case err := <-resultCh:
			return err
		case <-c.done:
			return errCoordinatorStopped
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Coordinator) handleGenStart(g genStart) {
	work := make([]int, len(g.pop))
	for i := range work {
		work[i] = i
	}
	c.gen = &generationState{
		pop:      g.pop,
		workList: work,
		start:    time.Now(),
		resultCh: g.resultCh,
	}
	for _, h := range c.helpers {
		h.writtenThisGen = 0
		h.assignedIndices = nil
	}
	if len(work) == 0 {
		c.finishGeneration(nil)
		return
	}
	c.dispatchRound()
}

// dispatchRound hands out batches to every idle, acknowledged helper up
// to its remaining write quota (spec.md §4.8 step 3).
func (c *Coordinator) dispatchRound() {
	if c.gen == nil || c.run == nil {
		return
	}
	anyEligible := false
	anyPending := false
	for _, h := range c.helpers {
		if h.ackedFactoryID != c.run.id {
			anyPending = true // has not answered FACTORY for this run yet
			continue
		}
		if !h.canHelp {
			continue
		}
		anyEligible = true
		if h.phase != phaseIdle {
			continue
		}
		want := h.writeTarget - h.writtenThisGen
		if want <= 0 || len(c.gen.workList) == 0 {
			continue
		}
		if want > len(c.gen.workList) {
			want = len(c.gen.workList)
		}
		batchIdx := append([]int(nil), c.gen.workList[:want]...)
		c.gen.workList = c.gen.workList[want:]

		genomes := make([][]byte, len(batchIdx))
		ok := true
		for i, idx := range batchIdx {
			var buf bytes.Buffer
			if err := c.gen.pop[idx].Genome.WriteGenome(&buf); err != nil {
				ok = false
				break
			}
			genomes[i] = buf.Bytes()
		}
		if !ok {
			c.gen.workList = append(c.gen.workList, batchIdx...)
			continue
		}

		msg := wire.CalculateMsg{FactoryID: c.run.id, Genomes: genomes}
		payload, err := msg.Encode()
		if err != nil {
			c.gen.workList = append(c.gen.workList, batchIdx...)
			continue
		}
		if !h.conn.Send(wire.Frame{Command: wire.Calculate, Payload: payload}) {
			c.gen.workList = append(c.gen.workList, batchIdx...)
			continue
		}
		h.phase = phaseCalculating
		h.assignedIndices = batchIdx
		h.writtenThisGen += len(batchIdx)
	}

	if !anyEligible && !anyPending && len(c.gen.workList) == len(c.gen.pop) {
		c.finishGeneration(errNoHelpers)
	}
}

// handleFitness applies a FITNESS reply to the recorded slots
// (spec.md §4.8 step 4 "fitness batch").
func (c *Coordinator) handleFitness(h *helperState, payload []byte) {
	msg, err := wire.DecodeFitnessMsg(payload)
	if err != nil {
		c.closePeer(h.conn, err)
		return
	}
	if c.run == nil || msg.FactoryID != c.run.id {
		return // stale reply to a cancelled generation (spec.md §4.8)
	}
	if c.gen == nil || len(msg.Fitness) != len(h.assignedIndices) {
		return
	}

	for i, idx := range h.assignedIndices {
		if err := c.factory.ReadGenomeFitness(bytes.NewReader(msg.Fitness[i]), c.gen.pop[idx].Genome); err != nil {
			c.closePeer(h.conn, err)
			return
		}
	}
	c.gen.calculated += len(h.assignedIndices)
	h.lastDeliveryTime = time.Now()
	h.assignedIndices = nil
	h.phase = phaseIdle

	if c.gen.calculated >= len(c.gen.pop) {
		c.finishGeneration(nil)
		return
	}
	c.dispatchRound()
}

// finishGeneration rebalances write quotas and releases the waiting
// evaluator call.
func (c *Coordinator) finishGeneration(err error) {
	if c.gen == nil {
		return
	}
	if err == nil {
		c.rebalance(len(c.gen.pop))
	}
	resultCh := c.gen.resultCh
	c.gen = nil
	resultCh <- err
}

// requeueIndices returns in-flight indices to the work list after a
// helper disconnects mid-generation (spec.md §7 "Transport").
func (c *Coordinator) requeueIndices(h *helperState) {
	if c.gen == nil || len(h.assignedIndices) == 0 {
		return
	}
	c.gen.workList = append(c.gen.workList, h.assignedIndices...)
	h.assignedIndices = nil
}

// rebalance implements spec.md §4.8 step 7: move quota from slow
// helpers to fast ones while it strictly improves the projected max,
// then normalize so quotas sum to populationSize.
func (c *Coordinator) rebalance(populationSize int) {
	type rate struct {
		id           peerID
		perGenomeSec float64
	}
	var rates []rate
	for id, h := range c.helpers {
		if h.writtenThisGen <= 0 {
			continue
		}
		elapsed := h.lastDeliveryTime.Sub(c.gen.start).Seconds()
		if elapsed <= 0 {
			elapsed = 1e-6
		}
		rates = append(rates, rate{id: id, perGenomeSec: elapsed / float64(h.writtenThisGen)})
	}
	if len(rates) < 2 {
		c.normalizeQuotas(populationSize)
		return
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].perGenomeSec < rates[j].perGenomeSec })

	for iter := 0; iter < len(rates)*len(rates); iter++ {
		fast := c.helpers[rates[0].id]
		slow := c.helpers[rates[len(rates)-1].id]
		if slow.writeTarget <= 1 {
			break
		}
		fastProjBefore := float64(fast.writeTarget) * rates[0].perGenomeSec
		slowProjBefore := float64(slow.writeTarget) * rates[len(rates)-1].perGenomeSec
		before := max64(fastProjBefore, slowProjBefore)

		fastProjAfter := float64(fast.writeTarget+1) * rates[0].perGenomeSec
		slowProjAfter := float64(slow.writeTarget-1) * rates[len(rates)-1].perGenomeSec
		after := max64(fastProjAfter, slowProjAfter)

		if after >= before {
			break
		}
		fast.writeTarget++
		slow.writeTarget--
	}
	c.normalizeQuotas(populationSize)
}

// normalizeQuotas adjusts eligible helpers' quotas toward a sum of
// exactly populationSize: a shortfall is added one unit at a time
// round-robin over all eligible helpers in peer-id order, and an excess
// is removed the same way from helpers whose quota is above 1. The
// shortfall is not weighted by speed; it does not go to the fastest
// helper. When every eligible quota is already 1, an excess stays.
func (c *Coordinator) normalizeQuotas(populationSize int) {
	var eligible []peerID
	sum := 0
	for id, h := range c.helpers {
		if !h.canHelp {
			continue
		}
		if h.writeTarget < 1 {
			h.writeTarget = 1
		}
		eligible = append(eligible, id)
		sum += h.writeTarget
	}
	if len(eligible) == 0 {
		return
	}
	diff := populationSize - sum
	if diff == 0 {
		return
	}
	sort.Slice(eligible, func(i, j int) bool { return eligible[i] < eligible[j] })
	if diff > 0 {
		for i := 0; diff > 0; i = (i + 1) % len(eligible) {
			c.helpers[eligible[i]].writeTarget++
			diff--
		}
		return
	}
	for i := 0; diff < 0 && i < len(eligible)*populationSize; i++ {
		idx := eligible[i%len(eligible)]
		if c.helpers[idx].writeTarget > 1 {
			c.helpers[idx].writeTarget--
			diff++
		}
	}
}

func max64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
