package coordinator

import "time"

// helperPhase mirrors spec.md §4.8's distribution state machine.
type helperPhase int

const (
	phaseUnidentified helperPhase = iota
	phaseIdle
	phaseCalculating
)

// helperState is the coordinator's per-helper distribution record
// (spec.md §4.8 "Distribution state per helper").
type helperState struct {
	conn *peerConn

	phase                helperPhase
	lastWrittenFactoryID int32
	ackedFactoryID       int32
	canHelp              bool

	writeTarget      int
	writtenThisGen   int
	assignedIndices  []int
	lastDeliveryTime time.Time
}

// clientState tracks the single active client session.
type clientState struct {
	conn         *peerConn
	lastFeedback time.Time
}

// factoryRun describes the FACTORY descriptor currently in force, so it
// can be replayed to helpers that connect mid-run (spec.md §6 "FACTORY
// Cl->C->H").
type factoryRun struct {
	id            int32
	moduleName    string
	factoryParams []byte
	gaParams      []byte
}
