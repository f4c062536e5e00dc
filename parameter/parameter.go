// Package parameter collects the tunable constants shared across the
// engine, coordinator, helper, and client so they aren't scattered as
// magic numbers through the call sites that use them.
package parameter

import "time"

// GA defaults (spec.md §3 "GA parameters").
const (
	DefaultBeta              = 2.5
	DefaultCrossoverRate     = 0.9
	DefaultElitism           = true
	DefaultAlwaysIncludeBest = true

	// MinPopulationSize is the smallest population the engine accepts.
	MinPopulationSize = 5

	// InbreedingMaxRetries bounds the parent-pair resampling loop.
	InbreedingMaxRetries = 10

	// ElitismFraction sets the elite/best-pin slot count: max(1, round(f*S)).
	ElitismFraction = 0.005
)

// Reporting cadence (spec.md §4.6, §5).
const (
	ReportInterval = 10 * time.Second
)

// Network timing (spec.md §5).
const (
	// ReadIdleTimeout disconnects a peer whose socket has produced nothing
	// for this long.
	ReadIdleTimeout = 600 * time.Second

	// ClientFeedbackInterval bounds how often the coordinator owes the
	// client a CURRENT_BEST or KEEPALIVE.
	ClientFeedbackInterval = 20 * time.Second

	// KeepaliveInterval is the write-idleness threshold that triggers a
	// KEEPALIVE from any endpoint.
	KeepaliveInterval = 10 * time.Second

	// GracefulCloseWait is the end-of-run wait for the client to close its
	// TCP connection. No code reads it: the coordinator sends RESULT and
	// keeps the client connection open until the client closes it.
	GracefulCloseWait = 60 * time.Second

	// SelectPollInterval is a 200 ms poll cadence. No code reads it: the
	// coordinator's manager loop wakes only on events and the client
	// feedback ticker.
	SelectPollInterval = 200 * time.Millisecond

	// DialTimeout bounds helper/client connection attempts.
	DialTimeout = 10 * time.Second
)

// Buffer sizing (ambient, grounded on network/config.go's buffer fields).
const (
	ReadBufferSize  = 64 * 1024
	WriteBufferSize = 64 * 1024

	// SendQueueSize bounds the per-connection outbound message channel.
	SendQueueSize = 256

	// MaxFrameBytes enforces the §6 wire limit of 128 MiB per message.
	MaxFrameBytes = 128 * 1024 * 1024
)

// DefaultPort is used by the cmd/ binaries when no port is supplied.
const DefaultPort = 7737
