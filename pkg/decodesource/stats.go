package decodesource

import "go.uber.org/atomic"

// counters tracks pump activity. Updated without the state mutex held.
type counters struct {
	samplesQueued  atomic.Int64
	unitsDecoded   atomic.Int64
	inputTimeouts  atomic.Int64
	outputTimeouts atomic.Int64
	flushes        atomic.Int64
}

// Stats is a point-in-time snapshot of adapter activity.
type Stats struct {
	// SamplesQueued counts encoded samples submitted to the codec.
	SamplesQueued int64
	// UnitsDecoded counts decoded units delivered (copied or rendered).
	UnitsDecoded int64
	// InputTimeouts counts input-queue-full waits, the expected steady state
	// of a primed pipeline.
	InputTimeouts int64
	// OutputTimeouts counts output waits that expired before a unit.
	OutputTimeouts int64
	// Flushes counts seek-triggered codec flushes.
	Flushes int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		SamplesQueued:  c.samplesQueued.Load(),
		UnitsDecoded:   c.unitsDecoded.Load(),
		InputTimeouts:  c.inputTimeouts.Load(),
		OutputTimeouts: c.outputTimeouts.Load(),
		Flushes:        c.flushes.Load(),
	}
}
