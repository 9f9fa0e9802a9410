package ports

// UnitSink consumes decoded units pulled from the adapter.
type UnitSink interface {
	// WriteUnit stores or displays one decoded unit.
	WriteUnit(unit *Unit) error

	// Close finalizes the sink.
	Close() error
}
