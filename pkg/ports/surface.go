package ports

// Surface is a render target for the zero-copy delivery path. A codec bound
// to a surface pushes decoded payloads directly to it instead of exposing them
// to the caller.
type Surface interface {
	// Render displays one decoded payload at the given presentation time.
	Render(data []byte, timeUs int64) error
}
