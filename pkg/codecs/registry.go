// Package codecs maintains the registry of codec candidates that the adapter
// iterates when binding a decoder to a stream.
package codecs

import (
	"sync"

	"github.com/user/framepull/pkg/ports"
)

// Candidate describes one codec implementation that can be tried during
// adapter creation. New allocates a fresh, unconfigured device; it may return
// nil when the implementation is unavailable on this platform.
type Candidate struct {
	// Name identifies the component (e.g. "passthrough").
	Name string
	// MediaTypes lists the media types the candidate accepts. An empty list
	// means it accepts any media type.
	MediaTypes []string
	// New allocates a codec device.
	New func() ports.AsyncCodec
}

// Constraints narrows candidate matching.
type Constraints struct {
	// PreferredName, when non-empty, restricts matching to that component.
	PreferredName string
}

var (
	registryLock sync.Mutex
	registry     []Candidate
)

// Register adds a candidate to the registry. Candidates are tried in
// registration order.
func Register(c Candidate) {
	registryLock.Lock()
	defer registryLock.Unlock()

	registry = append(registry, c)
}

// FindMatching returns the candidates accepting mediaType, in registration
// order, filtered by the constraints.
func FindMatching(mediaType string, constraints Constraints) []Candidate {
	registryLock.Lock()
	defer registryLock.Unlock()

	var matching []Candidate
	for _, c := range registry {
		if constraints.PreferredName != "" && c.Name != constraints.PreferredName {
			continue
		}
		if !c.accepts(mediaType) {
			continue
		}
		matching = append(matching, c)
	}
	return matching
}

func (c Candidate) accepts(mediaType string) bool {
	if len(c.MediaTypes) == 0 {
		return true
	}
	for _, mt := range c.MediaTypes {
		if mt == mediaType {
			return true
		}
	}
	return false
}
