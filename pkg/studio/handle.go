// handle.go — Ephemeral in-memory asset handles. Handles stand in for
// browser object URLs: owned by the component that created them and
// explicitly released when replaced, never left to garbage collection.
package studio

import "github.com/google/uuid"

// HandleScheme prefixes every ephemeral handle URI. The compositor's
// loader and the HTTP asset routes use it to tell handles apart from
// filesystem paths.
const HandleScheme = "mem://"

// Handle is an owned, releasable reference to uploaded image bytes.
type Handle struct {
	uri  string
	data []byte
}

// NewHandle wraps uploaded bytes in a fresh handle with a unique URI.
func NewHandle(data []byte) *Handle {
	return &Handle{uri: HandleScheme + uuid.NewString(), data: data}
}

// URI returns the handle's ephemeral identifier.
func (h *Handle) URI() string { return h.uri }

// Bytes returns the underlying data, or nil after Release.
func (h *Handle) Bytes() []byte { return h.data }

// Release drops the underlying data. Further Bytes calls return nil;
// releasing twice is harmless.
func (h *Handle) Release() { h.data = nil }
