// Package checkpoint saves and restores differentiable values.
//
// File layout (all integers little-endian):
//
//	0x00  magic "GTCK"
//	0x04  format version (uint32)
//	0x08  payload size in bytes (uint64)
//	0x10  SHA-256 of the payload (32 bytes)
//	0x30  payload (deterministic CBOR)
//
// The payload maps every leaf path of the value ("tube.diameter",
// "valve[2]") to its primal, together with optional optimizer state and
// training metadata. Non-differentiable fields are not stored; Load keeps
// whatever the target already holds for them.
package checkpoint

import (
	"time"
)

// Format constants.
const (
	MagicBytes     = "GTCK"
	FormatVersion  = 1
	ChecksumSize   = 32
	HeaderSize     = 4 + 4 + 8 + ChecksumSize
	MaxPayloadSize = 64 << 20
)

// Meta is the training metadata stored next to the values.
type Meta struct {
	Step      int               `cbor:"step"`
	Loss      float64           `cbor:"loss"`
	Optimizer string            `cbor:"optimizer,omitempty"`
	Labels    map[string]string `cbor:"labels,omitempty"`
}

// payload is the CBOR document following the fixed header.
type payload struct {
	Type      string               `cbor:"type"`
	CreatedAt time.Time            `cbor:"created_at"`
	Meta      Meta                 `cbor:"meta"`
	Leaves    map[string]float64   `cbor:"leaves"`
	Optimizer map[string][]float64 `cbor:"optimizer,omitempty"`
}
