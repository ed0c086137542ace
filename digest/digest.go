// Package digest computes RFC 1321 MD5 digests over a pluggable
// block-compression step. Padding, length encoding and finalization live
// here once; a Compressor only ever sees whole 64-byte blocks.
//
// MD5 is cryptographically broken. It is used as a fixed-cost workload.
package digest

import "encoding/binary"

const (
	// Size is the length of an MD5 digest in bytes.
	Size = 16
	// BlockSize is the MD5 block size in bytes.
	BlockSize = 64
)

const (
	init0 = 0x67452301
	init1 = 0xefcdab89
	init2 = 0x98badcfe
	init3 = 0x10325476
)

// lengthOffset is where the 64-bit message length starts in the final block.
const lengthOffset = BlockSize - 8

// State holds the four MD5 chaining variables.
type State struct {
	A, B, C, D uint32
}

// Reset sets the chaining variables to the RFC 1321 initial values.
func (s *State) Reset() {
	s.A = init0
	s.B = init1
	s.C = init2
	s.D = init3
}

// Bytes returns A, B, C and D as little-endian words, in that order.
func (s *State) Bytes() [Size]byte {
	var out [Size]byte
	binary.LittleEndian.PutUint32(out[0:], s.A)
	binary.LittleEndian.PutUint32(out[4:], s.B)
	binary.LittleEndian.PutUint32(out[8:], s.C)
	binary.LittleEndian.PutUint32(out[12:], s.D)

	return out
}

// Compressor advances a State over exactly one 64-byte block. It must
// process the whole block and must not retain either pointer.
type Compressor interface {
	Compress(s *State, block *[BlockSize]byte)
}

// CompressFunc adapts a plain function to Compressor.
type CompressFunc func(s *State, block *[BlockSize]byte)

// Compress calls f(s, block).
func (f CompressFunc) Compress(s *State, block *[BlockSize]byte) {
	f(s, block)
}

// Engine computes MD5 digests with a fixed Compressor. The state and the
// padding block are reused across calls, so an Engine must not be used
// from more than one goroutine at a time.
type Engine struct {
	c       Compressor
	state   State
	scratch [BlockSize]byte
}

// New returns an Engine that compresses blocks with c.
func New(c Compressor) *Engine {
	return &Engine{c: c}
}

// Sum returns the MD5 digest of msg.
func (e *Engine) Sum(msg []byte) [Size]byte {
	e.state.Reset()

	bitLen := uint64(len(msg)) << 3

	for len(msg) >= BlockSize {
		e.c.Compress(&e.state, (*[BlockSize]byte)(msg[:BlockSize]))
		msg = msg[BlockSize:]
	}

	block := &e.scratch
	n := copy(block[:], msg)
	block[n] = 0x80
	n++

	if n > lengthOffset {
		// No room for the length: flush this block and put the length
		// in a block of its own.
		clear(block[n:])
		e.c.Compress(&e.state, block)
		n = 0
	}

	clear(block[n:lengthOffset])
	binary.LittleEndian.PutUint64(block[lengthOffset:], bitLen)
	e.c.Compress(&e.state, block)

	return e.state.Bytes()
}

// Sum returns the MD5 digest of msg using c for block compression.
func Sum(c Compressor, msg []byte) [Size]byte {
	return New(c).Sum(msg)
}
