package kernel

import (
	"encoding/binary"
	"math/bits"

	"github.com/weiihann/md5bench/digest"
)

func blockStd(s *digest.State, p *[digest.BlockSize]byte) {
	var x [16]uint32
	for i := range x {
		x[i] = binary.LittleEndian.Uint32(p[4*i:])
	}

	a, b, c, d := s.A, s.B, s.C, s.D

	for i := 0; i < 64; i++ {
		var (
			f uint32
			g int
		)

		switch {
		case i < 16:
			f = (b & c) | (^b & d)
			g = i
		case i < 32:
			f = (d & b) | (^d & c)
			g = (5*i + 1) % 16
		case i < 48:
			f = b ^ c ^ d
			g = (3*i + 5) % 16
		default:
			f = c ^ (b | ^d)
			g = (7 * i) % 16
		}

		a, b, c, d = d, b+bits.RotateLeft32(a+f+table[i]+x[g], shifts[i]), b, c
	}

	s.A += a
	s.B += b
	s.C += c
	s.D += d
}
