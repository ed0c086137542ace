package workload

import (
	"encoding/binary"
	"fmt"

	"github.com/minio/highwayhash"
)

// fingerprintKey is fixed so fingerprints are comparable across runs.
var fingerprintKey = []byte("md5bench workload fingerprint v1")

// Fingerprint hashes the packets in traversal order. Two sessions with the
// same fingerprint measured identical inputs in the identical sequence.
func Fingerprint(packets []Packet, order []int) (string, error) {
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", fmt.Errorf("init highwayhash: %w", err)
	}

	var lenBuf [4]byte

	for _, idx := range order {
		p := packets[idx]
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(p.Len()))
		h.Write(lenBuf[:])
		h.Write(p.Data)
	}

	return fmt.Sprintf("%016x", h.Sum64()), nil
}
