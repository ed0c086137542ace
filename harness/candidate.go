package harness

import (
	"crypto/md5"
	"fmt"

	md5simd "github.com/minio/md5-simd"
	"github.com/samber/lo"

	"github.com/weiihann/md5bench/digest"
	"github.com/weiihann/md5bench/kernel"
)

// Kind classifies a candidate.
type Kind string

const (
	KindBaseline Kind = "baseline"
	KindKernel   Kind = "kernel"
	KindOracle   Kind = "oracle"
)

// Oracle hashes a whole buffer and writes the digest to out. It is
// treated as a black box.
type Oracle interface {
	Sum(msg []byte, out *[digest.Size]byte)
}

// OracleFunc adapts a plain function to Oracle.
type OracleFunc func(msg []byte, out *[digest.Size]byte)

// Sum calls f(msg, out).
func (f OracleFunc) Sum(msg []byte, out *[digest.Size]byte) {
	f(msg, out)
}

// Candidate is one implementation under test. Exactly one of Compressor
// and Oracle is set.
type Candidate struct {
	Name       string
	Kind       Kind
	Compressor digest.Compressor
	Oracle     Oracle
}

// BaselineCandidate wraps the oracle every other candidate is compared
// against.
func BaselineCandidate(name string, o Oracle) Candidate {
	return Candidate{Name: name, Kind: KindBaseline, Oracle: o}
}

// KernelCandidate runs k through the generic digest engine.
func KernelCandidate(k kernel.Kernel) Candidate {
	return Candidate{Name: k.Name, Kind: KindKernel, Compressor: k.Compress}
}

// OracleCandidate measures a library hash as an opaque whole-buffer
// function.
func OracleCandidate(name string, o Oracle) Candidate {
	return Candidate{Name: name, Kind: KindOracle, Oracle: o}
}

// summer returns a function computing the candidate's digest. Kernel
// candidates get their own engine, reused for every packet.
func (c Candidate) summer() func(msg []byte, out *[digest.Size]byte) {
	if c.Compressor != nil {
		e := digest.New(c.Compressor)

		return func(msg []byte, out *[digest.Size]byte) {
			*out = e.Sum(msg)
		}
	}

	return c.Oracle.Sum
}

// Baseline oracle and library oracle names.
const (
	OracleCryptoMD5 = "crypto/md5"
	OracleMD5SIMD   = "md5-simd"
)

// CryptoMD5 is the standard library MD5, used as the baseline.
var CryptoMD5 = OracleFunc(func(msg []byte, out *[digest.Size]byte) {
	*out = md5.Sum(msg)
})

// SIMDOracle hashes through a single minio/md5-simd hasher. The library
// schedules lanes on its own goroutines; from the harness it is one
// synchronous call per packet.
type SIMDOracle struct {
	server md5simd.Server
	hasher md5simd.Hasher
}

// NewSIMDOracle starts an md5-simd server with one hasher.
func NewSIMDOracle() *SIMDOracle {
	server := md5simd.NewServer()

	return &SIMDOracle{
		server: server,
		hasher: server.NewHash(),
	}
}

// Sum implements Oracle. It panics if the hasher rejects the write,
// which only happens after Close.
func (o *SIMDOracle) Sum(msg []byte, out *[digest.Size]byte) {
	o.hasher.Reset()
	if _, err := o.hasher.Write(msg); err != nil {
		panic(fmt.Sprintf("md5-simd oracle: %v", err))
	}
	o.hasher.Sum(out[:0])
}

// Close releases the hasher and stops the server.
func (o *SIMDOracle) Close() {
	o.hasher.Close()
	o.server.Close()
}

// OracleNames lists the library oracles that can be added as candidates.
func OracleNames() []string {
	return []string{OracleCryptoMD5, OracleMD5SIMD}
}

// NewOracle returns the named oracle and a function releasing it.
func NewOracle(name string) (Oracle, func(), error) {
	switch name {
	case OracleCryptoMD5:
		return CryptoMD5, func() {}, nil
	case OracleMD5SIMD:
		o := NewSIMDOracle()

		return o, o.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown oracle %q (known: %v)",
			name, OracleNames())
	}
}

// Candidates assembles the candidate list: the crypto/md5 baseline first,
// then the named library oracles, then the named kernels. The returned
// cleanup function releases any oracle resources.
func Candidates(kernelNames, oracleNames []string) ([]Candidate, func(), error) {
	kernels, err := kernel.Lookup(kernelNames...)
	if err != nil {
		return nil, nil, err
	}

	candidates := []Candidate{BaselineCandidate(OracleCryptoMD5, CryptoMD5)}

	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, name := range lo.Uniq(oracleNames) {
		if name == OracleCryptoMD5 {
			continue
		}

		o, closeFn, err := NewOracle(name)
		if err != nil {
			cleanup()

			return nil, nil, err
		}

		closers = append(closers, closeFn)
		candidates = append(candidates, OracleCandidate(name, o))
	}

	candidates = append(candidates, lo.Map(kernels,
		func(k kernel.Kernel, _ int) Candidate { return KernelCandidate(k) },
	)...)

	return candidates, cleanup, nil
}
