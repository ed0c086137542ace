package kernel

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weiihann/md5bench/digest"
)

var golden = []struct {
	in   string
	want string
}{
	{"", "d41d8cd98f00b204e9800998ecf8427e"},
	{"a", "0cc175b9c0f1b6a831c399e269772661"},
	{"abc", "900150983cd24fb0d6963f7d28e17f72"},
	{"abcdefghij", "a925576942e94b2ef57a066101b48876"},
	{"Discard medicine more than two years old.", "d747fc1719c7eacb84058196cfe56d57"},
	{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "014842d480b571495a4a0363793f7367"},
	{"How can you write a big system without C++?  -Paul Glick", "132f7619d33b523b1d9e5bd8e0928355"},
	{
		"The fugacity of a constituent in a mixture of gases at a given temperature is proportional to its mole fraction.  Lewis-Randall Rule",
		"72c2ed7592debca1c90fc0100f931a2f",
	},
}

func TestGolden(t *testing.T) {
	for _, k := range All() {
		t.Run(k.Name, func(t *testing.T) {
			e := digest.New(k.Compress)
			for _, g := range golden {
				sum := e.Sum([]byte(g.in))
				require.Equal(t, g.want, hex.EncodeToString(sum[:]), "input %q", g.in)
			}
		})
	}
}

func TestMatchesCryptoMD5(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	buf := make([]byte, 320)
	rng.Read(buf)

	for _, k := range All() {
		t.Run(k.Name, func(t *testing.T) {
			e := digest.New(k.Compress)
			for n := 0; n <= len(buf); n++ {
				require.Equal(t, md5.Sum(buf[:n]), e.Sum(buf[:n]), "length %d", n)
			}
		})
	}
}

func TestSingleBlockAgreement(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	var block [digest.BlockSize]byte

	for i := 0; i < 200; i++ {
		rng.Read(block[:])
		start := digest.State{A: rng.Uint32(), B: rng.Uint32(), C: rng.Uint32(), D: rng.Uint32()}

		want := start
		blockStd(&want, &block)

		for _, k := range All() {
			got := start
			k.Compress(&got, &block)
			require.Equal(t, want, got, "kernel %s, iteration %d", k.Name, i)
		}
	}
}

func TestLookup(t *testing.T) {
	ks, err := Lookup("gopt", "std", "gopt")
	require.NoError(t, err)
	require.Len(t, ks, 2)
	require.Equal(t, "gopt", ks[0].Name)
	require.Equal(t, "std", ks[1].Name)

	_, err = Lookup("std", "nope")
	require.ErrorContains(t, err, `unknown kernel "nope"`)
}

func TestNames(t *testing.T) {
	require.Equal(t, []string{"std", "unrolled", "gopt", "ghopt", "ondemand"}, Names())
}

func BenchmarkKernels(b *testing.B) {
	var block [digest.BlockSize]byte
	rand.New(rand.NewSource(1)).Read(block[:])

	for _, k := range All() {
		b.Run(k.Name, func(b *testing.B) {
			var s digest.State
			s.Reset()
			b.SetBytes(digest.BlockSize)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				k.Compress(&s, &block)
			}
		})
	}
}
