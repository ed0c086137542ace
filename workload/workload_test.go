package workload

import (
	"bytes"
	"testing"
)

func smallConfig(seed int64) Config {
	return Config{Count: 2000, MinSize: 100, MaxSize: 300, Seed: seed}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := smallConfig(42)

	gen1 := NewGenerator(cfg)
	p1 := gen1.Packets()
	o1 := gen1.Permutation(len(p1))

	gen2 := NewGenerator(cfg)
	p2 := gen2.Packets()
	o2 := gen2.Permutation(len(p2))

	if len(p1) != len(p2) {
		t.Fatalf("packet counts differ: %d vs %d", len(p1), len(p2))
	}

	for i := range p1 {
		if !bytes.Equal(p1[i].Data, p2[i].Data) {
			t.Fatalf("packet %d differs for same seed", i)
		}
	}

	for i := range o1 {
		if o1[i] != o2[i] {
			t.Fatalf("order[%d] = %d vs %d for same seed", i, o1[i], o2[i])
		}
	}

	f1, err := Fingerprint(p1, o1)
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}
	f2, err := Fingerprint(p2, o2)
	if err != nil {
		t.Fatalf("fingerprint failed: %v", err)
	}

	if f1 != f2 {
		t.Errorf("fingerprints differ for same seed: %s vs %s", f1, f2)
	}
}

func TestGenerateSeedsDiffer(t *testing.T) {
	gen1 := NewGenerator(smallConfig(1))
	p1 := gen1.Packets()
	o1 := gen1.Permutation(len(p1))

	gen2 := NewGenerator(smallConfig(2))
	p2 := gen2.Packets()
	o2 := gen2.Permutation(len(p2))

	f1, _ := Fingerprint(p1, o1)
	f2, _ := Fingerprint(p2, o2)

	if f1 == f2 {
		t.Error("different seeds produced the same fingerprint")
	}
}

func TestPacketLengths(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"default range", Config{Count: 5000, MinSize: 100, MaxSize: 300, Seed: 3}},
		{"single size", Config{Count: 100, MinSize: 64, MaxSize: 65, Seed: 4}},
		{"includes empty", Config{Count: 500, MinSize: 0, MaxSize: 4, Seed: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packets := NewGenerator(tt.cfg).Packets()

			if len(packets) != tt.cfg.Count {
				t.Fatalf("packets = %d, want %d", len(packets), tt.cfg.Count)
			}

			for i, p := range packets {
				if p.Len() < tt.cfg.MinSize || p.Len() >= tt.cfg.MaxSize {
					t.Fatalf("packet %d length %d outside [%d, %d)",
						i, p.Len(), tt.cfg.MinSize, tt.cfg.MaxSize)
				}
			}
		})
	}
}

func TestPacketLengthsCoverRange(t *testing.T) {
	packets := NewGenerator(Config{Count: 20000, MinSize: 100, MaxSize: 300, Seed: 9}).Packets()

	sum := Summarize(packets, 9)
	if sum.MinLen != 100 {
		t.Errorf("min length = %d, want 100", sum.MinLen)
	}
	if sum.MaxLen != 299 {
		t.Errorf("max length = %d, want 299", sum.MaxLen)
	}
}

func TestPacketsNotAliased(t *testing.T) {
	packets := NewGenerator(smallConfig(8)).Packets()

	before := append([]byte(nil), packets[1].Data...)
	for i := range packets[0].Data {
		packets[0].Data[i] ^= 0xff
	}

	if !bytes.Equal(before, packets[1].Data) {
		t.Error("writing packet 0 changed packet 1")
	}
}

func TestPermutationValid(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 10000} {
		order := NewGenerator(smallConfig(int64(n))).Permutation(n)
		if !IsPermutation(order, n) {
			t.Errorf("Permutation(%d) is not a permutation", n)
		}
	}
}

func TestPermutationShuffles(t *testing.T) {
	order := NewGenerator(smallConfig(6)).Permutation(1000)

	fixed := 0
	for i, v := range order {
		if i == v {
			fixed++
		}
	}

	// A uniform shuffle of 1000 elements has about one fixed point.
	if fixed > 20 {
		t.Errorf("%d fixed points, order looks unshuffled", fixed)
	}
}

func TestIsPermutation(t *testing.T) {
	tests := []struct {
		name  string
		order []int
		n     int
		want  bool
	}{
		{"identity", []int{0, 1, 2}, 3, true},
		{"shuffled", []int{2, 0, 1}, 3, true},
		{"empty", nil, 0, true},
		{"duplicate", []int{0, 0, 2}, 3, false},
		{"out of range", []int{0, 1, 3}, 3, false},
		{"negative", []int{-1, 0, 1}, 3, false},
		{"short", []int{0, 1}, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPermutation(tt.order, tt.n); got != tt.want {
				t.Errorf("IsPermutation(%v, %d) = %v, want %v",
					tt.order, tt.n, got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(1), false},
		{"zero count", Config{Count: 0, MinSize: 1, MaxSize: 2}, true},
		{"negative min", Config{Count: 1, MinSize: -1, MaxSize: 2}, true},
		{"empty range", Config{Count: 1, MinSize: 5, MaxSize: 5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	packets := []Packet{
		{Data: make([]byte, 10)},
		{Data: make([]byte, 3)},
		{Data: make([]byte, 7)},
	}

	sum := Summarize(packets, 5)
	want := Summary{Packets: 3, TotalBytes: 20, MinLen: 3, MaxLen: 10, Seed: 5}

	if sum != want {
		t.Errorf("Summarize = %+v, want %+v", sum, want)
	}
}
