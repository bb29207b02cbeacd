package internaldefs

import (
	"strings"
	"testing"
)

func TestCounterDefsUnique(t *testing.T) {
	ids := map[uint16]bool{}
	names := map[string]bool{}
	for _, def := range CounterDefs {
		if ids[uint16(def.ID)] {
			t.Fatalf("duplicate id %d", def.ID)
		}
		if names[def.Name] {
			t.Fatalf("duplicate name %s", def.Name)
		}
		if !strings.HasPrefix(def.Name, "goidentity_") || !strings.HasSuffix(def.Name, "_total") {
			t.Fatalf("bad counter name %s", def.Name)
		}
		ids[uint16(def.ID)] = true
		names[def.Name] = true
	}
}

func TestCumulativeBuckets(t *testing.T) {
	got := CumulativeBuckets(NormalizeBuckets([]uint64{1, 2, 3}))
	want := [8]uint64{1, 3, 6, 6, 6, 6, 6, 6}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if len(HistogramBounds) != len(HistogramBoundSuffix) || len(HistogramBounds) != len(got) {
		t.Fatal("bucket bounds out of sync")
	}
}
