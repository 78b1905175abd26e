package internaldefs

import (
	"testing"

	goStats "github.com/MrEthical07/goStats"
)

func TestDefsCoverEveryID(t *testing.T) {
	if len(CounterDefs) != len(goStats.CounterIDs()) {
		t.Fatalf("expected %d counter defs, got %d", len(goStats.CounterIDs()), len(CounterDefs))
	}
	for i, id := range goStats.CounterIDs() {
		if CounterDefs[i].ID != id {
			t.Fatalf("counter def %d: expected %s, got %s", i, id, CounterDefs[i].ID)
		}
		if CounterDefs[i].Help == "" {
			t.Fatalf("counter def %s has no help", id)
		}
	}

	if len(ProbeDefs) != len(goStats.ProbeIDs()) {
		t.Fatalf("expected %d probe defs, got %d", len(goStats.ProbeIDs()), len(ProbeDefs))
	}
	for i, id := range goStats.ProbeIDs() {
		if ProbeDefs[i].ID != id {
			t.Fatalf("probe def %d: expected %s, got %s", i, id, ProbeDefs[i].ID)
		}
	}
}

func TestDefNames(t *testing.T) {
	if got := CounterDefs[0].Name; got != "gostats_requests_without_session_total" {
		t.Fatalf("unexpected counter name %q", got)
	}
	for _, def := range ProbeDefs {
		if def.ID == goStats.ProbeCachedDataSize {
			if def.IsDuration {
				t.Fatal("cached data size must not be a duration")
			}
			if def.Name != "gostats_cached_data_size" {
				t.Fatalf("unexpected probe name %q", def.Name)
			}
		}
	}
}
