package dinit

import "testing"

func TestServiceStateString(t *testing.T) {
	tests := []struct {
		state ServiceState
		want  string
	}{
		{StatePending, "pending"},
		{StateStarting, "starting"},
		{StateReady, "ready"},
		{StateFailed, "failed"},
		{StateSkipped, "skipped"},
		{ServiceState(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("ServiceState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestServiceStateTerminal(t *testing.T) {
	terminal := map[ServiceState]bool{
		StatePending:  false,
		StateStarting: false,
		StateReady:    true,
		StateFailed:   true,
		StateSkipped:  true,
	}

	for state, want := range terminal {
		if got := state.Terminal(); got != want {
			t.Errorf("%v.Terminal() = %v, want %v", state, got, want)
		}
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, kind := range []Kind{KindProcess, KindScripted, KindInternal} {
		got, ok := KindFromString(kind.String())
		if !ok || got != kind {
			t.Errorf("KindFromString(%q) = %v, %v", kind.String(), got, ok)
		}
	}
	if _, ok := KindFromString("daemon"); ok {
		t.Error("KindFromString accepted an unknown type")
	}
	if got, ok := KindFromString("target"); !ok || got != KindInternal {
		t.Errorf("KindFromString(target) = %v, %v, want internal", got, ok)
	}
}
