package model

import "testing"

func TestStatusRoundTrip(t *testing.T) {
	statuses := []Status{
		StatusPending, StatusSetup, StatusBuild, StatusExecute,
		StatusPassed, StatusFailed, StatusDegraded,
	}

	for _, s := range statuses {
		if got := ParseStatus(s.String()); got != s {
			t.Errorf("ParseStatus(%q) = %v, want %v", s.String(), got, s)
		}
	}

	if got := ParseStatus("nonsense"); got != StatusPending {
		t.Errorf("unknown label parsed to %v", got)
	}
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status   Status
		terminal bool
		passing  bool
	}{
		{StatusPending, false, false},
		{StatusSetup, false, false},
		{StatusBuild, false, false},
		{StatusExecute, false, false},
		{StatusPassed, true, true},
		{StatusFailed, true, false},
		{StatusDegraded, true, true},
	}

	for _, c := range cases {
		if c.status.Terminal() != c.terminal {
			t.Errorf("%s: Terminal() = %v, want %v", c.status, c.status.Terminal(), c.terminal)
		}
		if c.status.Passing() != c.passing {
			t.Errorf("%s: Passing() = %v, want %v", c.status, c.status.Passing(), c.passing)
		}
	}
}
