package order

import "testing"

func TestStatusAdvancesLinearly(t *testing.T) {
	if !StatusPending.CanAdvanceTo(StatusInProgress) {
		t.Fatal("pending should advance to in-progress")
	}
	if !StatusInProgress.CanAdvanceTo(StatusCompleted) {
		t.Fatal("in-progress should advance to completed")
	}
}

func TestStatusRejectsSkipAndRegression(t *testing.T) {
	cases := []struct {
		from, to Status
	}{
		{StatusPending, StatusCompleted},
		{StatusCompleted, StatusInProgress},
		{StatusInProgress, StatusPending},
		{StatusCompleted, StatusPending},
		{StatusPending, StatusPending},
	}
	for _, tc := range cases {
		if tc.from.CanAdvanceTo(tc.to) {
			t.Fatalf("transition %s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestStatusCompletedIsTerminal(t *testing.T) {
	if _, ok := StatusCompleted.Next(); ok {
		t.Fatal("completed should have no next state")
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusPending.Valid() || !StatusInProgress.Valid() || !StatusCompleted.Valid() {
		t.Fatal("known statuses should be valid")
	}
	if Status("cancelled").Valid() {
		t.Fatal("unknown status should be invalid")
	}
}
