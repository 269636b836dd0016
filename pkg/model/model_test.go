package model

import "testing"

func TestStatusLifecycle(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusSeated, false},
		{StatusConfirmed, StatusSeated, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusPending, false},
		{StatusSeated, StatusCompleted, true},
		{StatusSeated, StatusConfirmed, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusNoShow, StatusConfirmed, false},
	}

	for _, tt := range tests {
		a := &Appointment{Status: tt.from}
		if got := a.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestIsActiveStatus(t *testing.T) {
	active := []string{StatusPending, StatusConfirmed, StatusSeated}
	for _, s := range active {
		if !IsActiveStatus(s) {
			t.Errorf("status %s should count as active", s)
		}
	}

	inactive := []string{StatusCompleted, StatusCancelled, StatusNoShow, ""}
	for _, s := range inactive {
		if IsActiveStatus(s) {
			t.Errorf("status %q should not count as active", s)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []string{StatusCompleted, StatusCancelled, StatusNoShow}
	for _, s := range terminal {
		a := &Appointment{Status: s}
		if !a.IsTerminal() {
			t.Errorf("status %s should be terminal", s)
		}
	}

	for _, s := range []string{StatusPending, StatusConfirmed, StatusSeated} {
		a := &Appointment{Status: s}
		if a.IsTerminal() {
			t.Errorf("status %s should not be terminal", s)
		}
	}
}

func TestTimeSlotContains(t *testing.T) {
	slot := &TimeSlot{StartTime: "09:00", EndTime: "11:00", StepMinutes: 30}

	if !slot.Contains(540) { // 09:00
		t.Error("window start should be contained")
	}
	if !slot.Contains(630) { // 10:30
		t.Error("mid-window time should be contained")
	}
	if slot.Contains(660) { // 11:00, end is exclusive
		t.Error("window end should be excluded")
	}
	if slot.Contains(510) { // 08:30
		t.Error("times before the window should not be contained")
	}
}

func TestTableFits(t *testing.T) {
	table := &Table{MinCapacity: 2, MaxCapacity: 4}

	for size, want := range map[int]bool{1: false, 2: true, 4: true, 5: false} {
		if got := table.Fits(size); got != want {
			t.Errorf("Fits(%d) = %v, want %v", size, got, want)
		}
	}
}

func TestBlockedDateCovers(t *testing.T) {
	b := &BlockedDate{StartDate: "2026-07-01", EndDate: "2026-07-14"}

	if !b.Covers("2026-07-01") || !b.Covers("2026-07-14") {
		t.Error("closure range ends should be inclusive")
	}
	if b.Covers("2026-06-30") || b.Covers("2026-07-15") {
		t.Error("dates outside the closure should not be covered")
	}
}
