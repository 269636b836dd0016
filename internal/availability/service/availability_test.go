package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"tably/pkg/config"
	"tably/pkg/logger"
	"tably/pkg/model"
)

type mockTimeSlotRepo struct {
	findFunc func(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error)
}

func (m *mockTimeSlotRepo) FindActiveByVenueAndWeekday(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, venueID, weekday)
	}
	return nil, nil
}

type mockTableRepo struct {
	findFunc func(ctx context.Context, venueID string, partySize int) ([]*model.Table, error)
}

func (m *mockTableRepo) FindCandidates(ctx context.Context, venueID string, partySize int) ([]*model.Table, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, venueID, partySize)
	}
	return nil, nil
}

type mockBlockedDateRepo struct {
	findFunc func(ctx context.Context, venueID, date string) ([]*model.BlockedDate, error)
}

func (m *mockBlockedDateRepo) FindCovering(ctx context.Context, venueID, date string) ([]*model.BlockedDate, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, venueID, date)
	}
	return nil, nil
}

type mockAppointmentSource struct {
	findFunc func(ctx context.Context, venueID, date string) ([]*model.Appointment, error)
}

func (m *mockAppointmentSource) FindActiveByVenueAndDate(ctx context.Context, venueID, date string) ([]*model.Appointment, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, venueID, date)
	}
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{Level: logger.ERROR, Service: "test"}),
	}
}

func newTestService(slots *mockTimeSlotRepo, tables *mockTableRepo, blocked *mockBlockedDateRepo, appts *mockAppointmentSource) AvailabilityService {
	if slots == nil {
		slots = &mockTimeSlotRepo{}
	}
	if tables == nil {
		tables = &mockTableRepo{}
	}
	if blocked == nil {
		blocked = &mockBlockedDateRepo{}
	}
	if appts == nil {
		appts = &mockAppointmentSource{}
	}
	return NewAvailabilityService(slots, tables, blocked, appts, testConfig())
}

// 2026-02-17 is a Tuesday.
const tuesday = "2026-02-17"

func weekdaySlot(start, end string, step, maxReservations int) *model.TimeSlot {
	return &model.TimeSlot{
		ID:              "slot1",
		VenueID:         "venue1",
		DayOfWeek:       2,
		StartTime:       start,
		EndTime:         end,
		StepMinutes:     step,
		MaxReservations: maxReservations,
		Active:          true,
	}
}

func twoTables() []*model.Table {
	return []*model.Table{
		{ID: "t1", VenueID: "venue1", Label: "T1", MinCapacity: 2, MaxCapacity: 4, Reservable: true, Active: true},
		{ID: "t2", VenueID: "venue1", Label: "T2", MinCapacity: 4, MaxCapacity: 6, Reservable: true, Active: true, Position: 1},
	}
}

func TestGetAvailableTimes_BlockedDate(t *testing.T) {
	blocked := &mockBlockedDateRepo{
		findFunc: func(ctx context.Context, venueID, date string) ([]*model.BlockedDate, error) {
			return []*model.BlockedDate{
				{VenueID: venueID, StartDate: "2026-02-10", EndDate: "2026-02-20", Reason: "renovation"},
			}, nil
		},
	}

	svc := newTestService(nil, nil, blocked, nil)

	for _, partySize := range []int{1, 4, 12} {
		result, err := svc.GetAvailableTimes(context.Background(), "venue1", tuesday, partySize)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(result.Times) != 0 || result.Reason != ReasonClosed {
			t.Errorf("party %d: got times=%v reason=%q, want empty/closed", partySize, result.Times, result.Reason)
		}
	}
}

func TestGetAvailableTimes_NoSlots(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	result, err := svc.GetAvailableTimes(context.Background(), "venue1", tuesday, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reason != ReasonNoSlots {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonNoSlots)
	}
}

func TestGetAvailableTimes_NoFittingTable(t *testing.T) {
	slots := &mockTimeSlotRepo{
		findFunc: func(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error) {
			return []*model.TimeSlot{weekdaySlot("18:00", "21:00", 30, 3)}, nil
		},
	}
	tables := &mockTableRepo{
		findFunc: func(ctx context.Context, venueID string, partySize int) ([]*model.Table, error) {
			return nil, nil
		},
	}

	svc := newTestService(slots, tables, nil, nil)

	result, err := svc.GetAvailableTimes(context.Background(), "venue1", tuesday, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Reason != ReasonNoFit {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonNoFit)
	}
}

func TestGetAvailableTimes_EnumeratesStepsEndExclusive(t *testing.T) {
	slots := &mockTimeSlotRepo{
		findFunc: func(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error) {
			return []*model.TimeSlot{weekdaySlot("09:00", "11:00", 30, 2)}, nil
		},
	}
	tables := &mockTableRepo{
		findFunc: func(ctx context.Context, venueID string, partySize int) ([]*model.Table, error) {
			return twoTables(), nil
		},
	}

	svc := newTestService(slots, tables, nil, nil)

	result, err := svc.GetAvailableTimes(context.Background(), "venue1", tuesday, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "09:30", "10:00", "10:30"}
	if !reflect.DeepEqual(result.Times, want) {
		t.Errorf("times = %v, want %v", result.Times, want)
	}
}

func TestGetAvailableTimes_SlotReservationCap(t *testing.T) {
	slots := &mockTimeSlotRepo{
		findFunc: func(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error) {
			return []*model.TimeSlot{weekdaySlot("18:00", "21:00", 60, 2)}, nil
		},
	}
	tables := &mockTableRepo{
		findFunc: func(ctx context.Context, venueID string, partySize int) ([]*model.Table, error) {
			return []*model.Table{
				{ID: "t1", MinCapacity: 1, MaxCapacity: 4, Reservable: true, Active: true},
				{ID: "t2", MinCapacity: 1, MaxCapacity: 4, Reservable: true, Active: true},
				{ID: "t3", MinCapacity: 1, MaxCapacity: 4, Reservable: true, Active: true},
			}, nil
		},
	}
	appts := &mockAppointmentSource{
		findFunc: func(ctx context.Context, venueID, date string) ([]*model.Appointment, error) {
			return []*model.Appointment{
				{TableID: "t1", Time: "19:00", PartySize: 2, Status: model.StatusConfirmed},
				{TableID: "t2", Time: "19:00", PartySize: 2, Status: model.StatusConfirmed},
			}, nil
		},
	}

	svc := newTestService(slots, tables, nil, appts)

	result, err := svc.GetAvailableTimes(context.Background(), "venue1", tuesday, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// t3 would be free at 19:00 but the slot cap of 2 is already reached.
	want := []string{"18:00", "20:00"}
	if !reflect.DeepEqual(result.Times, want) {
		t.Errorf("times = %v, want %v", result.Times, want)
	}
}

func TestGetAvailableTimes_GuestCap(t *testing.T) {
	maxGuests := 10
	slot := weekdaySlot("18:00", "20:00", 60, 5)
	slot.MaxGuests = &maxGuests

	slots := &mockTimeSlotRepo{
		findFunc: func(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error) {
			return []*model.TimeSlot{slot}, nil
		},
	}
	tables := &mockTableRepo{
		findFunc: func(ctx context.Context, venueID string, partySize int) ([]*model.Table, error) {
			return twoTables(), nil
		},
	}
	appts := &mockAppointmentSource{
		findFunc: func(ctx context.Context, venueID, date string) ([]*model.Appointment, error) {
			return []*model.Appointment{
				{TableID: "t9", Time: "18:00", PartySize: 8, Status: model.StatusConfirmed},
			}, nil
		},
	}

	svc := newTestService(slots, tables, nil, appts)

	// 8 guests seated at 18:00; a party of 4 would exceed the cap of 10.
	result, err := svc.GetAvailableTimes(context.Background(), "venue1", tuesday, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"19:00"}
	if !reflect.DeepEqual(result.Times, want) {
		t.Errorf("times = %v, want %v", result.Times, want)
	}

	// A party of 2 still fits under the cap.
	result, err = svc.GetAvailableTimes(context.Background(), "venue1", tuesday, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want = []string{"18:00", "19:00"}
	if !reflect.DeepEqual(result.Times, want) {
		t.Errorf("times = %v, want %v", result.Times, want)
	}
}

func TestGetAvailableTimes_AllCandidateTablesBusy(t *testing.T) {
	slots := &mockTimeSlotRepo{
		findFunc: func(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error) {
			return []*model.TimeSlot{weekdaySlot("18:00", "20:00", 60, 5)}, nil
		},
	}
	tables := &mockTableRepo{
		findFunc: func(ctx context.Context, venueID string, partySize int) ([]*model.Table, error) {
			return twoTables(), nil
		},
	}
	appts := &mockAppointmentSource{
		findFunc: func(ctx context.Context, venueID, date string) ([]*model.Appointment, error) {
			return []*model.Appointment{
				{TableID: "t1", Time: "18:00", PartySize: 2, Status: model.StatusConfirmed},
				{TableID: "t2", Time: "18:00", PartySize: 4, Status: model.StatusSeated},
			}, nil
		},
	}

	svc := newTestService(slots, tables, nil, appts)

	result, err := svc.GetAvailableTimes(context.Background(), "venue1", tuesday, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"19:00"}
	if !reflect.DeepEqual(result.Times, want) {
		t.Errorf("times = %v, want %v", result.Times, want)
	}
}

func TestGetAvailableTimes_FullScenario(t *testing.T) {
	// One Tuesday window 18:00-21:00, step 30, cap 3 per slot, two tables
	// that fit a party of 3 only via T1; no prior appointments.
	slots := &mockTimeSlotRepo{
		findFunc: func(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error) {
			if weekday != 2 {
				return nil, nil
			}
			return []*model.TimeSlot{weekdaySlot("18:00", "21:00", 30, 3)}, nil
		},
	}
	tables := &mockTableRepo{
		findFunc: func(ctx context.Context, venueID string, partySize int) ([]*model.Table, error) {
			var out []*model.Table
			for _, table := range twoTables() {
				if table.Fits(partySize) {
					out = append(out, table)
				}
			}
			return out, nil
		},
	}

	svc := newTestService(slots, tables, nil, nil)

	result, err := svc.GetAvailableTimes(context.Background(), "venue1", tuesday, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"18:00", "18:30", "19:00", "19:30", "20:00", "20:30"}
	if !reflect.DeepEqual(result.Times, want) {
		t.Errorf("times = %v, want %v", result.Times, want)
	}
}

func TestGetAvailableTimes_CatalogReadFailureTreatedAsEmpty(t *testing.T) {
	slots := &mockTimeSlotRepo{
		findFunc: func(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error) {
			return nil, errors.New("connection reset")
		},
	}

	svc := newTestService(slots, nil, nil, nil)

	result, err := svc.GetAvailableTimes(context.Background(), "venue1", tuesday, 2)
	if err != nil {
		t.Fatalf("read failure should not surface as an error, got: %v", err)
	}
	if result.Reason != ReasonNoSlots {
		t.Errorf("reason = %q, want %q", result.Reason, ReasonNoSlots)
	}
}

func TestGetAvailableTimes_InvalidInput(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	if _, err := svc.GetAvailableTimes(context.Background(), "venue1", "17-02-2026", 2); err == nil {
		t.Error("malformed date should be rejected")
	}
	if _, err := svc.GetAvailableTimes(context.Background(), "venue1", tuesday, 0); err == nil {
		t.Error("party size below 1 should be rejected")
	}
	if _, err := svc.GetAvailableTimes(context.Background(), "", tuesday, 2); err == nil {
		t.Error("empty venue id should be rejected")
	}
}

func TestFindSlotContaining(t *testing.T) {
	slots := &mockTimeSlotRepo{
		findFunc: func(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error) {
			return []*model.TimeSlot{weekdaySlot("18:00", "21:00", 30, 3)}, nil
		},
	}

	svc := newTestService(slots, nil, nil, nil)

	if slot := svc.FindSlotContaining(context.Background(), "venue1", 2, "19:15"); slot == nil {
		t.Error("19:15 lies inside the window and should match")
	}
	if slot := svc.FindSlotContaining(context.Background(), "venue1", 2, "21:00"); slot != nil {
		t.Error("window end is exclusive and should not match")
	}
	if slot := svc.FindSlotContaining(context.Background(), "venue1", 2, "17:59"); slot != nil {
		t.Error("times before the window should not match")
	}
}
