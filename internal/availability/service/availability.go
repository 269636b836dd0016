// Package service implements the availability calculator: it combines
// operating windows, closures, table capacities and the day's active
// appointments into the set of bookable times for a party.
package service

import (
	"context"
	"sort"

	catalogrepo "tably/internal/catalog/repository"
	"tably/pkg/config"
	apperrors "tably/pkg/errors"
	"tably/pkg/model"
	"tably/pkg/timeutil"
)

// Rejection reasons surfaced when no times are available.
const (
	ReasonClosed  = "closed"
	ReasonNoSlots = "no slots"
	ReasonNoFit   = "no fit"
)

// Result is the outcome of an availability query. Times is sorted ascending;
// when it is empty, Reason explains why.
type Result struct {
	Times  []string `json:"times"`
	Reason string   `json:"reason,omitempty"`
}

// AppointmentSource is the slice of the appointment ledger the calculator
// needs: the active appointments forming one day's conflict universe.
type AppointmentSource interface {
	FindActiveByVenueAndDate(ctx context.Context, venueID, date string) ([]*model.Appointment, error)
}

type AvailabilityService interface {
	GetAvailableTimes(ctx context.Context, venueID, date string, partySize int) (*Result, error)

	// Sub-checks shared with the appointment orchestrator.
	IsBlocked(ctx context.Context, venueID, date string) bool
	FindSlotContaining(ctx context.Context, venueID string, weekday int, clock string) *model.TimeSlot
	CandidateTables(ctx context.Context, venueID string, partySize int) []*model.Table
}

type availabilityService struct {
	slots        catalogrepo.TimeSlotRepository
	tables       catalogrepo.TableRepository
	blockedDates catalogrepo.BlockedDateRepository
	appointments AppointmentSource
	cfg          *config.Config
}

func NewAvailabilityService(
	slots catalogrepo.TimeSlotRepository,
	tables catalogrepo.TableRepository,
	blockedDates catalogrepo.BlockedDateRepository,
	appointments AppointmentSource,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		slots:        slots,
		tables:       tables,
		blockedDates: blockedDates,
		appointments: appointments,
		cfg:          cfg,
	}
}

func (s *availabilityService) GetAvailableTimes(ctx context.Context, venueID, date string, partySize int) (*Result, error) {
	if venueID == "" {
		return nil, apperrors.InvalidInput("Venue ID cannot be empty")
	}
	if partySize < 1 {
		return nil, apperrors.InvalidInput("Party size must be at least 1")
	}

	weekday, err := timeutil.Weekday(date)
	if err != nil {
		return nil, apperrors.InvalidInput("Date must be an ISO calendar date (YYYY-MM-DD)")
	}

	if s.IsBlocked(ctx, venueID, date) {
		return &Result{Times: []string{}, Reason: ReasonClosed}, nil
	}

	slots := s.activeSlots(ctx, venueID, weekday)
	if len(slots) == 0 {
		return &Result{Times: []string{}, Reason: ReasonNoSlots}, nil
	}

	tables := s.CandidateTables(ctx, venueID, partySize)
	if len(tables) == 0 {
		return &Result{Times: []string{}, Reason: ReasonNoFit}, nil
	}

	day := s.loadDay(ctx, venueID, date)

	available := make(map[int]struct{})
	for _, slot := range slots {
		s.collectSlotTimes(slot, tables, day, partySize, available)
	}

	minutes := make([]int, 0, len(available))
	for m := range available {
		minutes = append(minutes, m)
	}
	sort.Ints(minutes)

	times := make([]string, len(minutes))
	for i, m := range minutes {
		times[i] = timeutil.ClockOfMinutes(m)
	}

	return &Result{Times: times}, nil
}

// collectSlotTimes steps through one operating window from start (inclusive)
// to end (exclusive) and records the times where the slot caps hold and at
// least one candidate table is free.
func (s *availabilityService) collectSlotTimes(slot *model.TimeSlot, tables []*model.Table, day *dayOccupancy, partySize int, out map[int]struct{}) {
	start, end := slot.Bounds()
	if slot.StepMinutes <= 0 || start >= end {
		return
	}

	for t := start; t < end; t += slot.StepMinutes {
		if day.reservationsAt(t) >= slot.MaxReservations {
			continue
		}
		if slot.MaxGuests != nil && day.guestsAt(t)+partySize > *slot.MaxGuests {
			continue
		}
		if day.anyTableFree(tables, t) {
			out[t] = struct{}{}
		}
	}
}

// IsBlocked reports whether a closure covers the date. A failed catalog read
// is logged and treated as no closure.
func (s *availabilityService) IsBlocked(ctx context.Context, venueID, date string) bool {
	blocked, err := s.blockedDates.FindCovering(ctx, venueID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to read blocked dates, treating as open",
			"venue_id", venueID,
			"date", date,
			"error", err,
		)
		return false
	}
	return len(blocked) > 0
}

// FindSlotContaining returns an active operating window whose [start, end)
// range contains the clock time, or nil.
func (s *availabilityService) FindSlotContaining(ctx context.Context, venueID string, weekday int, clock string) *model.TimeSlot {
	minutes := timeutil.MinutesOfDay(clock)
	for _, slot := range s.activeSlots(ctx, venueID, weekday) {
		if slot.Contains(minutes) {
			return slot
		}
	}
	return nil
}

// CandidateTables returns the tables that fit the party, in assignment
// preference order. A failed catalog read is logged and treated as no fit.
func (s *availabilityService) CandidateTables(ctx context.Context, venueID string, partySize int) []*model.Table {
	tables, err := s.tables.FindCandidates(ctx, venueID, partySize)
	if err != nil {
		s.cfg.Log.Error("Failed to read candidate tables",
			"venue_id", venueID,
			"party_size", partySize,
			"error", err,
		)
		return nil
	}
	return tables
}

func (s *availabilityService) activeSlots(ctx context.Context, venueID string, weekday int) []*model.TimeSlot {
	slots, err := s.slots.FindActiveByVenueAndWeekday(ctx, venueID, weekday)
	if err != nil {
		s.cfg.Log.Error("Failed to read time slots",
			"venue_id", venueID,
			"weekday", weekday,
			"error", err,
		)
		return nil
	}
	return slots
}

// dayOccupancy indexes one day's active appointments by their recorded start
// time. Conflicts are tested by time-point equality, not interval overlap.
type dayOccupancy struct {
	reservations map[int]int
	guests       map[int]int
	tableBusy    map[string]map[int]bool
}

func (s *availabilityService) loadDay(ctx context.Context, venueID, date string) *dayOccupancy {
	appointments, err := s.appointments.FindActiveByVenueAndDate(ctx, venueID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to read appointments for availability",
			"venue_id", venueID,
			"date", date,
			"error", err,
		)
		appointments = nil
	}
	return newDayOccupancy(appointments)
}

func newDayOccupancy(appointments []*model.Appointment) *dayOccupancy {
	day := &dayOccupancy{
		reservations: make(map[int]int),
		guests:       make(map[int]int),
		tableBusy:    make(map[string]map[int]bool),
	}

	for _, a := range appointments {
		t := timeutil.MinutesOfDay(a.Time)
		day.reservations[t]++
		day.guests[t] += a.PartySize
		if a.TableID != "" {
			if day.tableBusy[a.TableID] == nil {
				day.tableBusy[a.TableID] = make(map[int]bool)
			}
			day.tableBusy[a.TableID][t] = true
		}
	}

	return day
}

func (d *dayOccupancy) reservationsAt(minutes int) int {
	return d.reservations[minutes]
}

func (d *dayOccupancy) guestsAt(minutes int) int {
	return d.guests[minutes]
}

func (d *dayOccupancy) anyTableFree(tables []*model.Table, minutes int) bool {
	for _, table := range tables {
		if !d.tableBusy[table.ID][minutes] {
			return true
		}
	}
	return false
}
