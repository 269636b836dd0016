package validator

import (
	"strings"
	"testing"

	"tably/pkg/logger"
	"tably/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.ERROR, Service: "test"})
}

func validAppointment() *model.Appointment {
	return &model.Appointment{
		VenueID:   "507f1f77bcf86cd799439011",
		UserID:    "user123",
		Date:      "2026-02-17",
		Time:      "19:00",
		PartySize: 2,
		GuestName: "Dana Levi",
		Status:    model.StatusPending,
	}
}

func TestValidate_Accepts(t *testing.T) {
	v := NewAppointmentValidator(testLogger())

	a := validAppointment()
	a.GuestPhone = "+14155551234"
	a.GuestEmail = "dana@example.com"
	a.DurationMinutes = 90

	if err := v.Validate(a); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	v := NewAppointmentValidator(testLogger())

	cases := map[string]struct {
		mutate func(a *model.Appointment)
		field  string
	}{
		"missing venue":      {func(a *model.Appointment) { a.VenueID = "" }, "VenueID"},
		"short venue id":     {func(a *model.Appointment) { a.VenueID = "abc" }, "VenueID"},
		"european date":      {func(a *model.Appointment) { a.Date = "17.02.2026" }, "Date"},
		"clock with seconds": {func(a *model.Appointment) { a.Time = "19:00:00" }, "Time"},
		"clock out of range": {func(a *model.Appointment) { a.Time = "25:00" }, "Time"},
		"party too large":    {func(a *model.Appointment) { a.PartySize = 101 }, "PartySize"},
		"local phone":        {func(a *model.Appointment) { a.GuestPhone = "055-1234567" }, "GuestPhone"},
		"bad email":          {func(a *model.Appointment) { a.GuestEmail = "not-an-email" }, "GuestEmail"},
		"unknown status":     {func(a *model.Appointment) { a.Status = "waiting" }, "Status"},
		"short duration":     {func(a *model.Appointment) { a.DurationMinutes = 5 }, "DurationMinutes"},
	}

	for name, tc := range cases {
		a := validAppointment()
		tc.mutate(a)

		err := v.Validate(a)
		if err == nil {
			t.Errorf("%s: expected validation error", name)
			continue
		}
		if !strings.Contains(err.Error(), tc.field) {
			t.Errorf("%s: error %q does not mention field %s", name, err, tc.field)
		}
	}
}
