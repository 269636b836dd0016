package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	appointmentserrors "tably/internal/appointments/errors"
	"tably/internal/appointments/repository"
	"tably/internal/appointments/validator"
	"tably/internal/notifications"
	"tably/pkg/config"
	apperrors "tably/pkg/errors"
	"tably/pkg/model"
	"tably/pkg/sanitizer"
	"tably/pkg/timeutil"
)

// AvailabilityChecker is the slice of the availability service the
// orchestrator needs for its pre-assignment checks.
type AvailabilityChecker interface {
	IsBlocked(ctx context.Context, venueID, date string) bool
	FindSlotContaining(ctx context.Context, venueID string, weekday int, clock string) *model.TimeSlot
	CandidateTables(ctx context.Context, venueID string, partySize int) []*model.Table
}

type AppointmentService interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	Cancel(ctx context.Context, id, reason string) (bool, error)
	GetByID(ctx context.Context, id string) (*model.Appointment, error)
	GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Appointment, int64, error)
	GetByVenueAndDate(ctx context.Context, venueID, date string) ([]*model.Appointment, error)
}

type appointmentService struct {
	repo         repository.AppointmentRepository
	lockRepo     repository.AppointmentLockRepository
	availability AvailabilityChecker
	validator    *validator.AppointmentValidator
	notifier     notifications.Notifier
	cfg          *config.Config
}

func NewAppointmentService(
	repo repository.AppointmentRepository,
	lockRepo repository.AppointmentLockRepository,
	availability AvailabilityChecker,
	validator *validator.AppointmentValidator,
	notifier notifications.Notifier,
	cfg *config.Config,
) AppointmentService {
	return &appointmentService{
		repo:         repo,
		lockRepo:     lockRepo,
		availability: availability,
		validator:    validator,
		notifier:     notifier,
		cfg:          cfg,
	}
}

// Create validates the request, verifies the venue is open and the time
// falls inside an operating window, then assigns a table under an advisory
// lock so two requests cannot claim the same table for the same time.
func (s *appointmentService) Create(ctx context.Context, appointment *model.Appointment) error {
	s.sanitize(appointment)
	s.applyDefaults(appointment)
	if err := s.validate(appointment); err != nil {
		return err
	}

	if s.availability.IsBlocked(ctx, appointment.VenueID, appointment.Date) {
		return apperrors.Unprocessable("Venue is closed on the requested date")
	}

	weekday, err := timeutil.Weekday(appointment.Date)
	if err != nil {
		return apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	slot := s.availability.FindSlotContaining(ctx, appointment.VenueID, weekday, appointment.Time)
	if slot == nil {
		return apperrors.Unprocessable("Requested time is outside the venue's operating hours")
	}

	candidates := s.availability.CandidateTables(ctx, appointment.VenueID, appointment.PartySize)
	if len(candidates) == 0 {
		return apperrors.Unprocessable(fmt.Sprintf("No table accommodates a party of %d", appointment.PartySize))
	}

	// Advisory lock serializes the check-then-insert window for this slot.
	lockID, err := s.acquireSlotLock(ctx, appointment.VenueID, appointment.Date, appointment.Time)
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := s.releaseSlotLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		table, err := s.assignTable(sessCtx, appointment, candidates)
		if err != nil {
			return err
		}

		now := time.Now().UTC().Truncate(time.Millisecond)
		appointment.TableID = table.ID
		appointment.Status = model.StatusConfirmed
		appointment.ConfirmedAt = &now
		appointment.ConfirmationCode = newConfirmationCode(appointment.Date)

		if err := s.repo.Create(sessCtx, appointment); err != nil {
			if errors.Is(err, appointmentserrors.ErrSlotTaken) {
				return apperrors.Conflict("Table was just reserved for this time. Please pick another time.")
			}
			return apperrors.Internal("Failed to create appointment", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create appointment",
			"venue_id", appointment.VenueID,
			"date", appointment.Date,
			"time", appointment.Time,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Appointment created successfully",
		"id", appointment.ID,
		"venue_id", appointment.VenueID,
		"table_id", appointment.TableID,
		"date", appointment.Date,
		"time", appointment.Time,
		"party_size", appointment.PartySize,
	)

	s.notifyAsync(appointment, s.notifier.AppointmentConfirmed)
	return nil
}

// assignTable picks the table for the request inside the transaction. A
// caller-chosen table must fit the party and be free; otherwise the first
// free candidate wins, in capacity/surcharge/position order.
func (s *appointmentService) assignTable(ctx context.Context, appointment *model.Appointment, candidates []*model.Table) (*model.Table, error) {
	existing, err := s.repo.FindActiveByVenueDateTime(ctx, appointment.VenueID, appointment.Date, appointment.Time)
	if err != nil {
		return nil, apperrors.Internal("Failed to check existing appointments", err)
	}

	busy := make(map[string]bool, len(existing))
	for _, a := range existing {
		busy[a.TableID] = true
	}

	if appointment.TableID != "" {
		for _, table := range candidates {
			if table.ID != appointment.TableID {
				continue
			}
			if busy[table.ID] {
				return nil, apperrors.Conflict("Requested table is already reserved for this time")
			}
			return table, nil
		}
		return nil, apperrors.Unprocessable("Requested table does not accommodate this party size")
	}

	for _, table := range candidates {
		if !busy[table.ID] {
			return table, nil
		}
	}
	return nil, apperrors.Conflict("No table is available for the requested time")
}

// Cancel moves an appointment to cancelled. It reports false without
// touching the record when the appointment is missing or already in a
// terminal status, so repeated cancellations are harmless.
func (s *appointmentService) Cancel(ctx context.Context, id, reason string) (bool, error) {
	if id == "" {
		return false, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentserrors.ErrNotFound) || errors.Is(err, appointmentserrors.ErrInvalidID) {
			return false, nil
		}
		return false, apperrors.Internal("Failed to retrieve appointment", err)
	}

	if existing.IsTerminal() {
		return false, nil
	}

	reason = sanitizer.TrimAndNormalize(reason)
	updated, err := s.repo.UpdateStatus(ctx, id, model.StatusCancelled, reason)
	if err != nil {
		s.cfg.Log.Error("Failed to cancel appointment", "id", id, "error", err)
		return false, apperrors.Internal("Failed to cancel appointment", err)
	}

	s.cfg.Log.Info("Appointment cancelled",
		"id", id,
		"venue_id", updated.VenueID,
		"reason", reason,
	)

	s.notifyAsync(updated, s.notifier.AppointmentCancelled)
	return true, nil
}

func (s *appointmentService) GetByID(ctx context.Context, id string) (*model.Appointment, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Appointment ID cannot be empty")
	}

	appointment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Appointment", id)
		}
		if errors.Is(err, appointmentserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid appointment ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve appointment", err)
	}

	return appointment, nil
}

func (s *appointmentService) GetByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Appointment, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.InvalidInput("User ID cannot be empty")
	}

	var count int64
	var appointments []*model.Appointment
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByUser(ctx, userID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count appointments by user", "user_id", userID, "error", errCount)
			errCount = apperrors.Internal("Failed to count appointments", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		appointments, errFind = s.repo.FindByUser(ctx, userID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list appointments by user", "user_id", userID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve appointments", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return appointments, count, nil
}

func (s *appointmentService) GetByVenueAndDate(ctx context.Context, venueID, date string) ([]*model.Appointment, error) {
	if venueID == "" {
		return nil, apperrors.InvalidInput("Venue ID cannot be empty")
	}
	if _, err := timeutil.ParseDate(date); err != nil {
		return nil, apperrors.InvalidInput("Date must be in YYYY-MM-DD format")
	}

	appointments, err := s.repo.FindByVenueAndDate(ctx, venueID, date)
	if err != nil {
		s.cfg.Log.Error("Failed to list appointments by venue and date",
			"venue_id", venueID,
			"date", date,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve appointments", err)
	}

	return appointments, nil
}

// --- Helpers ---

func (s *appointmentService) sanitize(a *model.Appointment) {
	a.GuestName = sanitizer.NormalizeName(a.GuestName)
	a.GuestPhone = sanitizer.NormalizePhone(a.GuestPhone)
	a.GuestEmail = sanitizer.NormalizeEmail(a.GuestEmail)
	a.SpecialRequests = sanitizer.TrimAndNormalize(a.SpecialRequests)
}

func (s *appointmentService) applyDefaults(a *model.Appointment) {
	if a.DurationMinutes <= 0 {
		a.DurationMinutes = s.cfg.DefaultDurationMinutes
	}
	if a.Status == "" {
		a.Status = model.StatusPending
	}
}

func (s *appointmentService) validate(a *model.Appointment) error {
	if err := s.validator.Validate(a); err != nil {
		s.cfg.Log.Warn("Appointment validation failed", "error", err)
		return apperrors.Validation("Appointment validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// acquireSlotLock creates an advisory lock for one venue/date/time slot.
// Returns the lock ID if successful, or a conflict error if another request
// holds the slot.
func (s *appointmentService) acquireSlotLock(ctx context.Context, venueID, date, clock string) (string, error) {
	lockID := repository.SlotLockID(venueID, date, timeutil.MinutesOfDay(clock))

	lock := &model.AppointmentLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.SlotLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This time slot is currently being reserved by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire slot lock", err)
	}

	return lockID, nil
}

func (s *appointmentService) releaseSlotLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

// notifyAsync publishes the event off the request path with a detached
// context so the reservation outcome never depends on the broker.
func (s *appointmentService) notifyAsync(appointment *model.Appointment, publish func(context.Context, *model.Appointment)) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.cfg.NotificationTimeout)
		defer cancel()
		publish(ctx, appointment)
	}()
}

const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// newConfirmationCode builds a guest-facing reference like
// RSV-20260217-K7M2QX. The alphabet omits easily confused characters.
func newConfirmationCode(date string) string {
	compact := strings.ReplaceAll(date, "-", "")

	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// crypto/rand only fails when the platform source is broken.
			n = big.NewInt(int64(time.Now().UnixNano() % int64(len(codeAlphabet))))
		}
		suffix[i] = codeAlphabet[n.Int64()]
	}

	return fmt.Sprintf("RSV-%s-%s", compact, suffix)
}
