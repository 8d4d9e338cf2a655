// Package booking implements the reservation lifecycle: create, delete
// and toggle-returned, plus the read-side listings the UI consumes.
package booking

import (
	"context"
	"fmt"
	"time"

	"cartbook/internal/availability"
	"cartbook/internal/config"
	"cartbook/internal/events"
	"cartbook/internal/metrics"
	"cartbook/internal/models"
	"cartbook/internal/projection"
	"cartbook/internal/timeslot"

	"github.com/rs/zerolog"
)

// Store is the storage contract the service depends on. Records come
// back ordered by start time ascending.
type Store interface {
	ListBookings(ctx context.Context) ([]models.BookingRecord, error)
	GetBooking(ctx context.Context, id string) (models.BookingRecord, error)
	CreateBooking(ctx context.Context, rec models.BookingRecord) (string, error)
	DeleteBooking(ctx context.Context, id string) error
	SetReturned(ctx context.Context, id string, returned bool) error
}

// EventPublisher receives lifecycle notifications after a mutation has
// been persisted.
type EventPublisher interface {
	PublishJSON(eventType string, payload any) error
}

// Service wires the availability engine, the storage collaborator and
// the deployment catalogs together.
type Service struct {
	store  Store
	engine *availability.Engine
	dep    config.Deployment
	loc    *time.Location
	bus    EventPublisher
	logger *zerolog.Logger
	now    func() time.Time
}

// NewService creates the lifecycle service for one deployment.
func NewService(store Store, engine *availability.Engine, dep config.Deployment, loc *time.Location, bus EventPublisher, logger *zerolog.Logger) *Service {
	return &Service{
		store:  store,
		engine: engine,
		dep:    dep,
		loc:    loc,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

// CreateInput carries the form fields for a new reservation. A nil End
// means a fixed two-hour slot starting at Start.
type CreateInput struct {
	Device  string
	Name    string
	Partner string
	Place   string
	Start   time.Time
	End     *time.Time
}

// Create validates the input, re-checks availability against the latest
// booking set and persists the reservation. The storage layer repeats
// the conflict check transactionally, so a stale snapshot cannot produce
// a double booking.
func (s *Service) Create(ctx context.Context, in CreateInput, owner string) (models.Booking, error) {
	if err := s.validate(&in); err != nil {
		return models.Booking{}, err
	}

	win, err := s.window(in)
	if err != nil {
		return models.Booking{}, err
	}

	bookings, err := s.snapshot(ctx)
	if err != nil {
		return models.Booking{}, err
	}

	if in.End == nil {
		if err := s.checkFixedSlot(bookings, in.Device, win); err != nil {
			return models.Booking{}, err
		}
	} else if blocking := s.engine.CheckWindow(bookings, in.Device, win); blocking != nil {
		return models.Booking{}, fmt.Errorf("%w: existing reservation at %s",
			models.ErrConflict, blocking.Date.Format("15:04"))
	}

	b := models.Booking{
		Device:   in.Device,
		Name:     in.Name,
		Partner:  in.Partner,
		Place:    in.Place,
		Date:     in.Start,
		EndTime:  in.End,
		Returned: false,
		Owner:    owner,
	}

	id, err := s.store.CreateBooking(ctx, b.ToRecord())
	if err != nil {
		return models.Booking{}, err
	}
	b.ID = id

	metrics.IncBookingCreated(b.Device)
	s.publish(events.TypeBookingCreated, b)
	s.logger.Info().
		Str("id", id).
		Str("device", b.Device).
		Str("owner", owner).
		Time("date", b.Date).
		Msg("reservation created")
	return b, nil
}

// Delete removes a booking permanently. The confirmation text must match
// the deployment's configured text exactly; this is deliberate friction,
// not a security control. Owned bookings may only be deleted by their
// owner.
func (s *Service) Delete(ctx context.Context, id, confirmation, actor string) error {
	if confirmation != s.dep.SafeDeleteText {
		return models.ErrConfirmation
	}

	rec, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if rec.Owner != "" && rec.Owner != actor {
		return models.ErrNotOwner
	}

	if err := s.store.DeleteBooking(ctx, id); err != nil {
		return err
	}

	metrics.IncBookingDeleted()
	s.publish(events.TypeBookingDeleted, map[string]string{"id": id, "actor": actor})
	s.logger.Info().Str("id", id).Str("actor", actor).Msg("reservation deleted")
	return nil
}

// ToggleReturned flips the returned flag. The current value is read back
// from storage at toggle time, so a stale caller view resolves to
// last-write-wins on the single boolean.
func (s *Service) ToggleReturned(ctx context.Context, id, actor string) (bool, error) {
	rec, err := s.store.GetBooking(ctx, id)
	if err != nil {
		return false, err
	}
	if rec.Owner != "" && rec.Owner != actor {
		return false, models.ErrNotOwner
	}

	next := !rec.Returned
	if err := s.store.SetReturned(ctx, id, next); err != nil {
		return false, err
	}

	metrics.IncReturnToggled()
	s.publish(events.TypeReturnToggled, map[string]any{"id": id, "returned": next})
	s.logger.Info().Str("id", id).Bool("returned", next).Msg("return flag toggled")
	return next, nil
}

// Availability returns the fixed openings with their availability for a
// device and date, computed over a fresh snapshot.
func (s *Service) Availability(ctx context.Context, device string, date time.Time) ([]availability.Opening, error) {
	bookings, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return s.engine.FixedSlots(bookings, device, date), nil
}

// Grouped returns the day-grouped booking list with the given lookback.
func (s *Service) Grouped(ctx context.Context, lookbackDays int) ([]projection.DayGroup, error) {
	bookings, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return projection.GroupByDate(bookings, lookbackDays, s.now().In(s.loc)), nil
}

// LastUsed returns the last-used projection over the full history,
// keyed by device. Devices from the catalog with no bookings at all are
// present with a nil value.
func (s *Service) LastUsed(ctx context.Context) (map[string]*models.Booking, error) {
	bookings, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	last := projection.LastUsedByDevice(bookings, s.now().In(s.loc))
	for _, device := range s.dep.Devices {
		if _, ok := last[device]; !ok {
			last[device] = nil
		}
	}
	return last, nil
}

// History returns every booking, ordered by start time. Used by the
// report export.
func (s *Service) History(ctx context.Context) ([]models.Booking, error) {
	return s.snapshot(ctx)
}

// publish sends a lifecycle event when a bus is configured. Delivery
// failures are logged and otherwise ignored; the mutation has already
// been persisted.
func (s *Service) publish(eventType string, payload any) {
	if s.bus == nil {
		return
	}
	if err := s.bus.PublishJSON(eventType, payload); err != nil {
		s.logger.Warn().Err(err).Str("type", eventType).Msg("event publish failed")
	}
}

// snapshot fetches the full current booking set, skipping malformed
// records rather than failing the listing.
func (s *Service) snapshot(ctx context.Context) ([]models.Booking, error) {
	recs, err := s.store.ListBookings(ctx)
	if err != nil {
		return nil, err
	}
	bookings, skipped := models.FromRecords(recs, s.loc)
	if skipped > 0 {
		s.logger.Warn().Int("skipped", skipped).Msg("malformed booking records excluded")
	}
	return bookings, nil
}

func (s *Service) validate(in *CreateInput) error {
	switch {
	case in.Device == "":
		return fmt.Errorf("%w: device is required", models.ErrValidation)
	case in.Name == "":
		return fmt.Errorf("%w: name is required", models.ErrValidation)
	case in.Partner == "":
		return fmt.Errorf("%w: partner is required", models.ErrValidation)
	case in.Start.IsZero():
		return fmt.Errorf("%w: date is required", models.ErrValidation)
	}

	if !s.dep.HasDevice(in.Device) {
		return fmt.Errorf("%w: unknown device %q", models.ErrValidation, in.Device)
	}

	// Devices with a fixed place override whatever the form sent.
	if forced := s.dep.PlaceFor(in.Device); forced != "" {
		in.Place = forced
	}
	if in.Place == "" {
		return fmt.Errorf("%w: place is required", models.ErrValidation)
	}
	if !s.dep.HasPlace(in.Place) {
		return fmt.Errorf("%w: unknown place %q", models.ErrValidation, in.Place)
	}
	return nil
}

func (s *Service) window(in CreateInput) (timeslot.Window, error) {
	if in.End == nil {
		return timeslot.FixedWindow(in.Start), nil
	}
	win, err := timeslot.NewWindow(in.Start, *in.End)
	if err != nil {
		return timeslot.Window{}, fmt.Errorf("%w: %v", models.ErrValidation, err)
	}
	return win, nil
}

// checkFixedSlot requires the candidate's label to be one of the
// configured openings and that opening to still be free.
func (s *Service) checkFixedSlot(bookings []models.Booking, device string, win timeslot.Window) error {
	label := win.Label()
	openings := s.engine.FixedSlots(bookings, device, win.Start)
	for _, o := range openings {
		if o.Label != label {
			continue
		}
		if !o.Available {
			return fmt.Errorf("%w: %s is already reserved", models.ErrConflict, label)
		}
		return nil
	}
	return fmt.Errorf("%w: %s is not a configured opening", models.ErrValidation, label)
}
