package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	appointmentRepo "carebook/database/repository/appointment"
	providerRepo "carebook/database/repository/provider"
	serviceRepo "carebook/database/repository/service"
	"carebook/models"
	"carebook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReminderScheduler enqueues a reminder for a freshly confirmed appointment.
// Scheduling is best-effort; a failure never fails the booking.
type ReminderScheduler interface {
	ScheduleAppointmentReminder(appt *models.Appointment) error
}

// DefaultBookingService implements the hold → confirm reservation protocol
// over a hold store and the persistent repositories.
type DefaultBookingService struct {
	Services     serviceRepo.ServiceRepository
	Providers    providerRepo.ProviderRepository
	Appointments appointmentRepo.AppointmentRepository
	Holds        HoldStore
	Reminders    ReminderScheduler // optional

	// Now is a clock seam for tests; nil means time.Now.
	Now func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// PlaceHold claims a (serviceID, slot) key for the requesting client. The
// hold is advisory: slot legality was already filtered by the availability
// generator, and concurrent holds on the same key are resolved at confirm
// time, not here.
func (s *DefaultBookingService) PlaceHold(ctx context.Context, req HoldRequest) (*models.BookingHold, error) {
	details := models.BookingHold{
		ProviderID: req.ProviderID,
		CustomerID: req.CustomerID,
		Metadata:   req.Metadata,
	}
	ttl := time.Duration(req.TTLSeconds) * time.Second
	return s.Holds.Create(ctx, req.ServiceID, req.Slot, ttl, details)
}

// ReleaseHold is the explicit cancellation path. Always safe to call, always
// idempotent.
func (s *DefaultBookingService) ReleaseHold(ctx context.Context, serviceID string, slot time.Time) (bool, error) {
	return s.Holds.Release(ctx, serviceID, slot)
}

// Confirm converts a held slot into a persisted appointment. Rejections carry
// a machine-readable reason code so the client can present a precise message
// and retry against a freshly generated availability list.
func (s *DefaultBookingService) Confirm(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	logger := utils.GetLogger()
	slot := req.Slot.UTC()

	svc, err := s.Services.GetByID(req.ServiceID)
	if err != nil {
		return nil, s.failInfra(ctx, req.ServiceID, slot, fmt.Errorf("confirm: failed to load service: %w", err))
	}
	if svc == nil {
		return nil, NewBookingError(ReasonServiceNotFound, fmt.Sprintf("service %s does not exist", req.ServiceID))
	}
	if !svc.Active {
		return nil, NewBookingError(ReasonServiceInactive, fmt.Sprintf("service %s is not active", svc.ID))
	}

	prov, err := s.resolveProvider(req, svc)
	if err != nil {
		// Domain rejections keep the hold; only infrastructure failures
		// trigger the best-effort release.
		if ReasonOf(err) == "" {
			return nil, s.failInfra(ctx, svc.ID, slot, err)
		}
		return nil, err
	}

	// Authoritative collision check: both concurrent holders reach this point,
	// and the storage layer's unique (serviceId, slotStart) constraint decides
	// the race on insert below.
	existing, err := s.Appointments.FindActiveByServiceAndStart(svc.ID, slot)
	if err != nil {
		return nil, s.failInfra(ctx, svc.ID, slot, fmt.Errorf("confirm: failed to check existing appointment: %w", err))
	}
	if existing != nil {
		return nil, NewBookingError(ReasonAlreadyBooked, "slot is already booked")
	}

	hold, err := s.Holds.Get(ctx, svc.ID, slot)
	if err != nil {
		return nil, s.failInfra(ctx, svc.ID, slot, fmt.Errorf("confirm: failed to load hold: %w", err))
	}
	if hold == nil || hold.TTLSeconds <= 0 {
		return nil, NewBookingError(ReasonHoldNotFound, "no live hold exists for this slot")
	}
	if hold.CustomerID != "" && hold.CustomerID != req.CustomerID {
		return nil, NewBookingError(ReasonHoldDifferentCustomer, "hold is reserved for a different customer")
	}
	if hold.ProviderID != "" && hold.ProviderID != prov.ID {
		return nil, NewBookingError(ReasonHoldDifferentProvider, "hold is reserved for a different provider")
	}

	appt := s.buildAppointment(req, svc, prov, slot)
	if err := s.Appointments.Create(appt); err != nil {
		if errors.Is(err, appointmentRepo.ErrDuplicateSlot) {
			return nil, NewBookingError(ReasonAlreadyBooked, "slot is already booked")
		}
		return nil, s.failInfra(ctx, svc.ID, slot, fmt.Errorf("confirm: failed to persist appointment: %w", err))
	}

	// Best-effort release: the persisted appointment itself is the true guard
	// against re-booking this key, so a failure here only delays reuse until
	// the TTL elapses.
	if _, err := s.Holds.Release(ctx, svc.ID, slot); err != nil {
		logger.Warn("confirm: failed to release hold after booking",
			zap.String("serviceID", svc.ID), zap.Time("slot", slot), zap.Error(err))
	}

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleAppointmentReminder(appt); err != nil {
			logger.Warn("confirm: failed to schedule reminder",
				zap.String("appointmentID", appt.ID), zap.Error(err))
		}
	}
	return appt, nil
}

// Cancel transitions an appointment to cancelled, freeing its slot for future
// availability generations.
func (s *DefaultBookingService) Cancel(ctx context.Context, appointmentID string) (*models.Appointment, error) {
	appt, err := s.Appointments.GetByID(appointmentID)
	if err != nil {
		return nil, fmt.Errorf("cancel: failed to load appointment: %w", err)
	}
	if appt == nil {
		return nil, NewBookingError(ReasonAppointmentNotFound, fmt.Sprintf("appointment %s does not exist", appointmentID))
	}
	if !appt.IsCancellable() {
		return nil, NewBookingError(ReasonNotCancellable, fmt.Sprintf("appointment in status %s cannot be cancelled", appt.Status))
	}
	if err := s.Appointments.UpdateStatus(appt.ID, models.AppointmentStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel: failed to update appointment status: %w", err)
	}
	appt.Status = models.AppointmentStatusCancelled
	appt.UpdatedAt = s.now().UTC()
	return appt, nil
}

// resolveProvider applies the explicit choice, or falls back to the sole
// qualified provider when exactly one exists.
func (s *DefaultBookingService) resolveProvider(req BookingRequest, svc *models.Service) (*models.Provider, error) {
	providerID := req.ProviderID
	if providerID == "" {
		if len(svc.ProviderIDs) != 1 {
			return nil, NewBookingError(ReasonProviderRequired, "a provider must be chosen for this service")
		}
		providerID = svc.ProviderIDs[0]
	}
	prov, err := s.Providers.GetByID(providerID)
	if err != nil {
		return nil, fmt.Errorf("confirm: failed to load provider: %w", err)
	}
	if prov == nil {
		return nil, NewBookingError(ReasonProviderRequired, fmt.Sprintf("provider %s does not exist", providerID))
	}
	return prov, nil
}

// buildAppointment freezes schedule and pricing from the service's current
// configuration. Later price or duration changes must not rewrite this record.
func (s *DefaultBookingService) buildAppointment(req BookingRequest, svc *models.Service, prov *models.Provider, slot time.Time) *models.Appointment {
	dur := resolveDuration(*svc, *prov)
	timeZone := req.TimeZone
	if timeZone == "" {
		timeZone = prov.TimeZone
	}
	now := s.now().UTC()
	return &models.Appointment{
		ID:         uuid.New().String(),
		Reference:  NewReference(),
		Status:     models.AppointmentStatusConfirmed,
		CustomerID: req.CustomerID,
		ProviderID: prov.ID,
		ServiceID:  svc.ID,
		Schedule: models.AppointmentSchedule{
			Start:           slot,
			End:             slot.Add(dur),
			TimeZone:        timeZone,
			BufferBefore:    svc.BufferBefore,
			BufferAfter:     svc.BufferAfter,
			DurationMinutes: int(dur.Minutes()),
		},
		Pricing: models.PricingSnapshot{
			Amount:          svc.Price.Amount,
			Currency:        svc.Price.Currency,
			DurationMinutes: int(dur.Minutes()),
			TaxRate:         svc.Price.TaxRate,
		},
		ClientNotes: req.ClientNotes,
		Metadata:    req.Metadata,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// failInfra attempts a best-effort hold release on an infrastructure failure
// so a transient error does not strand the slot for the full TTL, then
// returns the original error. Domain conflicts never release: the hold may
// belong to another client.
func (s *DefaultBookingService) failInfra(ctx context.Context, serviceID string, slot time.Time, err error) error {
	if _, relErr := s.Holds.Release(ctx, serviceID, slot); relErr != nil {
		utils.GetLogger().Warn("confirm: failed to release hold after error",
			zap.String("serviceID", serviceID), zap.Time("slot", slot), zap.Error(relErr))
	}
	return err
}
