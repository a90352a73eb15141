package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"carebook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var confirmSlot = time.Date(2025, 6, 7, 9, 0, 0, 0, time.UTC)

type recordingScheduler struct {
	mu    sync.Mutex
	appts []*models.Appointment
}

func (r *recordingScheduler) ScheduleAppointmentReminder(appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appts = append(r.appts, appt)
	return nil
}

func newTestBookingService(prov models.Provider, svc models.Service, appts ...models.Appointment) (*DefaultBookingService, *MemoryHoldStore, *fakeAppointmentRepo) {
	holds := NewMemoryHoldStore()
	apptRepo := newFakeAppointmentRepo(appts...)
	service := &DefaultBookingService{
		Services:     newFakeServiceRepo(svc),
		Providers:    newFakeProviderRepo(prov),
		Appointments: apptRepo,
		Holds:        holds,
		Now:          func() time.Time { return testNow },
	}
	return service, holds, apptRepo
}

func placeTestHold(t *testing.T, svc *DefaultBookingService, customerID string) {
	t.Helper()
	_, err := svc.PlaceHold(context.Background(), HoldRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		TTLSeconds: 300,
		CustomerID: customerID,
	})
	require.NoError(t, err)
}

func TestConfirmHappyPath(t *testing.T) {
	svc := halfHourService()
	svc.BufferBefore = 5
	svc.BufferAfter = 10
	service, holds, _ := newTestBookingService(saturdayProvider(), svc)
	ctx := context.Background()
	scheduler := &recordingScheduler{}
	service.Reminders = scheduler

	placeTestHold(t, service, "cust-1")

	appt, err := service.Confirm(ctx, BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
	})
	require.NoError(t, err)
	require.NotNil(t, appt)

	assert.NotEmpty(t, appt.ID)
	assert.Regexp(t, `^APT-[A-Z2-9]{6}$`, appt.Reference)
	assert.Equal(t, models.AppointmentStatusConfirmed, appt.Status)
	assert.Equal(t, "cust-1", appt.CustomerID)
	assert.Equal(t, "prov-1", appt.ProviderID)

	// Schedule and pricing are frozen from the service configuration.
	assert.Equal(t, confirmSlot, appt.Schedule.Start)
	assert.Equal(t, confirmSlot.Add(30*time.Minute), appt.Schedule.End)
	assert.Equal(t, 5, appt.Schedule.BufferBefore)
	assert.Equal(t, 10, appt.Schedule.BufferAfter)
	assert.Equal(t, 50.0, appt.Pricing.Amount)
	assert.Equal(t, "EUR", appt.Pricing.Currency)

	// The hold is consumed by a successful confirm.
	held, err := holds.Exists(ctx, "svc-1", confirmSlot)
	require.NoError(t, err)
	assert.False(t, held)

	require.Len(t, scheduler.appts, 1)
	assert.Equal(t, appt.ID, scheduler.appts[0].ID)
}

func TestConfirmServiceNotFound(t *testing.T) {
	service, _, _ := newTestBookingService(saturdayProvider(), halfHourService())

	_, err := service.Confirm(context.Background(), BookingRequest{
		ServiceID:  "missing",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
	})
	assert.Equal(t, ReasonServiceNotFound, ReasonOf(err))
}

func TestConfirmServiceInactive(t *testing.T) {
	svc := halfHourService()
	svc.Active = false
	service, _, _ := newTestBookingService(saturdayProvider(), svc)

	_, err := service.Confirm(context.Background(), BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
	})
	assert.Equal(t, ReasonServiceInactive, ReasonOf(err))
}

func TestConfirmProviderRequired(t *testing.T) {
	svc := halfHourService()
	svc.ProviderIDs = []string{"prov-1", "prov-2"}
	service, _, _ := newTestBookingService(saturdayProvider(), svc)

	// Two qualified providers, none chosen.
	_, err := service.Confirm(context.Background(), BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
	})
	assert.Equal(t, ReasonProviderRequired, ReasonOf(err))

	// An explicit but unknown provider is rejected the same way.
	_, err = service.Confirm(context.Background(), BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
		ProviderID: "ghost",
	})
	assert.Equal(t, ReasonProviderRequired, ReasonOf(err))
}

func TestConfirmSoleProviderFallback(t *testing.T) {
	service, _, _ := newTestBookingService(saturdayProvider(), halfHourService())
	placeTestHold(t, service, "cust-1")

	appt, err := service.Confirm(context.Background(), BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "prov-1", appt.ProviderID)
}

func TestConfirmAlreadyBooked(t *testing.T) {
	existing := models.Appointment{
		ID:        "appt-1",
		Status:    models.AppointmentStatusConfirmed,
		ServiceID: "svc-1",
		Schedule:  models.AppointmentSchedule{Start: confirmSlot, End: confirmSlot.Add(30 * time.Minute)},
	}
	service, _, _ := newTestBookingService(saturdayProvider(), halfHourService(), existing)
	placeTestHold(t, service, "cust-1")

	_, err := service.Confirm(context.Background(), BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
	})
	assert.Equal(t, ReasonAlreadyBooked, ReasonOf(err))
}

func TestConfirmHoldNotFound(t *testing.T) {
	service, _, _ := newTestBookingService(saturdayProvider(), halfHourService())

	_, err := service.Confirm(context.Background(), BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
	})
	assert.Equal(t, ReasonHoldNotFound, ReasonOf(err))
}

func TestConfirmExpiredHold(t *testing.T) {
	service, holds, apptRepo := newTestBookingService(saturdayProvider(), halfHourService())
	clock := testNow
	holds.Now = func() time.Time { return clock }
	ctx := context.Background()

	_, err := service.PlaceHold(ctx, HoldRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		TTLSeconds: 60,
		CustomerID: "cust-1",
	})
	require.NoError(t, err)

	// The client came back after the TTL elapsed.
	clock = clock.Add(2 * time.Minute)

	_, err = service.Confirm(ctx, BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
	})
	assert.Equal(t, ReasonHoldNotFound, ReasonOf(err))

	// Nothing was persisted, so the slot stays free for the next hold.
	appt, err := apptRepo.FindActiveByServiceAndStart("svc-1", confirmSlot)
	require.NoError(t, err)
	assert.Nil(t, appt)
}

func TestConfirmHoldOwnershipMismatches(t *testing.T) {
	service, holds, _ := newTestBookingService(saturdayProvider(), halfHourService())
	ctx := context.Background()

	placeTestHold(t, service, "cust-1")
	_, err := service.Confirm(ctx, BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-2",
	})
	assert.Equal(t, ReasonHoldDifferentCustomer, ReasonOf(err))

	// A rejected confirm must not consume the owner's hold.
	held, err := holds.Exists(ctx, "svc-1", confirmSlot)
	require.NoError(t, err)
	assert.True(t, held)

	_, err = service.PlaceHold(ctx, HoldRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		TTLSeconds: 300,
		CustomerID: "cust-1",
		ProviderID: "prov-other",
	})
	require.NoError(t, err)
	_, err = service.Confirm(ctx, BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
		ProviderID: "prov-1",
	})
	assert.Equal(t, ReasonHoldDifferentProvider, ReasonOf(err))
}

func TestConfirmReleasesHoldOnProviderLoadFailure(t *testing.T) {
	service, holds, _ := newTestBookingService(saturdayProvider(), halfHourService())
	service.Providers = &failingProviderRepo{err: errors.New("connection reset")}
	ctx := context.Background()

	placeTestHold(t, service, "cust-1")

	_, err := service.Confirm(ctx, BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
	})
	require.Error(t, err)
	assert.Empty(t, ReasonOf(err))

	// A transient failure must not strand the slot for the full TTL.
	held, err := holds.Exists(ctx, "svc-1", confirmSlot)
	require.NoError(t, err)
	assert.False(t, held)
}

func TestConfirmKeepsHoldOnDomainRejection(t *testing.T) {
	svc := halfHourService()
	svc.ProviderIDs = []string{"prov-1", "prov-2"}
	service, holds, _ := newTestBookingService(saturdayProvider(), svc)
	ctx := context.Background()

	placeTestHold(t, service, "cust-1")

	_, err := service.Confirm(ctx, BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
	})
	assert.Equal(t, ReasonProviderRequired, ReasonOf(err))

	held, err := holds.Exists(ctx, "svc-1", confirmSlot)
	require.NoError(t, err)
	assert.True(t, held)
}

func TestConfirmConcurrentSingleWinner(t *testing.T) {
	service, _, apptRepo := newTestBookingService(saturdayProvider(), halfHourService())
	ctx := context.Background()

	// An anonymous hold lets every racer pass the ownership checks; the
	// storage uniqueness constraint decides the winner.
	_, err := service.PlaceHold(ctx, HoldRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		TTLSeconds: 300,
	})
	require.NoError(t, err)

	const racers = 20
	var wg sync.WaitGroup
	results := make(chan error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Confirm(ctx, BookingRequest{
				ServiceID:  "svc-1",
				Slot:       confirmSlot,
				CustomerID: "cust-race",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var wins, conflicts int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case ReasonOf(err) == ReasonAlreadyBooked || ReasonOf(err) == ReasonHoldNotFound:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, racers-1, conflicts)

	appt, err := apptRepo.FindActiveByServiceAndStart("svc-1", confirmSlot)
	require.NoError(t, err)
	require.NotNil(t, appt)
}

func TestCancelFreesSlot(t *testing.T) {
	service, _, _ := newTestBookingService(saturdayProvider(), halfHourService())
	ctx := context.Background()

	placeTestHold(t, service, "cust-1")
	appt, err := service.Confirm(ctx, BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-1",
	})
	require.NoError(t, err)

	cancelled, err := service.Cancel(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentStatusCancelled, cancelled.Status)

	// Re-cancelling is rejected.
	_, err = service.Cancel(ctx, appt.ID)
	assert.Equal(t, ReasonNotCancellable, ReasonOf(err))

	_, err = service.Cancel(ctx, "missing")
	assert.Equal(t, ReasonAppointmentNotFound, ReasonOf(err))

	// The cancelled appointment no longer blocks the slot.
	placeTestHold(t, service, "cust-2")
	again, err := service.Confirm(ctx, BookingRequest{
		ServiceID:  "svc-1",
		Slot:       confirmSlot,
		CustomerID: "cust-2",
	})
	require.NoError(t, err)
	assert.NotEqual(t, appt.ID, again.ID)
}

func TestReleaseHoldIdempotentThroughService(t *testing.T) {
	service, _, _ := newTestBookingService(saturdayProvider(), halfHourService())
	ctx := context.Background()

	placeTestHold(t, service, "cust-1")

	released, err := service.ReleaseHold(ctx, "svc-1", confirmSlot)
	require.NoError(t, err)
	assert.True(t, released)

	released, err = service.ReleaseHold(ctx, "svc-1", confirmSlot)
	require.NoError(t, err)
	assert.False(t, released)
}

func TestStatusOfReasonCodes(t *testing.T) {
	assert.Equal(t, 404, StatusOf(ReasonServiceNotFound))
	assert.Equal(t, 404, StatusOf(ReasonHoldNotFound))
	assert.Equal(t, 404, StatusOf(ReasonAppointmentNotFound))
	assert.Equal(t, 409, StatusOf(ReasonAlreadyBooked))
	assert.Equal(t, 409, StatusOf(ReasonServiceInactive))
	assert.Equal(t, 409, StatusOf(ReasonHoldDifferentCustomer))
}
