package booking

import (
	"context"
	"fmt"
	"sort"
	"time"

	appointmentRepo "carebook/database/repository/appointment"
	providerRepo "carebook/database/repository/provider"
	serviceRepo "carebook/database/repository/service"
	"carebook/models"
	"carebook/utils"

	"go.uber.org/zap"
)

// DefaultAvailabilityEngine derives free slots from recurring weekly windows,
// per-service rules and existing appointments. Generation is read-only; its
// only external reads besides the repositories are Hold Store lookups that
// exclude slots claimed by another in-flight booking.
type DefaultAvailabilityEngine struct {
	Services     serviceRepo.ServiceRepository
	Providers    providerRepo.ProviderRepository
	Appointments appointmentRepo.AppointmentRepository
	Holds        HoldStore

	// Now is a clock seam for tests; nil means time.Now.
	Now func() time.Time
}

func (e *DefaultAvailabilityEngine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *DefaultAvailabilityEngine) GetAvailability(ctx context.Context, req AvailabilityRequest) (*AvailabilityResult, error) {
	logger := utils.GetLogger()
	now := e.now().UTC()

	rangeDays := req.RangeDays
	if rangeDays <= 0 {
		rangeDays = defaultRangeDays
	}
	if rangeDays > maxRangeDays {
		rangeDays = maxRangeDays
	}
	dayZero := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	rangeEnd := dayZero.AddDate(0, 0, rangeDays)

	result := &AvailabilityResult{
		RangeStart: dayZero,
		RangeEnd:   rangeEnd,
		Days:       []models.AvailabilityDay{},
	}

	services, err := e.loadServices(req.ServiceID)
	if err != nil {
		return nil, err
	}
	if len(services) == 0 {
		return result, nil
	}

	providers, err := e.loadProviders(req.ProviderID, services)
	if err != nil {
		return nil, err
	}
	if len(providers) == 0 {
		return result, nil
	}

	appts, err := e.Appointments.FindActiveInRange(dayZero, rangeEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments for availability range: %w", err)
	}
	idx := buildAppointmentIndex(appts)

	slotsByDate := make(map[string][]models.AvailabilitySlot)
	for _, prov := range providers {
		if len(prov.Windows) == 0 {
			continue
		}
		matching := matchingServices(prov, services)
		if len(matching) == 0 {
			continue
		}
		loc, err := time.LoadLocation(prov.TimeZone)
		if err != nil {
			logger.Warn("availability: skipping provider with invalid time zone",
				zap.String("providerID", prov.ID), zap.String("timeZone", prov.TimeZone))
			continue
		}

		for offset := 0; offset < rangeDays; offset++ {
			day := dayZero.AddDate(0, 0, offset)
			// Resolve the weekday as the provider's wall calendar sees this date.
			localDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
			weekday := localDay.Weekday().String()

			for _, w := range prov.Windows {
				if w.Day != weekday {
					continue
				}
				winStart, winEnd, err := windowBounds(w, localDay.Year(), localDay.Month(), localDay.Day(), loc)
				if err != nil {
					logger.Warn("availability: skipping malformed window",
						zap.String("providerID", prov.ID), zap.Error(err))
					continue
				}
				for _, svc := range matching {
					if err := e.collectWindowSlots(ctx, prov, svc, winStart, winEnd, now, idx, slotsByDate); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	result.Days = groupByDay(slotsByDate)
	return result, nil
}

// collectWindowSlots walks a cursor across one resolved window in increments
// of the service duration, collecting every slot that survives the lead-time,
// overlap and hold checks. A window shorter than one duration yields nothing.
func (e *DefaultAvailabilityEngine) collectWindowSlots(
	ctx context.Context,
	prov models.Provider,
	svc models.Service,
	winStart, winEnd, now time.Time,
	idx appointmentIndex,
	slotsByDate map[string][]models.AvailabilitySlot,
) error {
	dur := resolveDuration(svc, prov)
	if dur <= 0 {
		return nil
	}
	leadCutoff := now.Add(time.Duration(svc.LeadTimeHours) * time.Hour)

	for cursor := winStart; !cursor.Add(dur).After(winEnd); cursor = cursor.Add(dur) {
		slotStart := cursor.UTC()
		slotEnd := cursor.Add(dur).UTC()

		if slotStart.Before(leadCutoff) {
			continue
		}
		if idx.overlaps(prov.ID, svc.ID, slotStart, slotEnd) {
			continue
		}
		// Best-effort: a hold created after this check is still possible; the
		// confirm step is the actual guard.
		held, err := e.Holds.Exists(ctx, svc.ID, slotStart)
		if err != nil {
			return fmt.Errorf("failed to check hold for slot: %w", err)
		}
		if held {
			continue
		}

		slot := models.AvailabilitySlot{
			ID:           models.SlotID(prov.ID, svc.ID, slotStart),
			ProviderID:   prov.ID,
			ProviderName: prov.DisplayName,
			ServiceID:    svc.ID,
			ServiceName:  svc.Name,
			Start:        slotStart,
			End:          slotEnd,
			TimeZone:     prov.TimeZone,
		}
		date := slotStart.Format("2006-01-02")
		slotsByDate[date] = append(slotsByDate[date], slot)
	}
	return nil
}

func (e *DefaultAvailabilityEngine) loadServices(serviceID string) ([]models.Service, error) {
	if serviceID != "" {
		svc, err := e.Services.GetByID(serviceID)
		if err != nil {
			return nil, fmt.Errorf("failed to load service %s: %w", serviceID, err)
		}
		if svc == nil || !svc.Active {
			return nil, nil
		}
		return []models.Service{*svc}, nil
	}
	services, err := e.Services.GetActive()
	if err != nil {
		return nil, fmt.Errorf("failed to load active services: %w", err)
	}
	return services, nil
}

func (e *DefaultAvailabilityEngine) loadProviders(providerID string, services []models.Service) ([]models.Provider, error) {
	if providerID != "" {
		prov, err := e.Providers.GetByID(providerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load provider %s: %w", providerID, err)
		}
		if prov == nil || !prov.Active {
			return nil, nil
		}
		return []models.Provider{*prov}, nil
	}
	ids := make([]string, 0, len(services))
	for _, svc := range services {
		ids = append(ids, svc.ID)
	}
	providers, err := e.Providers.GetByServiceIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}
	return providers, nil
}

// matchingServices resolves the qualification relationship from either side:
// a provider listing the service or a service listing the provider both count.
// Relationship shapes are normalized here so the generation loop never
// branches on where the reference lives.
func matchingServices(prov models.Provider, services []models.Service) []models.Service {
	var matching []models.Service
	for _, svc := range services {
		if prov.OffersService(svc.ID) || containsID(svc.ProviderIDs, prov.ID) {
			matching = append(matching, svc)
		}
	}
	return matching
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// groupByDay shapes accepted slots into the day-by-day output: days ascending
// by date, slots within a day ascending by start.
func groupByDay(slotsByDate map[string][]models.AvailabilitySlot) []models.AvailabilityDay {
	dates := make([]string, 0, len(slotsByDate))
	for date := range slotsByDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	days := make([]models.AvailabilityDay, 0, len(dates))
	for _, date := range dates {
		slots := slotsByDate[date]
		sort.Slice(slots, func(i, j int) bool {
			if !slots[i].Start.Equal(slots[j].Start) {
				return slots[i].Start.Before(slots[j].Start)
			}
			return slots[i].ID < slots[j].ID
		})
		days = append(days, models.AvailabilityDay{Date: date, Slots: slots})
	}
	return days
}
