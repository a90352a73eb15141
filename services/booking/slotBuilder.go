package booking

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"carebook/models"
)

const (
	defaultRangeDays = 14
	maxRangeDays     = 60

	// Used when neither the service nor the provider configures a duration.
	fallbackDurationMinutes = 30
)

// resolveDuration picks the slot duration for a (service, provider) pair:
// service duration, then the provider's default, then the global fallback.
func resolveDuration(svc models.Service, prov models.Provider) time.Duration {
	if svc.DurationMinutes > 0 {
		return time.Duration(svc.DurationMinutes) * time.Minute
	}
	if prov.DefaultDurationMinutes > 0 {
		return time.Duration(prov.DefaultDurationMinutes) * time.Minute
	}
	return fallbackDurationMinutes * time.Minute
}

// parseClock parses a "15:04" local clock string.
func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid clock value %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid hour in clock value %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid minute in clock value %q", s)
	}
	return hour, minute, nil
}

// windowBounds resolves a weekly window onto a concrete local date.
func windowBounds(w models.AvailabilityWindow, year int, month time.Month, day int, loc *time.Location) (start, end time.Time, err error) {
	sh, sm, err := parseClock(w.Start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	eh, em, err := parseClock(w.End)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start = time.Date(year, month, day, sh, sm, 0, 0, loc)
	end = time.Date(year, month, day, eh, em, 0, 0, loc)
	return start, end, nil
}

type interval struct {
	start time.Time
	end   time.Time
}

// appointmentIndex holds existing booked intervals keyed by
// (providerID, serviceID), each list sorted by start.
type appointmentIndex map[string][]interval

func pairKey(providerID, serviceID string) string {
	return providerID + "|" + serviceID
}

// buildAppointmentIndex indexes non-cancelled appointments for overlap checks.
func buildAppointmentIndex(appts []models.Appointment) appointmentIndex {
	idx := make(appointmentIndex)
	for _, a := range appts {
		if a.Status == models.AppointmentStatusCancelled {
			continue
		}
		key := pairKey(a.ProviderID, a.ServiceID)
		idx[key] = append(idx[key], interval{start: a.Schedule.Start, end: a.Schedule.End})
	}
	for key := range idx {
		ivs := idx[key]
		sort.Slice(ivs, func(i, j int) bool { return ivs[i].start.Before(ivs[j].start) })
	}
	return idx
}

// overlaps reports whether [start, end) intersects any booked interval for the
// exact (providerID, serviceID) pair. Half-open semantics: back-to-back slots
// do not conflict.
func (idx appointmentIndex) overlaps(providerID, serviceID string, start, end time.Time) bool {
	for _, iv := range idx[pairKey(providerID, serviceID)] {
		if !iv.start.Before(end) {
			break // sorted by start; nothing later can overlap
		}
		if iv.end.After(start) {
			return true
		}
	}
	return false
}
