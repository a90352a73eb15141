package booking

import (
	"sort"
	"sync"
	"time"

	appointmentRepo "carebook/database/repository/appointment"
	"carebook/models"
)

type fakeServiceRepo struct {
	mu       sync.Mutex
	services map[string]models.Service
}

func newFakeServiceRepo(services ...models.Service) *fakeServiceRepo {
	repo := &fakeServiceRepo{services: make(map[string]models.Service)}
	for _, s := range services {
		repo.services[s.ID] = s
	}
	return repo
}

func (r *fakeServiceRepo) GetByID(id string) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.services[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeServiceRepo) GetActive() ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Service
	for _, s := range r.services {
		if s.Active {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeServiceRepo) Create(s *models.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[s.ID] = *s
	return nil
}

func (r *fakeServiceRepo) Update(s *models.Service) error { return r.Create(s) }

func (r *fakeServiceRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.services, id)
	return nil
}

type fakeProviderRepo struct {
	mu        sync.Mutex
	providers map[string]models.Provider
}

func newFakeProviderRepo(providers ...models.Provider) *fakeProviderRepo {
	repo := &fakeProviderRepo{providers: make(map[string]models.Provider)}
	for _, p := range providers {
		repo.providers[p.ID] = p
	}
	return repo
}

func (r *fakeProviderRepo) GetByID(id string) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeProviderRepo) GetAll() ([]models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Provider
	for _, p := range r.providers {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProviderRepo) GetByServiceIDs(serviceIDs []string) ([]models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	wanted := make(map[string]bool, len(serviceIDs))
	for _, id := range serviceIDs {
		wanted[id] = true
	}
	var out []models.Provider
	for _, p := range r.providers {
		if !p.Active {
			continue
		}
		for _, sid := range p.ServiceIDs {
			if wanted[sid] {
				out = append(out, p)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeProviderRepo) Create(p *models.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.ID] = *p
	return nil
}

func (r *fakeProviderRepo) Update(p *models.Provider) error { return r.Create(p) }

func (r *fakeProviderRepo) ReplaceWindows(id string, windows []models.AvailabilityWindow) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.providers[id]
	p.Windows = windows
	r.providers[id] = p
	return nil
}

func (r *fakeProviderRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.providers, id)
	return nil
}

// failingProviderRepo simulates a provider store with a transient outage.
type failingProviderRepo struct {
	err error
}

func (r *failingProviderRepo) GetByID(string) (*models.Provider, error) { return nil, r.err }
func (r *failingProviderRepo) GetAll() ([]models.Provider, error)       { return nil, r.err }
func (r *failingProviderRepo) GetByServiceIDs([]string) ([]models.Provider, error) {
	return nil, r.err
}
func (r *failingProviderRepo) Create(*models.Provider) error { return r.err }
func (r *failingProviderRepo) Update(*models.Provider) error { return r.err }
func (r *failingProviderRepo) ReplaceWindows(string, []models.AvailabilityWindow) error {
	return r.err
}
func (r *failingProviderRepo) Delete(string) error { return r.err }

// fakeAppointmentRepo enforces the same uniqueness constraint the Mongo
// partial index provides, so racing Create calls behave like production.
type fakeAppointmentRepo struct {
	mu    sync.Mutex
	appts []models.Appointment
}

func newFakeAppointmentRepo(appts ...models.Appointment) *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appts: appts}
}

func (r *fakeAppointmentRepo) GetByID(id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.ID == id {
			out := a
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) GetByCustomer(customerID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Schedule.Start.After(out[j].Schedule.Start) })
	return out, nil
}

func (r *fakeAppointmentRepo) FindActiveInRange(start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.Status == models.AppointmentStatusCancelled {
			continue
		}
		if !a.Schedule.Start.Before(start) && a.Schedule.Start.Before(end) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) FindActiveByServiceAndStart(serviceID string, start time.Time) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a := r.findActiveLocked(serviceID, start); a != nil {
		out := *a
		return &out, nil
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) Create(appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findActiveLocked(appt.ServiceID, appt.Schedule.Start) != nil {
		return appointmentRepo.ErrDuplicateSlot
	}
	r.appts = append(r.appts, *appt)
	return nil
}

func (r *fakeAppointmentRepo) UpdateStatus(id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.appts {
		if r.appts[i].ID == id {
			r.appts[i].Status = status
			return nil
		}
	}
	return nil
}

func (r *fakeAppointmentRepo) findActiveLocked(serviceID string, start time.Time) *models.Appointment {
	for i := range r.appts {
		a := &r.appts[i]
		if a.ServiceID == serviceID && a.Schedule.Start.Equal(start) && a.Status != models.AppointmentStatusCancelled {
			return a
		}
	}
	return nil
}
