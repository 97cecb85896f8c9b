// Package appointmenttest fornece um Repository em memória para testes
// dos use cases.
package appointmenttest

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

type Repo struct {
	mu sync.Mutex

	Businesses     map[uint]models.Business
	Services       map[uint]models.Service
	WorkingHours   []models.WorkingHours
	Appointments   map[uint]models.Appointment
	ChangeRequests map[uint]models.ChangeRequest
	OTPs           []models.OTP

	// OnBlockingQuery roda logo após cada ListBlockingAppointments;
	// testes de concorrência usam para alargar a janela entre a
	// checagem e a escrita.
	OnBlockingQuery func()

	// ScheduleLocks conta os LockSchedule feitos dentro de transações.
	ScheduleLocks atomic.Int64

	schedules map[uint]*sync.Mutex

	nextID uint
	clock  func() time.Time
}

func NewRepo() *Repo {
	return &Repo{
		Businesses:     map[uint]models.Business{},
		Services:       map[uint]models.Service{},
		Appointments:   map[uint]models.Appointment{},
		ChangeRequests: map[uint]models.ChangeRequest{},
		schedules:      map[uint]*sync.Mutex{},
		nextID:         100,
		clock:          time.Now,
	}
}

func (r *Repo) id() uint {
	r.nextID++
	return r.nextID
}

// -------- seed helpers --------

func (r *Repo) AddBusiness(b models.Business) models.Business {
	if b.ID == 0 {
		b.ID = r.id()
	}
	r.Businesses[b.ID] = b
	return b
}

func (r *Repo) AddService(s models.Service) models.Service {
	if s.ID == 0 {
		s.ID = r.id()
	}
	r.Services[s.ID] = s
	return s
}

func (r *Repo) AddWorkingHours(wh models.WorkingHours) {
	r.WorkingHours = append(r.WorkingHours, wh)
}

func (r *Repo) AddAppointment(ap models.Appointment) models.Appointment {
	if ap.ID == 0 {
		ap.ID = r.id()
	}
	if ap.CreatedAt.IsZero() {
		ap.CreatedAt = r.clock()
	}
	r.Appointments[ap.ID] = ap
	return ap
}

// -------- Repository --------

type snapshot struct {
	appointments   map[uint]models.Appointment
	changeRequests map[uint]models.ChangeRequest
	otps           []models.OTP
}

func (r *Repo) snapshot() snapshot {
	s := snapshot{
		appointments:   make(map[uint]models.Appointment, len(r.Appointments)),
		changeRequests: make(map[uint]models.ChangeRequest, len(r.ChangeRequests)),
		otps:           append([]models.OTP(nil), r.OTPs...),
	}
	for k, v := range r.Appointments {
		s.appointments[k] = v
	}
	for k, v := range r.ChangeRequests {
		s.changeRequests[k] = v
	}
	return s
}

func (r *Repo) restore(snap snapshot) {
	r.mu.Lock()
	r.Appointments = snap.appointments
	r.ChangeRequests = snap.changeRequests
	r.OTPs = snap.otps
	r.mu.Unlock()
}

func (r *Repo) schedule(businessID uint) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.schedules[businessID]
	if !ok {
		m = &sync.Mutex{}
		r.schedules[businessID] = m
	}
	return m
}

// Transaction desfaz as escritas quando fn falha. Locks de agenda
// ficam presos até o fim da transação, como no Postgres.
func (r *Repo) Transaction(_ context.Context, fn func(tx domain.Repository) error) error {
	tx := &txRepo{Repo: r}
	defer tx.release()

	if err := fn(tx); err != nil {
		if tx.snap != nil {
			r.restore(*tx.snap)
		}
		return err
	}
	return nil
}

// LockSchedule fora de transação só confere o negócio.
func (r *Repo) LockSchedule(ctx context.Context, businessID uint) error {
	_, err := r.GetBusinessByID(ctx, businessID)
	return err
}

// txRepo tira o snapshot de rollback no primeiro lock ou escrita, depois
// de esperar quem segura a agenda.
type txRepo struct {
	*Repo
	snap *snapshot
	held []*sync.Mutex
}

func (t *txRepo) begin() {
	if t.snap != nil {
		return
	}
	t.mu.Lock()
	s := t.snapshot()
	t.mu.Unlock()
	t.snap = &s
}

func (t *txRepo) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
}

func (t *txRepo) LockSchedule(ctx context.Context, businessID uint) error {
	if _, err := t.GetBusinessByID(ctx, businessID); err != nil {
		return err
	}
	m := t.schedule(businessID)
	for _, h := range t.held {
		if h == m {
			return nil
		}
	}
	m.Lock()
	t.held = append(t.held, m)
	t.ScheduleLocks.Add(1)
	t.begin()
	return nil
}

func (t *txRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	t.begin()
	return t.Repo.CreateAppointment(ctx, ap)
}

func (t *txRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	t.begin()
	return t.Repo.UpdateAppointment(ctx, ap)
}

func (t *txRepo) CreateChangeRequest(ctx context.Context, cr *models.ChangeRequest) error {
	t.begin()
	return t.Repo.CreateChangeRequest(ctx, cr)
}

func (t *txRepo) DeleteChangeRequest(ctx context.Context, id uint) error {
	t.begin()
	return t.Repo.DeleteChangeRequest(ctx, id)
}

func (t *txRepo) SaveOTP(ctx context.Context, o *models.OTP) error {
	t.begin()
	return t.Repo.SaveOTP(ctx, o)
}

func (r *Repo) GetBusinessByID(_ context.Context, id uint) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.Businesses[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return &b, nil
}

func (r *Repo) GetBusinessBySlug(_ context.Context, slug string) (*models.Business, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.Businesses {
		if b.Slug == slug {
			b := b
			return &b, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *Repo) GetService(_ context.Context, businessID, serviceID uint) (*models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.Services[serviceID]
	if !ok || s.BusinessID != businessID {
		return nil, domain.ErrRecordNotFound
	}
	return &s, nil
}

func (r *Repo) ListServices(_ context.Context, businessID uint) ([]models.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Service
	for _, s := range r.Services {
		if s.BusinessID == businessID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repo) GetWorkingHours(_ context.Context, businessID uint, weekday int) (*models.WorkingHours, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, wh := range r.WorkingHours {
		if wh.BusinessID == businessID && wh.Weekday == weekday {
			wh := wh
			return &wh, nil
		}
	}
	return nil, domain.ErrRecordNotFound
}

func (r *Repo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap.ID = r.id()
	ap.CreatedAt = r.clock()
	ap.UpdatedAt = ap.CreatedAt
	r.Appointments[ap.ID] = *ap
	return nil
}

func (r *Repo) GetAppointment(_ context.Context, businessID, id uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.Appointments[id]
	if !ok || ap.BusinessID != businessID {
		return nil, domain.ErrRecordNotFound
	}
	return &ap, nil
}

func (r *Repo) GetAppointmentForUpdate(ctx context.Context, businessID, id uint) (*models.Appointment, error) {
	return r.GetAppointment(ctx, businessID, id)
}

func (r *Repo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Appointments[ap.ID]; !ok {
		return domain.ErrRecordNotFound
	}
	ap.UpdatedAt = r.clock()
	r.Appointments[ap.ID] = *ap
	return nil
}

func (r *Repo) filter(businessID uint, keep func(models.Appointment) bool) []models.Appointment {
	var out []models.Appointment
	for _, ap := range r.Appointments {
		if ap.BusinessID == businessID && keep(ap) {
			out = append(out, ap)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Repo) ListBlockingAppointments(_ context.Context, businessID uint, start, end time.Time, excludeID uint) ([]models.Appointment, error) {
	r.mu.Lock()
	out := r.filter(businessID, func(ap models.Appointment) bool {
		return ap.ID != excludeID &&
			ap.HasSchedule() &&
			domain.Status(ap.Status).BlocksSlot() &&
			ap.StartTime.Before(end) && ap.EndTime.After(start)
	})
	hook := r.OnBlockingQuery
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return out, nil
}

func (r *Repo) ListAppointmentsForPeriod(_ context.Context, businessID uint, start, end time.Time) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(businessID, func(ap models.Appointment) bool {
		return ap.StartTime != nil && !ap.StartTime.Before(start) && ap.StartTime.Before(end)
	}), nil
}

func (r *Repo) ListAppointmentsByStatus(_ context.Context, businessID uint, statuses ...domain.Status) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filter(businessID, func(ap models.Appointment) bool {
		if len(statuses) == 0 {
			return true
		}
		for _, s := range statuses {
			if string(s) == ap.Status {
				return true
			}
		}
		return false
	}), nil
}

func (r *Repo) CountAppointmentsByStatus(_ context.Context, businessID uint) (map[domain.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[domain.Status]int64{}
	for _, ap := range r.Appointments {
		if ap.BusinessID == businessID {
			out[domain.Status(ap.Status)]++
		}
	}
	return out, nil
}

func (r *Repo) FindLatestAppointmentByPhone(_ context.Context, businessID uint, phone string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.Appointment
	for _, ap := range r.Appointments {
		if ap.BusinessID != businessID || ap.ClientPhone != phone || ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if best == nil || ap.CreatedAt.After(best.CreatedAt) || (ap.CreatedAt.Equal(best.CreatedAt) && ap.ID > best.ID) {
			ap := ap
			best = &ap
		}
	}
	if best == nil {
		return nil, domain.ErrRecordNotFound
	}
	return best, nil
}

func (r *Repo) CreateChangeRequest(_ context.Context, cr *models.ChangeRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cr.ID = r.id()
	cr.CreatedAt = r.clock()
	r.ChangeRequests[cr.ID] = *cr
	return nil
}

func (r *Repo) GetChangeRequest(_ context.Context, businessID, id uint) (*models.ChangeRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cr, ok := r.ChangeRequests[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	if ap, ok := r.Appointments[cr.AppointmentID]; !ok || ap.BusinessID != businessID {
		return nil, domain.ErrRecordNotFound
	}
	return &cr, nil
}

func (r *Repo) ListChangeRequests(_ context.Context, businessID uint) ([]models.ChangeRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ChangeRequest
	for _, cr := range r.ChangeRequests {
		if ap, ok := r.Appointments[cr.AppointmentID]; ok && ap.BusinessID == businessID && cr.Status == models.ChangeRequestPending {
			out = append(out, cr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *Repo) DeleteChangeRequest(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ChangeRequests[id]; !ok {
		return domain.ErrRecordNotFound
	}
	delete(r.ChangeRequests, id)
	return nil
}

func (r *Repo) SaveOTP(_ context.Context, o *models.OTP) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = r.id()
	o.CreatedAt = r.clock()
	r.OTPs = append(r.OTPs, *o)
	return nil
}

func (r *Repo) LatestOTP(_ context.Context, phone, purpose string) (*models.OTP, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *models.OTP
	for _, o := range r.OTPs {
		if o.Phone != phone || o.Purpose != purpose {
			continue
		}
		if best == nil || !o.CreatedAt.Before(best.CreatedAt) {
			o := o
			best = &o
		}
	}
	if best == nil {
		return nil, domain.ErrRecordNotFound
	}
	return best, nil
}

var (
	_ domain.Repository = (*Repo)(nil)
	_ domain.Repository = (*txRepo)(nil)
)
