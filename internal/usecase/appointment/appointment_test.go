package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/domain/appointment/appointmenttest"
	"github.com/BruksfildServices01/booking-platform/internal/httperr"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/notify"
	"github.com/BruksfildServices01/booking-platform/internal/otp"
	"github.com/BruksfildServices01/booking-platform/internal/timezone"
	earningsuc "github.com/BruksfildServices01/booking-platform/internal/usecase/earnings"
)

const clientPhone = "+15551234567"

// ======================================================
// fakes
// ======================================================

type sentMessage struct {
	email, phone, message string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
	fail bool
}

func (n *fakeNotifier) SendConfirmation(_ context.Context, email, phone, message string) notify.Delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{email, phone, message})
	return notify.Delivery{EmailSent: !n.fail, SMSSent: !n.fail}
}

type memOTPStore struct {
	codes map[string]string
}

func newMemOTPStore() *memOTPStore {
	return &memOTPStore{codes: map[string]string{}}
}

func (s *memOTPStore) key(purpose otp.Purpose, phone string) string {
	return string(purpose) + ":" + phone
}

func (s *memOTPStore) Save(_ context.Context, purpose otp.Purpose, phone, code string, _ time.Duration) error {
	s.codes[s.key(purpose, phone)] = code
	return nil
}

func (s *memOTPStore) Latest(_ context.Context, purpose otp.Purpose, phone string) (string, error) {
	code, ok := s.codes[s.key(purpose, phone)]
	if !ok {
		return "", otp.ErrNotFound
	}
	return code, nil
}

func (s *memOTPStore) Consume(_ context.Context, purpose otp.Purpose, phone string) error {
	delete(s.codes, s.key(purpose, phone))
	return nil
}

func fixedOTP(code string) otp.Generator {
	return func(int) (string, error) { return code, nil }
}

// ======================================================
// fixture
// ======================================================

type fixture struct {
	repo     *appointmenttest.Repo
	business models.Business
	cut      models.Service
	color    models.Service
	loc      *time.Location
	clock    timezone.FixedClock
}

// segunda-feira, 03/06/2024, expediente 09:00-13:00
func setup(t *testing.T) fixture {
	t.Helper()

	repo := appointmenttest.NewRepo()
	b := repo.AddBusiness(models.Business{Name: "Acme Studio", Slug: "acme", Timezone: "Europe/Moscow"})
	loc := timezone.Location(b.Timezone)

	cut := repo.AddService(models.Service{BusinessID: b.ID, Title: "Cut", Cost: decimal.NewFromInt(100), DurationMin: 60})
	color := repo.AddService(models.Service{BusinessID: b.ID, Title: "Color", Cost: decimal.NewFromInt(50), DurationMin: 30})

	repo.AddWorkingHours(models.WorkingHours{BusinessID: b.ID, Weekday: 1, StartTime: "09:00", EndTime: "13:00"})

	return fixture{
		repo:     repo,
		business: b,
		cut:      cut,
		color:    color,
		loc:      loc,
		clock:    timezone.FixedClock{At: time.Date(2024, 6, 2, 12, 0, 0, 0, loc)},
	}
}

func (f fixture) at(hour, minute int) time.Time {
	return time.Date(2024, 6, 3, hour, minute, 0, 0, f.loc)
}

func (f fixture) addAppointment(status domain.Status, start, end time.Time) models.Appointment {
	return f.repo.AddAppointment(models.Appointment{
		BusinessID:  f.business.ID,
		ClientName:  "Ann",
		ClientPhone: clientPhone,
		ClientEmail: "ann@example.com",
		StartTime:   &start,
		EndTime:     &end,
		Services:    []models.LineItem{{ServiceID: f.cut.ID, Quantity: 1}},
		Status:      string(status),
	})
}

func (f fixture) transition(n notify.Notifier, gen otp.Generator) *Transition {
	return NewTransition(f.repo, nil, n, earningsuc.NewGetEarnings(f.repo, f.clock), f.clock, gen)
}

// ======================================================
// availability
// ======================================================

func TestAvailabilityMarksPartialHoursOccupied(t *testing.T) {
	f := setup(t)
	f.addAppointment(domain.StatusPending, f.at(10, 0), f.at(11, 30))

	uc := NewGetAvailability(f.repo, f.clock)
	in := domain.AvailabilityInput{BusinessID: f.business.ID, Date: f.at(0, 0)}

	slots, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, []domain.Slot{
		{Time: "09:00", Status: domain.SlotFree},
		{Time: "10:00", Status: domain.SlotOccupied},
		{Time: "11:00", Status: domain.SlotOccupied},
		{Time: "12:00", Status: domain.SlotFree},
	}, slots)

	again, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, slots, again)
}

func TestAvailabilityIgnoresNonBlockingStatuses(t *testing.T) {
	f := setup(t)
	f.addAppointment(domain.StatusCancelled, f.at(9, 0), f.at(10, 0))
	f.addAppointment(domain.StatusRejected, f.at(10, 0), f.at(11, 0))
	f.addAppointment(domain.StatusCompleted, f.at(11, 0), f.at(12, 0))

	slots, err := NewGetAvailability(f.repo, f.clock).Execute(
		context.Background(),
		domain.AvailabilityInput{BusinessID: f.business.ID, Date: f.at(0, 0)},
	)
	require.NoError(t, err)
	require.Len(t, slots, 4)
	for _, s := range slots {
		assert.Equal(t, domain.SlotFree, s.Status, s.Time)
	}
}

func TestAvailabilityWithoutWorkingHoursIsNotConfigured(t *testing.T) {
	f := setup(t)

	// terça sem expediente
	_, err := NewGetAvailability(f.repo, f.clock).Execute(
		context.Background(),
		domain.AvailabilityInput{BusinessID: f.business.ID, Date: f.at(0, 0).AddDate(0, 0, 1)},
	)
	require.Error(t, err)
	assert.Equal(t, httperr.KindNotConfigured, httperr.KindOf(err))
}

func TestAvailabilitySameDayCutoff(t *testing.T) {
	f := setup(t)
	clock := timezone.FixedClock{At: f.at(10, 30)}

	slots, err := NewGetAvailability(f.repo, clock).Execute(
		context.Background(),
		domain.AvailabilityInput{BusinessID: f.business.ID, Date: f.at(0, 0)},
	)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, "11:00", slots[0].Time)
	assert.Equal(t, "12:00", slots[1].Time)
}

// ======================================================
// reserve
// ======================================================

func reserveInput(f fixture, date string) ReserveInput {
	return ReserveInput{
		BusinessID:  f.business.ID,
		ClientName:  "Ann",
		ClientEmail: "ann@example.com",
		ClientPhone: clientPhone,
		Date:        date,
		Services: []models.LineItem{
			{ServiceID: f.cut.ID, Quantity: 1},
			{ServiceID: f.color.ID, Quantity: 1},
		},
	}
}

func TestReserveComputesEndFromServices(t *testing.T) {
	f := setup(t)

	ap, err := NewReserve(f.repo, nil, f.clock).Execute(context.Background(), reserveInput(f, "2024-06-03 10:00"))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), ap.Status)
	assert.True(t, ap.StartTime.Equal(f.at(10, 0)))
	assert.True(t, ap.EndTime.Equal(f.at(11, 30)))
	assert.Equal(t, 90, ap.TotalServiceMin)
	assert.Equal(t, 2, ap.NumServices)
	assert.Contains(t, f.repo.Appointments, ap.ID)
}

func TestReserveRejectsCollision(t *testing.T) {
	f := setup(t)
	f.addAppointment(domain.StatusAccepted, f.at(11, 0), f.at(12, 0))

	_, err := NewReserve(f.repo, nil, f.clock).Execute(context.Background(), reserveInput(f, "2024-06-03 10:00"))
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
	assert.Len(t, f.repo.Appointments, 1)
}

func TestConcurrentReservesTakeSlotOnce(t *testing.T) {
	f := setup(t)
	uc := NewReserve(f.repo, nil, f.clock)
	f.repo.OnBlockingQuery = func() { time.Sleep(10 * time.Millisecond) }

	const clients = 5
	var wg sync.WaitGroup
	errs := make([]error, clients)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), reserveInput(f, "2024-06-03 10:00"))
		}(i)
	}
	wg.Wait()

	var booked int
	for _, err := range errs {
		if err == nil {
			booked++
			continue
		}
		assert.True(t, httperr.IsBusiness(err, "slot_unavailable"), "got %v", err)
	}
	assert.Equal(t, 1, booked)
	assert.Len(t, f.repo.Appointments, 1)
	assert.Equal(t, int64(clients), f.repo.ScheduleLocks.Load())
}

// overlapRepo simula a constraint EXCLUDE recusando o INSERT.
type overlapRepo struct {
	*appointmenttest.Repo
}

type overlapTx struct {
	domain.Repository
}

func (r overlapRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	return r.Repo.Transaction(ctx, func(tx domain.Repository) error {
		return fn(overlapTx{tx})
	})
}

func (overlapTx) CreateAppointment(context.Context, *models.Appointment) error {
	return &pgconn.PgError{Code: "23P01", ConstraintName: "appointments_no_overlap"}
}

func TestReserveMapsOverlapConstraint(t *testing.T) {
	f := setup(t)

	_, err := NewReserve(overlapRepo{f.repo}, nil, f.clock).Execute(context.Background(), reserveInput(f, "2024-06-03 10:00"))
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))
	assert.Empty(t, f.repo.Appointments)
}

func TestReserveValidation(t *testing.T) {
	f := setup(t)
	uc := NewReserve(f.repo, nil, f.clock)
	ctx := context.Background()

	_, err := uc.Execute(ctx, reserveInput(f, "03/06/2024 10:00"))
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))

	_, err = uc.Execute(ctx, reserveInput(f, "2024-06-03 12:00"))
	assert.True(t, httperr.IsBusiness(err, "outside_working_hours"))

	_, err = uc.Execute(ctx, reserveInput(f, "2024-06-01 10:00"))
	assert.True(t, httperr.IsBusiness(err, "slot_in_past"))

	_, err = uc.Execute(ctx, reserveInput(f, "2024-06-04 10:00"))
	assert.Equal(t, httperr.KindNotConfigured, httperr.KindOf(err))

	in := reserveInput(f, "2024-06-03 10:00")
	in.Services = []models.LineItem{{ServiceID: 404, Quantity: 1}}
	_, err = uc.Execute(ctx, in)
	assert.Equal(t, httperr.KindNotFound, httperr.KindOf(err))

	in = reserveInput(f, "2024-06-03 10:00")
	in.ClientEmail = " "
	_, err = uc.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "missing_client_email"))

	assert.Empty(t, f.repo.Appointments)
}

// ======================================================
// client details
// ======================================================

func TestSubmitClientDetails(t *testing.T) {
	f := setup(t)
	uc := NewSubmitClientDetails(f.repo, nil)

	_, err := uc.Execute(context.Background(), SubmitClientDetailsInput{BusinessID: f.business.ID, ClientName: "Ann", ClientPhone: clientPhone})
	assert.True(t, httperr.IsBusiness(err, "missing_client_email"))

	ap, err := uc.Execute(context.Background(), SubmitClientDetailsInput{
		BusinessID:  f.business.ID,
		ClientName:  "Ann",
		ClientEmail: "ann@example.com",
		ClientPhone: clientPhone,
	})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusClientDetailsProvided), ap.Status)
	assert.False(t, ap.HasSchedule())
}

// ======================================================
// owner transitions
// ======================================================

func TestAcceptIssuesOTPAndArrivedChecksIt(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ap := f.addAppointment(domain.StatusPending, f.at(10, 0), f.at(11, 0))

	n := &fakeNotifier{}
	uc := f.transition(n, fixedOTP("4821"))

	res, err := uc.Execute(ctx, TransitionInput{BusinessID: f.business.ID, UserID: 1, AppointmentID: ap.ID, Action: domain.ActionAccept})
	require.NoError(t, err)
	assert.Equal(t, "4821", res.OTP)
	assert.Equal(t, string(domain.StatusAccepted), res.Appointment.Status)
	require.NotNil(t, res.Delivery)
	assert.True(t, res.Delivery.EmailSent)

	require.Len(t, n.sent, 1)
	assert.Equal(t, clientPhone, n.sent[0].phone)
	assert.Equal(t,
		"Dear Ann,\nYour appointment at 2024-06-03 10:00 with Acme Studio has been confirmed. "+
			"Your OTP is 4821. Please present this OTP at the time of your appointment.",
		n.sent[0].message,
	)

	_, err = uc.Execute(ctx, TransitionInput{BusinessID: f.business.ID, AppointmentID: ap.ID, Action: domain.ActionArrived, OTP: "9999"})
	require.Error(t, err)
	assert.Equal(t, httperr.KindInvalidOTP, httperr.KindOf(err))
	assert.Equal(t, string(domain.StatusAccepted), f.repo.Appointments[ap.ID].Status)

	res, err = uc.Execute(ctx, TransitionInput{BusinessID: f.business.ID, AppointmentID: ap.ID, Action: domain.ActionArrived, OTP: "4821"})
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusArrived), res.Appointment.Status)
	assert.NotNil(t, f.repo.Appointments[ap.ID].ArrivedAt)
}

func TestDeliveryFailureDoesNotRevertAccept(t *testing.T) {
	f := setup(t)
	ap := f.addAppointment(domain.StatusPending, f.at(10, 0), f.at(11, 0))

	res, err := f.transition(&fakeNotifier{fail: true}, fixedOTP("1234")).Execute(
		context.Background(),
		TransitionInput{BusinessID: f.business.ID, AppointmentID: ap.ID, Action: domain.ActionAccept},
	)
	require.NoError(t, err)
	assert.False(t, res.Delivery.SMSSent)
	assert.Equal(t, string(domain.StatusAccepted), f.repo.Appointments[ap.ID].Status)
}

func TestArrivedWithoutIssuedOTPIsNotFound(t *testing.T) {
	f := setup(t)
	ap := f.addAppointment(domain.StatusAccepted, f.at(10, 0), f.at(11, 0))

	_, err := f.transition(&fakeNotifier{}, nil).Execute(
		context.Background(),
		TransitionInput{BusinessID: f.business.ID, AppointmentID: ap.ID, Action: domain.ActionArrived, OTP: "1111"},
	)
	assert.True(t, httperr.IsBusiness(err, "otp_not_found"))
	assert.Equal(t, string(domain.StatusAccepted), f.repo.Appointments[ap.ID].Status)
}

func TestFullLifecycleReturnsEarnings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// agendamento de ontem em relação ao relógio fixo
	start := time.Date(2024, 6, 2, 10, 0, 0, 0, f.loc)
	ap := f.addAppointment(domain.StatusPending, start, start.Add(time.Hour))
	uc := f.transition(&fakeNotifier{}, fixedOTP("4821"))

	steps := []TransitionInput{
		{Action: domain.ActionAccept},
		{Action: domain.ActionArrived, OTP: "4821"},
		{Action: domain.ActionComplete},
	}

	var res *TransitionResult
	for _, step := range steps {
		step.BusinessID = f.business.ID
		step.AppointmentID = ap.ID

		var err error
		res, err = uc.Execute(ctx, step)
		require.NoError(t, err, step.Action)
	}

	assert.Equal(t, string(domain.StatusCompleted), res.Appointment.Status)
	require.NotNil(t, res.Earnings)
	assert.True(t, res.Earnings.Daily.Equal(decimal.NewFromInt(100)))
}

func TestAcceptAfterRejectConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ap := f.addAppointment(domain.StatusPending, f.at(10, 0), f.at(11, 0))
	uc := f.transition(&fakeNotifier{}, fixedOTP("4821"))

	_, err := uc.Execute(ctx, TransitionInput{BusinessID: f.business.ID, AppointmentID: ap.ID, Action: domain.ActionReject})
	assert.True(t, httperr.IsBusiness(err, "missing_reason"))

	_, err = uc.Execute(ctx, TransitionInput{BusinessID: f.business.ID, AppointmentID: ap.ID, Action: domain.ActionReject, Reason: "Closed for holiday"})
	require.NoError(t, err)

	_, err = uc.Execute(ctx, TransitionInput{BusinessID: f.business.ID, AppointmentID: ap.ID, Action: domain.ActionAccept})
	require.Error(t, err)
	assert.Equal(t, httperr.KindConflict, httperr.KindOf(err))

	stored := f.repo.Appointments[ap.ID]
	assert.Equal(t, string(domain.StatusRejected), stored.Status)
	assert.Equal(t, "Closed for holiday", stored.RejectionReason)
	assert.Empty(t, f.repo.OTPs)
}

func TestCompleteRequiresArrived(t *testing.T) {
	f := setup(t)
	ap := f.addAppointment(domain.StatusAccepted, f.at(10, 0), f.at(11, 0))

	_, err := f.transition(&fakeNotifier{}, nil).Execute(
		context.Background(),
		TransitionInput{BusinessID: f.business.ID, AppointmentID: ap.ID, Action: domain.ActionComplete},
	)
	assert.True(t, httperr.IsBusiness(err, "invalid_transition"))
}

func TestTransitionOnForeignAppointmentIsNotFound(t *testing.T) {
	f := setup(t)
	other := f.repo.AddBusiness(models.Business{Name: "Other", Slug: "other"})
	ap := f.addAppointment(domain.StatusPending, f.at(10, 0), f.at(11, 0))

	_, err := f.transition(&fakeNotifier{}, nil).Execute(
		context.Background(),
		TransitionInput{BusinessID: other.ID, AppointmentID: ap.ID, Action: domain.ActionAccept},
	)
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
	assert.Equal(t, string(domain.StatusPending), f.repo.Appointments[ap.ID].Status)
}

func TestOwnerCannotUseCancelAction(t *testing.T) {
	f := setup(t)
	ap := f.addAppointment(domain.StatusPending, f.at(10, 0), f.at(11, 0))

	_, err := f.transition(&fakeNotifier{}, nil).Execute(
		context.Background(),
		TransitionInput{BusinessID: f.business.ID, AppointmentID: ap.ID, Action: domain.ActionCancel},
	)
	assert.True(t, httperr.IsBusiness(err, "invalid_action"))
}

// ======================================================
// client cancel
// ======================================================

func TestClientCancelWithOTP(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ap := f.addAppointment(domain.StatusAccepted, f.at(10, 0), f.at(11, 0))

	store := newMemOTPStore()
	require.NoError(t, store.Save(ctx, otp.PurposeBooking, clientPhone, "654321", time.Minute))

	uc := NewCancelAppointment(f.repo, store, nil, f.clock)
	in := CancelInput{
		BusinessID:    f.business.ID,
		AppointmentID: ap.ID,
		ClientPhone:   clientPhone,
		OTP:           "000000",
		Reason:        "Sick",
	}

	_, err := uc.Execute(ctx, in)
	assert.Equal(t, httperr.KindInvalidOTP, httperr.KindOf(err))

	in.OTP = "654321"
	out, err := uc.Execute(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), out.Status)
	assert.Equal(t, "Sick", out.CancellationReason)

	// código consumido
	_, err = uc.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "otp_not_found"))
}

func TestClientCancelForeignPhoneIsNotFound(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	ap := f.addAppointment(domain.StatusPending, f.at(10, 0), f.at(11, 0))

	store := newMemOTPStore()
	require.NoError(t, store.Save(ctx, otp.PurposeBooking, "+15550000000", "111111", time.Minute))

	_, err := NewCancelAppointment(f.repo, store, nil, f.clock).Execute(ctx, CancelInput{
		BusinessID:    f.business.ID,
		AppointmentID: ap.ID,
		ClientPhone:   "+15550000000",
		OTP:           "111111",
		Reason:        "x",
	})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
	assert.Equal(t, string(domain.StatusPending), f.repo.Appointments[ap.ID].Status)
}

// ======================================================
// reads
// ======================================================

func TestClientAppointmentSkipsCancelled(t *testing.T) {
	f := setup(t)
	kept := f.addAppointment(domain.StatusPending, f.at(9, 0), f.at(10, 0))

	cancelled := f.addAppointment(domain.StatusCancelled, f.at(11, 0), f.at(12, 0))
	cancelled.CreatedAt = kept.CreatedAt.Add(time.Hour)
	f.repo.Appointments[cancelled.ID] = cancelled

	view, err := NewGetClientAppointment(f.repo).Execute(context.Background(), f.business.ID, clientPhone)
	require.NoError(t, err)
	assert.Equal(t, kept.ID, view.ID)
	assert.Equal(t, "2024-06-03 09:00", view.StartTime)
	assert.Equal(t, "100.00", view.TotalCost)

	_, err = NewGetClientAppointment(f.repo).Execute(context.Background(), f.business.ID, "+10000000000")
	assert.True(t, httperr.IsBusiness(err, "appointment_not_found"))
}

func TestListByDateAndMonth(t *testing.T) {
	f := setup(t)
	f.addAppointment(domain.StatusPending, f.at(9, 0), f.at(10, 0))
	f.addAppointment(domain.StatusPending, f.at(9, 0).AddDate(0, 0, 3), f.at(10, 0).AddDate(0, 0, 3))

	day, err := NewListAppointmentsByDate(f.repo).Execute(context.Background(), f.business.ID, f.at(0, 0))
	require.NoError(t, err)
	assert.Len(t, day, 1)

	month, err := NewListAppointmentsByMonth(f.repo).Execute(context.Background(), f.business.ID, 2024, 6)
	require.NoError(t, err)
	assert.Len(t, month, 2)

	_, err = NewListAppointmentsByMonth(f.repo).Execute(context.Background(), f.business.ID, 2024, 13)
	assert.True(t, httperr.IsBusiness(err, "invalid_month"))
}
