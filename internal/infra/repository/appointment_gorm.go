package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/models"
	"github.com/BruksfildServices01/booking-platform/internal/otp"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, otp.ErrNotFound) {
		return domain.ErrRecordNotFound
	}
	return err
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Business
// --------------------------------------------------

func (r *AppointmentGormRepository) GetBusinessByID(
	ctx context.Context,
	id uint,
) (*models.Business, error) {

	var b models.Business
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *AppointmentGormRepository) LockSchedule(
	ctx context.Context,
	businessID uint,
) error {

	var b models.Business
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&b, businessID).Error; err != nil {
		return notFound(err)
	}
	return nil
}

func (r *AppointmentGormRepository) GetBusinessBySlug(
	ctx context.Context,
	slug string,
) (*models.Business, error) {

	var b models.Business
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&b).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", serviceID, businessID).
		First(&svc).Error; err != nil {
		return nil, notFound(err)
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) ListServices(
	ctx context.Context,
	businessID uint,
) ([]models.Service, error) {

	var out []models.Service
	if err := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// --------------------------------------------------
// Working hours
// --------------------------------------------------

func (r *AppointmentGormRepository) GetWorkingHours(
	ctx context.Context,
	businessID uint,
	weekday int,
) (*models.WorkingHours, error) {

	var wh models.WorkingHours
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND weekday = ?", businessID, weekday).
		First(&wh).Error; err != nil {
		return nil, notFound(err)
	}
	return &wh, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ap).Error
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) GetAppointmentForUpdate(
	ctx context.Context,
	businessID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND business_id = ?", appointmentID, businessID).
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ap).Error
}

func (r *AppointmentGormRepository) ListBlockingAppointments(
	ctx context.Context,
	businessID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Where("business_id = ?", businessID).
		Where("status IN ?", domain.BlockingStatuses()).
		Where("start_time IS NOT NULL AND end_time IS NOT NULL").
		Where("start_time < ? AND end_time > ?", end, start)

	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var apps []models.Appointment
	if err := q.Order("start_time ASC").Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	businessID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"business_id = ? AND start_time >= ? AND start_time < ?",
			businessID, start, end,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListAppointmentsByStatus(
	ctx context.Context,
	businessID uint,
	statuses ...domain.Status,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if len(statuses) > 0 {
		raw := make([]string, 0, len(statuses))
		for _, s := range statuses {
			raw = append(raw, string(s))
		}
		q = q.Where("status IN ?", raw)
	}

	var apps []models.Appointment
	if err := q.
		Order("start_time DESC NULLS LAST").
		Order("id DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

func (r *AppointmentGormRepository) CountAppointmentsByStatus(
	ctx context.Context,
	businessID uint,
) (map[domain.Status]int64, error) {

	var rows []struct {
		Status string
		Total  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) AS total").
		Where("business_id = ?", businessID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		out[domain.Status(row.Status)] = row.Total
	}
	return out, nil
}

func (r *AppointmentGormRepository) FindLatestAppointmentByPhone(
	ctx context.Context,
	businessID uint,
	phone string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND client_phone = ? AND status <> ?",
			businessID, phone, string(domain.StatusCancelled),
		).
		Order("created_at DESC").
		Order("id DESC").
		First(&ap).Error; err != nil {
		return nil, notFound(err)
	}
	return &ap, nil
}

// --------------------------------------------------
// Change request
// --------------------------------------------------

func (r *AppointmentGormRepository) CreateChangeRequest(
	ctx context.Context,
	cr *models.ChangeRequest,
) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(cr).Error
}

func (r *AppointmentGormRepository) GetChangeRequest(
	ctx context.Context,
	businessID uint,
	id uint,
) (*models.ChangeRequest, error) {

	var cr models.ChangeRequest
	if err := r.db.WithContext(ctx).
		Select("change_requests.*").
		Joins("JOIN appointments ON appointments.id = change_requests.appointment_id").
		Where("change_requests.id = ? AND appointments.business_id = ?", id, businessID).
		First(&cr).Error; err != nil {
		return nil, notFound(err)
	}
	return &cr, nil
}

func (r *AppointmentGormRepository) ListChangeRequests(
	ctx context.Context,
	businessID uint,
) ([]models.ChangeRequest, error) {

	var out []models.ChangeRequest
	if err := r.db.WithContext(ctx).
		Select("change_requests.*").
		Joins("JOIN appointments ON appointments.id = change_requests.appointment_id").
		Where("appointments.business_id = ? AND change_requests.status = ?",
			businessID, models.ChangeRequestPending,
		).
		Order("change_requests.created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AppointmentGormRepository) DeleteChangeRequest(
	ctx context.Context,
	id uint,
) error {
	res := r.db.WithContext(ctx).Delete(&models.ChangeRequest{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

// --------------------------------------------------
// Arrival OTP
// --------------------------------------------------

func (r *AppointmentGormRepository) SaveOTP(
	ctx context.Context,
	o *models.OTP,
) error {
	return otp.NewGormStore(r.db).Create(ctx, o)
}

func (r *AppointmentGormRepository) LatestOTP(
	ctx context.Context,
	phone string,
	purpose string,
) (*models.OTP, error) {

	o, err := otp.NewGormStore(r.db).LatestRecord(ctx, otp.Purpose(purpose), phone)
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
