package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/BruksfildServices01/booking-platform/internal/models"
)

// ErrRecordNotFound é devolvido pelos repositórios quando a linha não existe
// ou pertence a outro negócio.
var ErrRecordNotFound = errors.New("record not found")

type Repository interface {
	// -------- Transaction --------
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Business --------
	GetBusinessByID(
		ctx context.Context,
		id uint,
	) (*models.Business, error)

	GetBusinessBySlug(
		ctx context.Context,
		slug string,
	) (*models.Business, error)

	// LockSchedule serializa reservas e remarcações do mesmo negócio
	// (SELECT ... FOR UPDATE na linha do negócio). Chamar dentro de
	// Transaction, antes de ListBlockingAppointments.
	LockSchedule(
		ctx context.Context,
		businessID uint,
	) error

	// -------- Service --------
	GetService(
		ctx context.Context,
		businessID uint,
		serviceID uint,
	) (*models.Service, error)

	ListServices(
		ctx context.Context,
		businessID uint,
	) ([]models.Service, error)

	// -------- Working hours --------
	GetWorkingHours(
		ctx context.Context,
		businessID uint,
		weekday int,
	) (*models.WorkingHours, error)

	// -------- Appointment --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	// GetAppointmentForUpdate trava a linha (SELECT ... FOR UPDATE);
	// só faz sentido dentro de Transaction.
	GetAppointmentForUpdate(
		ctx context.Context,
		businessID uint,
		appointmentID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	// ListBlockingAppointments devolve agendamentos que ocupam a agenda e
	// cruzam [start, end). excludeID = 0 não exclui nada.
	ListBlockingAppointments(
		ctx context.Context,
		businessID uint,
		start time.Time,
		end time.Time,
		excludeID uint,
	) ([]models.Appointment, error)

	ListAppointmentsForPeriod(
		ctx context.Context,
		businessID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsByStatus(
		ctx context.Context,
		businessID uint,
		statuses ...Status,
	) ([]models.Appointment, error)

	CountAppointmentsByStatus(
		ctx context.Context,
		businessID uint,
	) (map[Status]int64, error)

	FindLatestAppointmentByPhone(
		ctx context.Context,
		businessID uint,
		phone string,
	) (*models.Appointment, error)

	// -------- Change request --------
	CreateChangeRequest(
		ctx context.Context,
		cr *models.ChangeRequest,
	) error

	GetChangeRequest(
		ctx context.Context,
		businessID uint,
		id uint,
	) (*models.ChangeRequest, error)

	ListChangeRequests(
		ctx context.Context,
		businessID uint,
	) ([]models.ChangeRequest, error)

	DeleteChangeRequest(
		ctx context.Context,
		id uint,
	) error

	// -------- Arrival OTP --------
	SaveOTP(
		ctx context.Context,
		otp *models.OTP,
	) error

	LatestOTP(
		ctx context.Context,
		phone string,
		purpose string,
	) (*models.OTP, error)
}
