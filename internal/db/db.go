package db

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/booking-platform/internal/config"
	domain "github.com/BruksfildServices01/booking-platform/internal/domain/appointment"
	"github.com/BruksfildServices01/booking-platform/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.Business{},
		&models.User{},
		&models.Service{},
		&models.WorkingHours{},
		&models.Appointment{},
		&models.ChangeRequest{},
		&models.OTP{},
		&models.Feedback{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := db.Exec(`
        UPDATE businesses
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, cfg.BusinessTimezone).Error; err != nil {
		return nil, fmt.Errorf("backfill timezone: %w", err)
	}

	ensureNoOverlap(db)

	if err := SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return nil, err
	}

	return db, nil
}

const overlapConstraint = "appointments_no_overlap"

// overlapConstraintSQL recusa no banco dois agendamentos que ocupam a
// agenda com horários sobrepostos no mesmo negócio (erro 23P01).
func overlapConstraintSQL() string {
	statuses := domain.BlockingStatuses()
	quoted := make([]string, 0, len(statuses))
	for _, s := range statuses {
		quoted = append(quoted, "'"+s+"'")
	}

	return fmt.Sprintf(`
        ALTER TABLE appointments ADD CONSTRAINT %s
        EXCLUDE USING gist (
            business_id WITH =,
            tstzrange(start_time, end_time, '[)') WITH &&
        )
        WHERE (start_time IS NOT NULL AND end_time IS NOT NULL AND status IN (%s))
    `, overlapConstraint, strings.Join(quoted, ", "))
}

// ensureNoOverlap cria a constraint uma única vez. Sem permissão para
// btree_gist segue só com o lock de agenda dos use cases.
func ensureNoOverlap(db *gorm.DB) {
	var count int64
	if err := db.Raw(
		"SELECT COUNT(*) FROM pg_constraint WHERE conname = ?", overlapConstraint,
	).Scan(&count).Error; err != nil {
		slog.Warn("overlap constraint check failed", "err", err)
		return
	}
	if count > 0 {
		return
	}

	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS btree_gist").Error; err != nil {
		slog.Warn("btree_gist unavailable, overlap constraint skipped", "err", err)
		return
	}
	if err := db.Exec(overlapConstraintSQL()).Error; err != nil {
		slog.Warn("overlap constraint not created", "err", err)
		return
	}

	slog.Info("overlap constraint created", "name", overlapConstraint)
}

// SeedAdmin cria a conta de admin da plataforma se ainda não existir.
// Sem ADMIN_EMAIL/ADMIN_PASSWORD não faz nada.
func SeedAdmin(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.User{
		Name:         "Admin",
		Email:        email,
		PasswordHash: string(hashed),
		Role:         models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	slog.Info("admin account seeded", "email", email)
	return nil
}
