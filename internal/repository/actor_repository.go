package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	actorDomain "github.com/portlink/terminal-booking/internal/domain/actor"
	"github.com/portlink/terminal-booking/pkg/apperrors"
)

// UserModel is the GORM model for the users table.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string    `gorm:"not null;size:255"`
	Role         string    `gorm:"not null;size:20;index"`
	IsActive     bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (UserModel) TableName() string { return "users" }

// OperatorProfileModel is the GORM model for operator_profiles.
type OperatorProfileModel struct {
	UserID     uuid.UUID  `gorm:"type:uuid;primaryKey"`
	FirstName  string     `gorm:"not null;size:100"`
	LastName   string     `gorm:"not null;size:100"`
	Phone      string     `gorm:"size:20"`
	TerminalID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for the GORM model.
func (OperatorProfileModel) TableName() string { return "operator_profiles" }

// CarrierProfileModel is the GORM model for carrier_profiles.
type CarrierProfileModel struct {
	UserID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName        string    `gorm:"not null;size:100"`
	LastName         string    `gorm:"not null;size:100"`
	Phone            string    `gorm:"size:20"`
	CompanyName      string    `gorm:"size:255"`
	Status           string    `gorm:"not null;size:20;index"`
	ProofDocumentURL string    `gorm:"type:text"`
}

// TableName returns the table name for the GORM model.
func (CarrierProfileModel) TableName() string { return "carrier_profiles" }

// DriverProfileModel is the GORM model for driver_profiles.
type DriverProfileModel struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	CarrierID   uuid.UUID `gorm:"type:uuid;index;not null"`
	FirstName   string    `gorm:"not null;size:100"`
	LastName    string    `gorm:"not null;size:100"`
	Phone       string    `gorm:"size:20"`
	TruckNumber string    `gorm:"size:50"`
	TruckPlate  string    `gorm:"size:50"`
	Status      string    `gorm:"not null;size:20"`
}

// TableName returns the table name for the GORM model.
func (DriverProfileModel) TableName() string { return "driver_profiles" }

// GormActorRepository is the GORM-based implementation of the actor
// Repository contract.
type GormActorRepository struct {
	db *gorm.DB
}

// NewGormActorRepository creates a new GormActorRepository.
func NewGormActorRepository(db *gorm.DB) *GormActorRepository {
	return &GormActorRepository{db: db}
}

// FindByID retrieves an actor and its role profile.
func (r *GormActorRepository) FindByID(ctx context.Context, id uuid.UUID) (*actorDomain.Actor, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user", id.String())
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return r.hydrate(ctx, &model)
}

// FindByEmail retrieves an actor by login email.
func (r *GormActorRepository) FindByEmail(ctx context.Context, email string) (*actorDomain.Actor, error) {
	var model UserModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("user", email)
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return r.hydrate(ctx, &model)
}

// ListAll retrieves actors with pagination.
func (r *GormActorRepository) ListAll(ctx context.Context, page, limit int) ([]*actorDomain.Actor, int64, error) {
	return r.listWhere(ctx, r.db.WithContext(ctx).Model(&UserModel{}), page, limit)
}

// ListByRole retrieves actors of a given role with pagination.
func (r *GormActorRepository) ListByRole(ctx context.Context, role actorDomain.Role, page, limit int) ([]*actorDomain.Actor, int64, error) {
	q := r.db.WithContext(ctx).Model(&UserModel{}).Where("role = ?", string(role))
	return r.listWhere(ctx, q, page, limit)
}

func (r *GormActorRepository) listWhere(ctx context.Context, q *gorm.DB, page, limit int) ([]*actorDomain.Actor, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var models []UserModel
	offset := (page - 1) * limit
	if err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	actors := make([]*actorDomain.Actor, len(models))
	for i, m := range models {
		a, err := r.hydrate(ctx, &m)
		if err != nil {
			return nil, 0, err
		}
		actors[i] = a
	}
	return actors, total, nil
}

// ListDriversByCarrier retrieves all drivers owned by a carrier.
func (r *GormActorRepository) ListDriversByCarrier(ctx context.Context, carrierID uuid.UUID) ([]*actorDomain.Actor, error) {
	var profiles []DriverProfileModel
	if err := r.db.WithContext(ctx).Where("carrier_id = ?", carrierID).Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list driver profiles: %w", err)
	}

	actors := make([]*actorDomain.Actor, 0, len(profiles))
	for _, p := range profiles {
		a, err := r.FindByID(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		actors = append(actors, a)
	}
	return actors, nil
}

// Save persists a new actor and its role profile in one transaction.
func (r *GormActorRepository) Save(ctx context.Context, a *actorDomain.Actor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := toUserModel(a)
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.NewConflictError("email already registered")
			}
			return fmt.Errorf("failed to insert user: %w", err)
		}
		return r.saveProfile(tx, a)
	})
}

// Update persists changes to an existing actor and its profile.
func (r *GormActorRepository) Update(ctx context.Context, a *actorDomain.Actor) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user := toUserModel(a)
		result := tx.Model(&UserModel{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"email":      user.Email,
			"is_active":  user.IsActive,
			"updated_at": user.UpdatedAt,
		})
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return apperrors.NewConflictError("email already registered")
			}
			return fmt.Errorf("failed to update user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.NewNotFoundError("user", user.ID.String())
		}
		return r.updateProfile(tx, a)
	})
}

// Purge deletes the actor and every record referencing it in one
// transaction: notifications, bookings (as carrier or driver), the role
// profile, and finally the user row. Cancellation is a status transition;
// this cascade is the only path that physically deletes bookings.
func (r *GormActorRepository) Purge(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user UserModel
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NewNotFoundError("user", id.String())
			}
			return fmt.Errorf("failed to load user for purge: %w", err)
		}

		if err := tx.Where("user_id = ?", id).Delete(&NotificationModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete notifications: %w", err)
		}
		if err := tx.Where("carrier_id = ? OR driver_id = ?", id, id).Delete(&BookingModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete bookings: %w", err)
		}

		switch actorDomain.Role(user.Role) {
		case actorDomain.RoleOperator:
			if err := tx.Where("user_id = ?", id).Delete(&OperatorProfileModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete operator profile: %w", err)
			}
		case actorDomain.RoleCarrier:
			if err := tx.Where("user_id = ?", id).Delete(&CarrierProfileModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete carrier profile: %w", err)
			}
		case actorDomain.RoleDriver:
			if err := tx.Where("user_id = ?", id).Delete(&DriverProfileModel{}).Error; err != nil {
				return fmt.Errorf("failed to delete driver profile: %w", err)
			}
		}

		if err := tx.Where("id = ?", id).Delete(&UserModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func (r *GormActorRepository) saveProfile(tx *gorm.DB, a *actorDomain.Actor) error {
	switch {
	case a.Operator() != nil:
		return tx.Create(toOperatorProfileModel(a)).Error
	case a.Carrier() != nil:
		return tx.Create(toCarrierProfileModel(a)).Error
	case a.Driver() != nil:
		return tx.Create(toDriverProfileModel(a)).Error
	}
	return nil
}

func (r *GormActorRepository) updateProfile(tx *gorm.DB, a *actorDomain.Actor) error {
	switch {
	case a.Operator() != nil:
		p := toOperatorProfileModel(a)
		return tx.Model(&OperatorProfileModel{}).Where("user_id = ?", p.UserID).Updates(map[string]interface{}{
			"first_name":  p.FirstName,
			"last_name":   p.LastName,
			"phone":       p.Phone,
			"terminal_id": p.TerminalID,
		}).Error
	case a.Carrier() != nil:
		p := toCarrierProfileModel(a)
		return tx.Model(&CarrierProfileModel{}).Where("user_id = ?", p.UserID).Updates(map[string]interface{}{
			"first_name":         p.FirstName,
			"last_name":          p.LastName,
			"phone":              p.Phone,
			"company_name":       p.CompanyName,
			"status":             p.Status,
			"proof_document_url": p.ProofDocumentURL,
		}).Error
	case a.Driver() != nil:
		p := toDriverProfileModel(a)
		return tx.Model(&DriverProfileModel{}).Where("user_id = ?", p.UserID).Updates(map[string]interface{}{
			"first_name":   p.FirstName,
			"last_name":    p.LastName,
			"phone":        p.Phone,
			"truck_number": p.TruckNumber,
			"truck_plate":  p.TruckPlate,
			"status":       p.Status,
		}).Error
	}
	return nil
}

func (r *GormActorRepository) hydrate(ctx context.Context, m *UserModel) (*actorDomain.Actor, error) {
	role, err := actorDomain.ParseRole(m.Role)
	if err != nil {
		return nil, err
	}

	var (
		operator *actorDomain.OperatorProfile
		carrier  *actorDomain.CarrierProfile
		driver   *actorDomain.DriverProfile
	)

	switch role {
	case actorDomain.RoleOperator:
		var p OperatorProfileModel
		if err := r.db.WithContext(ctx).Where("user_id = ?", m.ID).First(&p).Error; err == nil {
			operator = &actorDomain.OperatorProfile{
				FirstName:  p.FirstName,
				LastName:   p.LastName,
				Phone:      p.Phone,
				TerminalID: p.TerminalID,
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load operator profile: %w", err)
		}
	case actorDomain.RoleCarrier:
		var p CarrierProfileModel
		if err := r.db.WithContext(ctx).Where("user_id = ?", m.ID).First(&p).Error; err == nil {
			status, err := actorDomain.ParseCarrierStatus(p.Status)
			if err != nil {
				return nil, err
			}
			carrier = &actorDomain.CarrierProfile{
				FirstName:        p.FirstName,
				LastName:         p.LastName,
				Phone:            p.Phone,
				CompanyName:      p.CompanyName,
				Status:           status,
				ProofDocumentURL: p.ProofDocumentURL,
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load carrier profile: %w", err)
		}
	case actorDomain.RoleDriver:
		var p DriverProfileModel
		if err := r.db.WithContext(ctx).Where("user_id = ?", m.ID).First(&p).Error; err == nil {
			driver = &actorDomain.DriverProfile{
				CarrierID:   p.CarrierID,
				FirstName:   p.FirstName,
				LastName:    p.LastName,
				Phone:       p.Phone,
				TruckNumber: p.TruckNumber,
				TruckPlate:  p.TruckPlate,
				Status:      actorDomain.DriverStatus(p.Status),
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to load driver profile: %w", err)
		}
	}

	return actorDomain.Reconstruct(
		m.ID,
		m.Email,
		m.PasswordHash,
		role,
		m.IsActive,
		operator,
		carrier,
		driver,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

// --- Conversion Helpers ---

func toUserModel(a *actorDomain.Actor) *UserModel {
	return &UserModel{
		ID:           a.ID(),
		Email:        a.Email(),
		PasswordHash: a.PasswordHash(),
		Role:         string(a.Role()),
		IsActive:     a.IsActive(),
		CreatedAt:    a.CreatedAt(),
		UpdatedAt:    a.UpdatedAt(),
	}
}

func toOperatorProfileModel(a *actorDomain.Actor) *OperatorProfileModel {
	p := a.Operator()
	return &OperatorProfileModel{
		UserID:     a.ID(),
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		Phone:      p.Phone,
		TerminalID: p.TerminalID,
	}
}

func toCarrierProfileModel(a *actorDomain.Actor) *CarrierProfileModel {
	p := a.Carrier()
	return &CarrierProfileModel{
		UserID:           a.ID(),
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Phone:            p.Phone,
		CompanyName:      p.CompanyName,
		Status:           string(p.Status),
		ProofDocumentURL: p.ProofDocumentURL,
	}
}

func toDriverProfileModel(a *actorDomain.Actor) *DriverProfileModel {
	p := a.Driver()
	return &DriverProfileModel{
		UserID:      a.ID(),
		CarrierID:   p.CarrierID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Phone:       p.Phone,
		TruckNumber: p.TruckNumber,
		TruckPlate:  p.TruckPlate,
		Status:      string(p.Status),
	}
}
