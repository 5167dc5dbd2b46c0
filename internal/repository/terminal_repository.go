package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	terminalDomain "github.com/portlink/terminal-booking/internal/domain/terminal"
	"github.com/portlink/terminal-booking/pkg/apperrors"
)

// TerminalModel is the GORM model for the terminals table.
type TerminalModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"not null;size:255"`
	Status         string    `gorm:"not null;size:20;index"`
	MaxSlots       int       `gorm:"not null"`
	AvailableSlots int       `gorm:"not null"`
	CoordX         float64   `gorm:"not null"`
	CoordY         float64   `gorm:"not null"`
	CreatedAt      time.Time `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (TerminalModel) TableName() string { return "terminals" }

// GormTerminalRepository is the GORM-based implementation of the terminal
// Repository contract.
type GormTerminalRepository struct {
	db *gorm.DB
}

// NewGormTerminalRepository creates a new GormTerminalRepository.
func NewGormTerminalRepository(db *gorm.DB) *GormTerminalRepository {
	return &GormTerminalRepository{db: db}
}

// FindByID retrieves a terminal by its unique identifier.
func (r *GormTerminalRepository) FindByID(ctx context.Context, id uuid.UUID) (*terminalDomain.Terminal, error) {
	var model TerminalModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("terminal", id.String())
		}
		return nil, fmt.Errorf("failed to find terminal by ID: %w", err)
	}
	return toDomainTerminal(&model), nil
}

// ListAll retrieves terminals with pagination.
func (r *GormTerminalRepository) ListAll(ctx context.Context, page, limit int) ([]*terminalDomain.Terminal, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&TerminalModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count terminals: %w", err)
	}

	var models []TerminalModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list terminals: %w", err)
	}

	terminals := make([]*terminalDomain.Terminal, len(models))
	for i, m := range models {
		terminals[i] = toDomainTerminal(&m)
	}
	return terminals, total, nil
}

// Save persists a new terminal.
func (r *GormTerminalRepository) Save(ctx context.Context, t *terminalDomain.Terminal) error {
	if err := r.db.WithContext(ctx).Create(toTerminalModel(t)).Error; err != nil {
		return fmt.Errorf("failed to save terminal: %w", err)
	}
	return nil
}

// Update persists changes to an existing terminal.
func (r *GormTerminalRepository) Update(ctx context.Context, t *terminalDomain.Terminal) error {
	model := toTerminalModel(t)
	result := r.db.WithContext(ctx).
		Model(&TerminalModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"name":            model.Name,
			"status":          model.Status,
			"max_slots":       model.MaxSlots,
			"available_slots": model.AvailableSlots,
			"coord_x":         model.CoordX,
			"coord_y":         model.CoordY,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update terminal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("terminal", model.ID.String())
	}
	return nil
}

// --- Conversion Helpers ---

func toTerminalModel(t *terminalDomain.Terminal) *TerminalModel {
	return &TerminalModel{
		ID:             t.ID(),
		Name:           t.Name(),
		Status:         string(t.Status()),
		MaxSlots:       t.MaxSlots(),
		AvailableSlots: t.AvailableSlots(),
		CoordX:         t.CoordX(),
		CoordY:         t.CoordY(),
		CreatedAt:      t.CreatedAt(),
		UpdatedAt:      t.UpdatedAt(),
	}
}

func toDomainTerminal(m *TerminalModel) *terminalDomain.Terminal {
	return terminalDomain.Reconstruct(
		m.ID,
		m.Name,
		terminalDomain.Status(m.Status),
		m.MaxSlots,
		m.AvailableSlots,
		m.CoordX,
		m.CoordY,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
