package tickets

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrDuplicateOrder signals that a ticket already exists for the order id.
// The unique index on order_id is what makes replayed settlement callbacks
// converge on a single ticket.
var ErrDuplicateOrder = errors.New("ticket already exists for order")

// ErrNotFound signals a missing ticket
var ErrNotFound = errors.New("ticket not found")

type Repository interface {
	Create(ctx context.Context, ticket *Ticket) error
	GetByOrderID(ctx context.Context, orderID string) (*Ticket, error)
	GetByEmail(ctx context.Context, email string) ([]Ticket, error)
	List(ctx context.Context, limit, offset int) ([]Ticket, int64, error)
	UpdateStatus(ctx context.Context, orderID string, status string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, ticket *Ticket) error {
	err := r.db.WithContext(ctx).Create(ticket).Error
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateOrder
		}
		return err
	}
	return nil
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) ([]Ticket, error) {
	var result []Ticket
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("purchase_date DESC").
		Find(&result).Error
	return result, err
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Ticket, int64, error) {
	var result []Ticket
	var total int64

	if err := r.db.WithContext(ctx).Model(&Ticket{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("purchase_date DESC").
		Limit(limit).
		Offset(offset).
		Find(&result).Error
	return result, total, err
}

func (r *repository) UpdateStatus(ctx context.Context, orderID string, status string) error {
	res := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isUniqueViolation reports whether err is a postgres unique-constraint error
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key")
}
