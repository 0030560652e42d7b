package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// ErrNotFound signals a missing payment intent
var ErrNotFound = errors.New("payment intent not found")

type Repository interface {
	Create(ctx context.Context, intent *PaymentIntent) error
	GetByOrderID(ctx context.Context, orderID string) (*PaymentIntent, error)
	List(ctx context.Context, limit, offset int) ([]PaymentIntent, int64, error)

	// MarkPaid transitions created -> paid, recording the gateway payment id.
	// Returns true when this call performed the transition; false when the
	// intent was already in a terminal state (replayed callback).
	MarkPaid(ctx context.Context, orderID, paymentID string) (bool, error)

	// MarkFailed transitions created -> failed. A no-op for terminal intents.
	MarkFailed(ctx context.Context, orderID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, intent *PaymentIntent) error {
	err := r.db.WithContext(ctx).Create(intent).Error
	if err != nil {
		if isUniqueViolation(err) {
			return ErrStoreConflict
		}
		return err
	}
	return nil
}

func (r *repository) GetByOrderID(ctx context.Context, orderID string) (*PaymentIntent, error) {
	var intent PaymentIntent
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&intent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &intent, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]PaymentIntent, int64, error) {
	var result []PaymentIntent
	var total int64

	if err := r.db.WithContext(ctx).Model(&PaymentIntent{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&result).Error
	return result, total, err
}

func (r *repository) MarkPaid(ctx context.Context, orderID, paymentID string) (bool, error) {
	// The guarded update is the settlement commit point: only one caller can
	// win the created -> paid transition, concurrent or replayed callbacks see
	// zero rows affected.
	res := r.db.WithContext(ctx).Model(&PaymentIntent{}).
		Where("order_id = ? AND status = ?", orderID, StatusCreated).
		Updates(map[string]interface{}{
			"status":     StatusPaid,
			"payment_id": paymentID,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) MarkFailed(ctx context.Context, orderID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&PaymentIntent{}).
		Where("order_id = ? AND status = ?", orderID, StatusCreated).
		Updates(map[string]interface{}{
			"status":     StatusFailed,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// isUniqueViolation reports whether err is a postgres unique-constraint error
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") || strings.Contains(msg, "duplicate key")
}
