package auth

import (
	"context"
	"errors"

	"musetix/internal/operators"

	"gorm.io/gorm"
)

type Repository interface {
	CreateOperator(ctx context.Context, user *operators.Operator) error
	GetOperatorByEmail(ctx context.Context, email string) (*operators.Operator, error)
	GetOperatorByID(ctx context.Context, id string) (*operators.Operator, error)
	UpdatePassword(ctx context.Context, userID string, hashedPassword string) error
	EmailExists(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{
		db: db,
	}
}

func (r *repository) CreateOperator(ctx context.Context, user *operators.Operator) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}
	return nil
}

func (r *repository) GetOperatorByEmail(ctx context.Context, email string) (*operators.Operator, error) {
	var user operators.Operator
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) GetOperatorByID(ctx context.Context, id string) (*operators.Operator, error) {
	var user operators.Operator
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdatePassword(ctx context.Context, userID string, hashedPassword string) error {
	result := r.db.WithContext(ctx).Model(&operators.Operator{}).
		Where("id = ?", userID).
		Update("password", hashedPassword)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrOperatorNotFound
	}

	return nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&operators.Operator{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
