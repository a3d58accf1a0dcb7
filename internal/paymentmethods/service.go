package paymentmethods

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
)

// Service exposes payment method management for a store.
type Service interface {
	List(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]models.PaymentMethod, error)
	FindActive(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error)
	Create(ctx context.Context, storeID uuid.UUID, name string) (*models.PaymentMethod, error)
	Toggle(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds a payment methods service backed by the provided DB.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: db}, nil
}

func (s *service) List(ctx context.Context, storeID uuid.UUID, activeOnly bool) ([]models.PaymentMethod, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	query := s.db.WithContext(ctx).Where("store_id = ?", storeID)
	if activeOnly {
		query = query.Where("is_active = true")
	}
	var methods []models.PaymentMethod
	if err := query.Order("created_at ASC").Find(&methods).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payment methods")
	}
	return methods, nil
}

func (s *service) FindActive(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method id required")
	}
	var method models.PaymentMethod
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_active = true", id).
		First(&method).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active payment method not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment method")
	}
	return &method, nil
}

func (s *service) Create(ctx context.Context, storeID uuid.UUID, name string) (*models.PaymentMethod, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}
	method := &models.PaymentMethod{StoreID: storeID, Name: name, IsActive: true}
	if err := s.db.WithContext(ctx).Create(method).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment method")
	}
	return method, nil
}

func (s *service) Toggle(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment method id required")
	}
	var method models.PaymentMethod
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		First(&method).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment method not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment method")
	}

	method.IsActive = !method.IsActive
	err = s.db.WithContext(ctx).
		Model(&models.PaymentMethod{}).
		Where("id = ?", id).
		Update("is_active", method.IsActive).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment method")
	}
	return &method, nil
}
