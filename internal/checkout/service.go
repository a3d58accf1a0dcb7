package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/vitrina-app/vitrina-backend/internal/cart"
	"github.com/vitrina-app/vitrina-backend/internal/orders"
	"github.com/vitrina-app/vitrina-backend/pkg/db/models"
	"github.com/vitrina-app/vitrina-backend/pkg/enums"
	pkgerrors "github.com/vitrina-app/vitrina-backend/pkg/errors"
	"github.com/vitrina-app/vitrina-backend/pkg/logger"
	"github.com/vitrina-app/vitrina-backend/pkg/outbox"
	"github.com/vitrina-app/vitrina-backend/pkg/redis"
)

const idempotencyScope = "checkout"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type inventoryConsumer interface {
	ConsumeProduct(ctx context.Context, tx *gorm.DB, productID uuid.UUID, quantity decimal.Decimal) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type paymentMethodLoader interface {
	FindActive(ctx context.Context, id uuid.UUID) (*models.PaymentMethod, error)
}

// SubmitInput carries everything needed to turn a cart into an order.
type SubmitInput struct {
	StoreID        uuid.UUID
	SessionID      string
	Form           Form
	IdempotencyKey string
}

// Service executes checkout submission.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*models.Order, error)
}

type service struct {
	tx        txRunner
	cartRepo  cart.Repository
	orderRepo orders.Repository
	payments  paymentMethodLoader
	inventory inventoryConsumer
	outbox    outboxPublisher
	idem      redis.IdempotencyStore
	idemTTL   time.Duration
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the checkout service. The idempotency store is
// optional; passing nil disables duplicate-submission protection.
func NewService(
	tx txRunner,
	cartRepo cart.Repository,
	orderRepo orders.Repository,
	payments paymentMethodLoader,
	inventory inventoryConsumer,
	publisher outboxPublisher,
	idem redis.IdempotencyStore,
	idemTTL time.Duration,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment method loader required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory consumer required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:        tx,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
		payments:  payments,
		inventory: inventory,
		outbox:    publisher,
		idem:      idem,
		idemTTL:   idemTTL,
		logg:      logg,
		now:       time.Now,
	}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*models.Order, error) {
	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id required")
	}
	if input.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id required")
	}
	if errs := ValidateAll(input.Form); !errs.Valid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout form is invalid").WithDetails(errs)
	}

	if _, err := s.payments.FindActive(ctx, input.Form.PaymentMethodID); err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
			details := ValidationErrors{"paymentMethod": "payment method is inactive or unknown"}
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout form is invalid").WithDetails(details)
		}
		return nil, err
	}

	idemKey, err := s.claimIdempotency(ctx, input.IdempotencyKey)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		orderRepo := s.orderRepo.WithTx(tx)

		record, err := cartRepo.FindActiveCart(ctx, input.StoreID, input.SessionID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart is empty")
		}

		payload := BuildOrderPayload(input.Form, *record)

		order = &models.Order{
			StoreID:         record.StoreID,
			CartID:          record.ID,
			Status:          enums.OrderStatusPending,
			CustomerName:    payload.CustomerName,
			CustomerPhone:   payload.CustomerPhone,
			CustomerEmail:   payload.CustomerEmail,
			DeliveryMethod:  payload.DeliveryMethod,
			ShippingAddress: payload.ShippingAddress,
			PaymentMethodID: payload.PaymentMethodID,
			Notes:           payload.Notes,
			TotalAmount:     payload.TotalAmount,
			ItemsCount:      payload.ItemsCount,
		}
		if _, err := orderRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		items := make([]models.OrderItem, 0, len(record.Items))
		for _, line := range record.Items {
			qty := decimal.NewFromInt(int64(line.Quantity))
			items = append(items, models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				VariantID: line.VariantID,
				UnitPrice: line.UnitPrice,
				Quantity:  line.Quantity,
				LineTotal: line.UnitPrice.Mul(qty).Round(2),
			})
			if err := s.inventory.ConsumeProduct(ctx, tx, line.ProductID, qty); err != nil {
				return err
			}
		}
		if err := orderRepo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		convertedAt := s.now()
		updates := map[string]any{
			"status":       enums.CartStatusConverted,
			"converted_at": convertedAt,
		}
		if err := cartRepo.UpdateCart(ctx, record.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "convert cart")
		}

		if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventOrderSubmitted,
			AggregateType: enums.OutboxAggregateOrder,
			AggregateID:   order.ID,
			Data:          payload,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "queue order event")
		}
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.OutboxEventCartConverted,
			AggregateType: enums.OutboxAggregateCart,
			AggregateID:   record.ID,
			Data: map[string]any{
				"cartId":      record.ID,
				"orderId":     order.ID,
				"convertedAt": convertedAt,
			},
		})
	})
	if err != nil {
		s.releaseIdempotency(ctx, idemKey)
		return nil, err
	}

	fields := map[string]any{
		"order_id": order.ID.String(),
		"store_id": input.StoreID.String(),
		"total":    order.TotalAmount.String(),
	}
	s.logg.Info(s.logg.WithFields(ctx, fields), "checkout submitted")
	return order, nil
}

// claimIdempotency reserves the submission key, returning the namespaced
// key for rollback. A key that is already held means a duplicate submit.
func (s *service) claimIdempotency(ctx context.Context, key string) (string, error) {
	if s.idem == nil || key == "" {
		return "", nil
	}
	namespaced := s.idem.IdempotencyKey(idempotencyScope, key)
	ok, err := s.idem.SetNX(ctx, namespaced, "pending", s.idemTTL)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reserve idempotency key")
	}
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeIdempotency, "checkout already submitted")
	}
	return namespaced, nil
}

func (s *service) releaseIdempotency(ctx context.Context, namespaced string) {
	if s.idem == nil || namespaced == "" {
		return
	}
	if err := s.idem.Del(ctx, namespaced); err != nil {
		s.logg.Warn(ctx, "idempotency key release failed")
	}
}
