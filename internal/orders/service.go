package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	product "github.com/Nivethan26/farmers-gate-backend/internal/products"
	"github.com/Nivethan26/farmers-gate-backend/internal/pricing"
	"github.com/Nivethan26/farmers-gate-backend/pkg/db/models"
	"github.com/Nivethan26/farmers-gate-backend/pkg/enums"
	pkgerrors "github.com/Nivethan26/farmers-gate-backend/pkg/errors"
	"github.com/Nivethan26/farmers-gate-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines order operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error)
	Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.Order], error)
	ListMine(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error)
	ListForSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo        Repository
	products    product.Repository
	ledger      LoyaltyLedger
	tx          txRunner
	earnDivisor int
	now         func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, products product.Repository, ledger LoyaltyLedger, tx txRunner, earnDivisor int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if ledger == nil {
		return nil, fmt.Errorf("loyalty ledger required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if earnDivisor <= 0 {
		return nil, fmt.Errorf("loyalty earn divisor must be positive")
	}
	return &service{
		repo:        repo,
		products:    products,
		ledger:      ledger,
		tx:          tx,
		earnDivisor: earnDivisor,
		now:         time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.BuyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	if strings.TrimSpace(input.Address) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	if strings.TrimSpace(input.ReceiptURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment receipt is required")
	}
	if input.RedeemedPoints < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "redeemed points cannot be negative")
	}
	for _, item := range input.Items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
		}
		if item.Qty < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "qty must be at least 1")
		}
	}

	var created *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)

		if input.RedeemedPoints > 0 {
			balance, err := s.ledger.Balance(ctx, tx, input.BuyerID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty balance")
			}
			if input.RedeemedPoints > balance {
				return pkgerrors.New(pkgerrors.CodeValidation, "redeemed points exceed loyalty balance")
			}
		}

		frozen := make([]models.OrderItem, 0, len(input.Items))
		lines := make([]pricing.LineItem, 0, len(input.Items))
		for _, item := range input.Items {
			p, err := products.FindByID(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", item.ProductID))
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}

			ok, err := products.DecrementStock(ctx, p.ID, item.Qty)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock,
					fmt.Sprintf("insufficient stock for %s", p.Name)).
					WithDetails(map[string]any{"product_id": p.ID, "requested": item.Qty})
			}

			frozen = append(frozen, models.OrderItem{
				ProductID:   p.ID,
				ProductName: p.Name,
				SellerID:    p.SellerID,
				SellerName:  p.SellerName,
				Qty:         item.Qty,
				PricePerKg:  p.PricePerKg,
			})
			lines = append(lines, pricing.LineItem{PricePerKg: p.PricePerKg, Qty: item.Qty})
		}

		quote := pricing.Compute(lines, input.RedeemedPoints)
		redeemed := int(quote.Discount.IntPart())
		if redeemed > 0 {
			ok, err := s.ledger.Adjust(ctx, tx, input.BuyerID, -redeemed)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit loyalty points")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "redeemed points exceed loyalty balance")
			}
		}

		order := &models.Order{
			BuyerID:        input.BuyerID,
			BuyerName:      input.BuyerName,
			BuyerEmail:     input.BuyerEmail,
			Address:        strings.TrimSpace(input.Address),
			Subtotal:       quote.Subtotal,
			DeliveryFee:    quote.DeliveryFee,
			Total:          quote.Total,
			RedeemedPoints: redeemed,
			Status:         enums.OrderStatusPending,
			ReceiptURL:     strings.TrimSpace(input.ReceiptURL),
			Items:          frozen,
		}

		saved, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		created = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if err := authorizeStatusChange(order, input); err != nil {
			return err
		}

		if order.Status == input.Target {
			updated = order
			return nil
		}

		if input.ActorRole != enums.UserRoleAdmin && !canTransition(order.Status, input.Target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Target))
		}

		now := s.now()
		updates := map[string]any{"status": input.Target}

		if input.Target == enums.OrderStatusPaid && order.PaidAt == nil {
			updates["paid_at"] = now
			order.PaidAt = &now
		}
		if input.Target == enums.OrderStatusDelivered && order.DeliveredAt == nil {
			updates["delivered_at"] = now
			order.DeliveredAt = &now

			earned := int(order.Total.Div(decimal.NewFromInt(int64(s.earnDivisor))).IntPart())
			if earned > 0 {
				if _, err := s.ledger.Adjust(ctx, tx, order.BuyerID, earned); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit loyalty points")
				}
				updates["points_earned"] = earned
				order.PointsEarned = earned
			}
		}

		if err := repo.UpdateFields(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		order.Status = input.Target
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *service) Get(ctx context.Context, actorID uuid.UUID, actorRole enums.UserRole, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	switch actorRole {
	case enums.UserRoleAdmin:
		return order, nil
	case enums.UserRoleBuyer:
		if order.BuyerID == actorID {
			return order, nil
		}
	case enums.UserRoleSeller:
		if orderHasSellerItem(order, actorID) {
			return order, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order is not visible to this account")
}

func (s *service) List(ctx context.Context, filters ListFilters, params pagination.Params) (*pagination.Page[models.Order], error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	page, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return page, nil
}

func (s *service) ListMine(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	page, err := s.repo.ListByBuyer(ctx, buyerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	return page, nil
}

func (s *service) ListForSeller(ctx context.Context, sellerID uuid.UUID, params pagination.Params) (*pagination.Page[models.Order], error) {
	if sellerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	page, err := s.repo.ListBySeller(ctx, sellerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller orders")
	}
	return page, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order stats")
	}
	return stats, nil
}

func authorizeStatusChange(order *models.Order, input UpdateStatusInput) error {
	switch input.ActorRole {
	case enums.UserRoleAdmin:
		return nil
	case enums.UserRoleSeller:
		if !orderHasSellerItem(order, input.ActorID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order has no items from this seller")
		}
		if input.Target != enums.OrderStatusProcessing && input.Target != enums.OrderStatusDelivered {
			return pkgerrors.New(pkgerrors.CodeForbidden, "sellers may only mark orders processing or delivered")
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role cannot update order status")
	}
}

// canTransition encodes the order state machine:
// pending -> paid | processing | cancelled, paid -> processing,
// paid/processing -> delivered. delivered and cancelled are terminal.
func canTransition(from, to enums.OrderStatus) bool {
	switch from {
	case enums.OrderStatusPending:
		return to == enums.OrderStatusPaid || to == enums.OrderStatusProcessing || to == enums.OrderStatusCancelled
	case enums.OrderStatusPaid:
		return to == enums.OrderStatusProcessing || to == enums.OrderStatusDelivered
	case enums.OrderStatusProcessing:
		return to == enums.OrderStatusDelivered
	default:
		return false
	}
}

func orderHasSellerItem(order *models.Order, sellerID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}
