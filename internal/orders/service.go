// Package orders implements the order aggregate: creation, wholesale line
// replacement and total recomputation. Lines on an order in a holding
// status keep product stock in step with the inventory ledger.
package orders

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"oms-backend/internal/inventory"
	"oms-backend/internal/model"
)

// LineInput is one requested order line.
type LineInput struct {
	ProductID uint `json:"product"`
	Quantity  int  `json:"quantity"`
}

// CreateInput carries a new order request.
type CreateInput struct {
	CustomerID         *uint           `json:"customer"`
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	Items              []LineInput     `json:"items"`
	// Status may request DRAFT; anything else creates in PENDING_APPROVAL.
	Status string `json:"status"`
	// CreatedBy lets admins assign ownership; other roles own their orders.
	CreatedBy uint `json:"created_by"`
}

// UpdateInput carries an order update. Nil fields are left unchanged;
// Items, when present, replaces all lines.
type UpdateInput struct {
	CustomerID         *uint            `json:"customer"`
	DiscountPercentage *decimal.Decimal `json:"discount_percentage"`
	Items              *[]LineInput     `json:"items"`
}

// Service owns order creation and updates.
type Service struct {
	store model.Store
	log   *zap.Logger
}

// NewService builds an order service over the given store.
func NewService(store model.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// Create validates and persists a new order. Creating straight into a
// holding status reserves stock in the same transaction.
func (s *Service) Create(in CreateInput, actor model.Actor) (*model.Order, error) {
	if err := validateDiscount(in.DiscountPercentage); err != nil {
		return nil, err
	}
	if len(in.Items) == 0 {
		return nil, &model.ValidationError{Field: "items", Reason: "order must contain at least one item"}
	}

	// Orders default to PENDING_APPROVAL; DRAFT must be asked for.
	status := model.StatusPendingApproval
	if in.Status == string(model.StatusDraft) {
		status = model.StatusDraft
	}

	ownerID := actor.UserID
	if actor.IsAdmin() && in.CreatedBy != 0 {
		ownerID = in.CreatedBy
	} else if !actor.IsAdmin() && in.CreatedBy != 0 && in.CreatedBy != actor.UserID {
		return nil, &model.AuthorizationError{Role: actor.Role, Reason: "cannot set the order owner to another user"}
	}

	var created *model.Order
	err := s.store.Transaction(func(tx model.Store) error {
		if in.CustomerID != nil {
			if _, err := tx.CustomerByID(*in.CustomerID); err != nil {
				return err
			}
		}
		if _, err := tx.UserByID(ownerID); err != nil {
			return err
		}

		items, err := buildItems(tx, in.Items)
		if err != nil {
			return err
		}
		if status.Holding() {
			if err := inventory.ReserveItems(tx, items); err != nil {
				return err
			}
		}

		order := &model.Order{
			CustomerID:         in.CustomerID,
			Status:             status,
			DiscountPercentage: in.DiscountPercentage,
			TotalAmount:        model.ComputeTotal(items, in.DiscountPercentage),
			CreatedByID:        ownerID,
			Items:              items,
		}
		if err := tx.CreateOrder(order); err != nil {
			return err
		}

		created, err = tx.OrderByID(order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order created",
		zap.Uint("order_id", created.ID),
		zap.String("status", string(created.Status)),
		zap.String("total_amount", created.TotalAmount.String()),
		zap.String("created_by", actor.Username))
	return created, nil
}

// Update applies field changes and, when Items is present, replaces every
// line. On an order in a holding status the old lines' stock is released
// and the new lines' stock reserved; any shortage rolls the whole
// replacement back, ledger included.
func (s *Service) Update(orderID uint, in UpdateInput, actor model.Actor) (*model.Order, error) {
	if in.DiscountPercentage != nil {
		if err := validateDiscount(*in.DiscountPercentage); err != nil {
			return nil, err
		}
	}
	if in.Items != nil && len(*in.Items) == 0 {
		return nil, &model.ValidationError{Field: "items", Reason: "order must contain at least one item"}
	}

	var updated *model.Order
	err := s.store.Transaction(func(tx model.Store) error {
		order, err := tx.OrderForUpdate(orderID)
		if err != nil {
			return err
		}

		if actor.Role == model.RoleSalesRep {
			if order.CreatedByID != actor.UserID {
				return &model.AuthorizationError{Role: actor.Role, Reason: "cannot edit another user's order"}
			}
			if order.Status != model.StatusDraft {
				return &model.AuthorizationError{Role: actor.Role, Reason: "can only edit DRAFT orders"}
			}
		}

		if in.CustomerID != nil {
			if _, err := tx.CustomerByID(*in.CustomerID); err != nil {
				return err
			}
			order.CustomerID = in.CustomerID
		}
		if in.DiscountPercentage != nil {
			order.DiscountPercentage = *in.DiscountPercentage
		}

		items := order.Items
		if in.Items != nil {
			if order.Status.Holding() {
				if err := inventory.ReleaseItems(tx, order.Items); err != nil {
					return err
				}
			}
			items, err = buildItems(tx, *in.Items)
			if err != nil {
				return err
			}
			if order.Status.Holding() {
				if err := inventory.ReserveItems(tx, items); err != nil {
					return err
				}
			}
			if err := tx.ReplaceOrderItems(order.ID, items); err != nil {
				return err
			}
		}

		order.TotalAmount = model.ComputeTotal(items, order.DiscountPercentage)
		if err := tx.SaveOrder(order); err != nil {
			return err
		}

		updated, err = tx.OrderByID(order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order updated",
		zap.Uint("order_id", updated.ID),
		zap.String("total_amount", updated.TotalAmount.String()),
		zap.String("updated_by", actor.Username))
	return updated, nil
}

// buildItems resolves line inputs to order items with products attached.
// Each line must fit the product's current stock even when the order is
// not entering a holding status, so drafts cannot be written against
// quantities that could never be reserved.
func buildItems(tx model.Store, lines []LineInput) ([]model.OrderItem, error) {
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, &model.ValidationError{Field: "quantity", Reason: "quantity must be greater than zero"}
		}
		p, err := tx.ProductByID(line.ProductID)
		if err != nil {
			return nil, err
		}
		if p.StockQuantity < line.Quantity {
			return nil, &model.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   line.Quantity,
				Available:   p.StockQuantity,
			}
		}
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Product:   p,
			Quantity:  line.Quantity,
		})
	}
	return items, nil
}

func validateDiscount(d decimal.Decimal) error {
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return &model.ValidationError{Field: "discount_percentage", Reason: "must be between 0 and 100"}
	}
	return nil
}
