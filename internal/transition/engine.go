// Package transition implements the order status state machine. A
// transition validates the requested status and the caller's role, moves
// stock when it crosses the free/holding boundary and persists the new
// status, all inside one store transaction.
package transition

import (
	"go.uber.org/zap"

	"oms-backend/internal/inventory"
	"oms-backend/internal/model"
)

// Engine applies status transitions to orders.
type Engine struct {
	store model.Store
	log   *zap.Logger
}

// NewEngine builds an engine over the given store.
func NewEngine(store model.Store, log *zap.Logger) *Engine {
	return &Engine{store: store, log: log}
}

// Transition moves an order to the requested status on behalf of actor
// and reports the status the order held before. The status write and any
// stock movement commit or roll back together.
func (e *Engine) Transition(orderID uint, requested model.OrderStatus, actor model.Actor) (*model.Order, model.OrderStatus, error) {
	if !requested.Valid() {
		return nil, "", &model.ValidationError{Field: "status", Reason: "invalid status: " + string(requested)}
	}

	var updated *model.Order
	var previous model.OrderStatus
	err := e.store.Transaction(func(tx model.Store) error {
		order, err := tx.OrderForUpdate(orderID)
		if err != nil {
			return err
		}

		if err := Authorize(actor.Role, order.Status, requested); err != nil {
			return err
		}

		from := order.Status
		previous = from
		switch {
		case !from.Holding() && requested.Holding():
			if err := inventory.ReserveItems(tx, order.Items); err != nil {
				return err
			}
		case from.Holding() && !requested.Holding():
			if err := inventory.ReleaseItems(tx, order.Items); err != nil {
				return err
			}
		}

		order.Status = requested
		if err := tx.SaveOrder(order); err != nil {
			return err
		}

		e.log.Info("Order status changed",
			zap.Uint("order_id", order.ID),
			zap.String("from", string(from)),
			zap.String("to", string(requested)),
			zap.String("actor", actor.Username),
			zap.String("role", string(actor.Role)))

		updated = order
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return updated, previous, nil
}
