package transition

import (
	"fmt"

	"oms-backend/internal/model"
)

// roleTransitions maps (role, current status) to the targets that role
// may request. Roles absent from the map may not transition anything;
// ADMIN bypasses the table entirely.
var roleTransitions = map[model.Role]map[model.OrderStatus][]model.OrderStatus{
	model.RoleSalesRep: {
		model.StatusDraft:           {model.StatusPendingApproval},
		model.StatusPendingApproval: {model.StatusDraft},
		model.StatusPacked:          {model.StatusOutForDelivery},
		model.StatusOutForDelivery:  {model.StatusDelivered},
	},
	model.RoleWarehouse: {
		model.StatusApproved: {model.StatusPacked},
	},
}

// terminalStates reject every outgoing transition regardless of role.
// REJECTED is deliberately absent: admins reactivate rejected orders.
var terminalStates = map[model.OrderStatus]bool{
	model.StatusSettled: true,
}

// Authorize checks a requested transition against the role rules.
func Authorize(role model.Role, from, to model.OrderStatus) error {
	if terminalStates[from] {
		return &model.AuthorizationError{
			Role:   role,
			Reason: fmt.Sprintf("order in terminal status %s cannot transition to %s", from, to),
		}
	}
	if role == model.RoleAdmin {
		return nil
	}
	for _, allowed := range roleTransitions[role][from] {
		if allowed == to {
			return nil
		}
	}
	return &model.AuthorizationError{
		Role:   role,
		Reason: fmt.Sprintf("cannot transition from %s to %s", from, to),
	}
}
