package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oms-backend/internal/model"
)

func TestAuthorizeSalesRep(t *testing.T) {
	allowed := []struct{ from, to model.OrderStatus }{
		{model.StatusDraft, model.StatusPendingApproval},
		{model.StatusPendingApproval, model.StatusDraft},
		{model.StatusPacked, model.StatusOutForDelivery},
		{model.StatusOutForDelivery, model.StatusDelivered},
	}
	for _, tt := range allowed {
		assert.NoError(t, Authorize(model.RoleSalesRep, tt.from, tt.to),
			"sales rep %s -> %s should be allowed", tt.from, tt.to)
	}

	forbidden := []struct{ from, to model.OrderStatus }{
		{model.StatusApproved, model.StatusPacked},
		{model.StatusPendingApproval, model.StatusApproved},
		{model.StatusDraft, model.StatusApproved},
		{model.StatusDelivered, model.StatusSettled},
		{model.StatusPendingApproval, model.StatusRejected},
	}
	for _, tt := range forbidden {
		err := Authorize(model.RoleSalesRep, tt.from, tt.to)
		require.Error(t, err, "sales rep %s -> %s should be forbidden", tt.from, tt.to)
		var authErr *model.AuthorizationError
		require.ErrorAs(t, err, &authErr)
		assert.Contains(t, authErr.Error(), string(tt.from))
		assert.Contains(t, authErr.Error(), string(tt.to))
	}
}

func TestAuthorizeWarehouse(t *testing.T) {
	assert.NoError(t, Authorize(model.RoleWarehouse, model.StatusApproved, model.StatusPacked))

	forbidden := []struct{ from, to model.OrderStatus }{
		{model.StatusDraft, model.StatusPendingApproval},
		{model.StatusPacked, model.StatusOutForDelivery},
		{model.StatusApproved, model.StatusOutForDelivery},
		{model.StatusPendingApproval, model.StatusApproved},
	}
	for _, tt := range forbidden {
		assert.Error(t, Authorize(model.RoleWarehouse, tt.from, tt.to),
			"warehouse %s -> %s should be forbidden", tt.from, tt.to)
	}
}

func TestAuthorizeAdmin(t *testing.T) {
	// Admin may request any transition out of a non-terminal status,
	// including backward moves and rejection.
	pairs := []struct{ from, to model.OrderStatus }{
		{model.StatusDraft, model.StatusSettled},
		{model.StatusDelivered, model.StatusDraft},
		{model.StatusPendingApproval, model.StatusRejected},
		{model.StatusRejected, model.StatusPendingApproval},
	}
	for _, tt := range pairs {
		assert.NoError(t, Authorize(model.RoleAdmin, tt.from, tt.to))
	}
}

func TestAuthorizeSettledIsTerminal(t *testing.T) {
	for _, role := range []model.Role{model.RoleAdmin, model.RoleSalesRep, model.RoleWarehouse} {
		err := Authorize(role, model.StatusSettled, model.StatusDraft)
		assert.Error(t, err, "%s should not move a settled order", role)
	}
}

func TestAuthorizeUnknownRole(t *testing.T) {
	err := Authorize(model.Role("ACCOUNTING"), model.StatusDraft, model.StatusPendingApproval)
	var authErr *model.AuthorizationError
	require.ErrorAs(t, err, &authErr)
}
