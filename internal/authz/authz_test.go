package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"MimiPlatform/internal/models"
)

func TestRoleCapabilities(t *testing.T) {
	customer := Principal{UserID: 1, Role: models.RoleCustomer}
	provider := Principal{UserID: 2, Role: models.RoleProvider}

	require.True(t, customer.Can(JobCreate))
	require.True(t, customer.Can(MilestoneFund))
	require.False(t, customer.Can(MilestoneManage))
	require.False(t, customer.Can(CategoryManage))

	require.True(t, provider.Can(MilestoneManage))
	require.True(t, provider.Can(ServiceManage))
	require.False(t, provider.Can(JobCreate))
	require.False(t, provider.Can(MilestoneFund))

	require.True(t, customer.IsCustomer())
	require.False(t, customer.IsProvider())
	require.True(t, provider.IsProvider())
}

func TestStaffAndAnonymous(t *testing.T) {
	staff := Principal{UserID: 3, Role: models.RoleCustomer, IsStaff: true}
	require.True(t, staff.Can(CategoryManage))
	require.True(t, staff.Can(JobCreate))

	admin := Principal{UserID: 4, Role: models.RoleAdmin}
	require.True(t, admin.Can(CategoryManage))
	require.False(t, admin.Can(JobCreate))

	var anon Principal
	require.False(t, anon.Can(JobCreate))
	require.False(t, anon.IsCustomer())
}
