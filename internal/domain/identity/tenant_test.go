package identity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTenant(t *testing.T) {
	t.Run("creates active tenant with derived slug", func(t *testing.T) {
		tenant, err := NewTenant("seaside", "Seaside Hotels Group", "")
		require.NoError(t, err)
		assert.Equal(t, "SEASIDE", tenant.Code)
		assert.Equal(t, "seaside-hotels-group", tenant.Slug)
		assert.Equal(t, TenantStatusActive, tenant.Status)
		assert.Equal(t, TenantPlanFree, tenant.Plan)
		assert.Equal(t, 1, tenant.Version)
		require.Len(t, tenant.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeTenantCreated, tenant.GetDomainEvents()[0].EventType())
	})

	t.Run("rejects invalid code", func(t *testing.T) {
		_, err := NewTenant("bad code!", "Name", "")
		require.Error(t, err)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewTenant("CODE", "  ", "")
		require.Error(t, err)
	})

	t.Run("rejects invalid slug", func(t *testing.T) {
		_, err := NewTenant("CODE", "Name", "Not A Slug")
		require.Error(t, err)
	})
}

func TestNewTrialTenant(t *testing.T) {
	tenant, err := NewTrialTenant("TRIAL", "Trial Inn", "trial-inn", 14)
	require.NoError(t, err)
	assert.Equal(t, TenantStatusTrial, tenant.Status)
	require.NotNil(t, tenant.TrialEndsAt)
	assert.True(t, tenant.IsActive())

	past := time.Now().Add(-time.Hour)
	tenant.TrialEndsAt = &past
	assert.True(t, tenant.IsTrialExpired())
	assert.False(t, tenant.IsActive())

	_, err = NewTrialTenant("TRIAL", "Trial Inn", "", 0)
	require.Error(t, err)
}

func TestTenant_StatusTransitions(t *testing.T) {
	tenant, err := NewTenant("OPS", "Ops", "")
	require.NoError(t, err)
	tenant.ClearDomainEvents()

	require.Error(t, tenant.Activate())
	require.NoError(t, tenant.Suspend())
	assert.Equal(t, TenantStatusSuspended, tenant.Status)
	require.Error(t, tenant.Suspend())
	require.NoError(t, tenant.Deactivate())
	require.NoError(t, tenant.Activate())
	assert.Len(t, tenant.GetDomainEvents(), 3)
}

func TestTenant_SetPlanEndsTrial(t *testing.T) {
	tenant, err := NewTrialTenant("UP", "Upgrade", "", 7)
	require.NoError(t, err)

	require.NoError(t, tenant.SetPlan(TenantPlanPro))
	assert.Equal(t, TenantStatusActive, tenant.Status)
	assert.Nil(t, tenant.TrialEndsAt)
	assert.True(t, tenant.CanAddProperty(24))
	assert.False(t, tenant.CanAddProperty(25))

	require.Error(t, tenant.SetPlan("platinum"))
}

func TestTenant_Update(t *testing.T) {
	tenant, err := NewTenant("UPD", "Old", "")
	require.NoError(t, err)

	require.NoError(t, tenant.Update("New Name", "Europe/Paris", "eur", "fr"))
	assert.Equal(t, "New Name", tenant.Name)
	assert.Equal(t, "EUR", tenant.Currency)
	assert.Equal(t, "Europe/Paris", tenant.Timezone)
	assert.Equal(t, 2, tenant.Version)

	require.Error(t, tenant.Update("New Name", "Mars/Base", "", ""))
	require.Error(t, tenant.Update("New Name", "", "EURO", ""))
}

func TestTenant_SetContact(t *testing.T) {
	tenant, err := NewTenant("CON", "Contact", "")
	require.NoError(t, err)

	require.NoError(t, tenant.SetContact("Ana", " Ana@Example.com ", "+1 555 123 4567"))
	assert.Equal(t, "ana@example.com", tenant.ContactEmail)
	assert.Equal(t, "+15551234567", tenant.ContactPhone)

	require.Error(t, tenant.SetContact("Ana", "nope", ""))
	require.Error(t, tenant.SetContact("Ana", "", "12"))
}
