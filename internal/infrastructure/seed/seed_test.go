package seed

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/hospitality/backend/internal/domain/identity"
	"github.com/hospitality/backend/internal/domain/property"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestDemoDataset(t *testing.T) {
	ds, err := Demo()
	require.NoError(t, err)

	assert.Equal(t, "SEASIDE", ds.Tenant.Code)
	assert.Len(t, ds.Users, 3)
	assert.Len(t, ds.Properties, 2)
	assert.Len(t, ds.Properties[0].Rooms, 5)
	assert.Equal(t, "2023-04-01", ds.Staff[0].HireDate)
	assert.Equal(t, "2750-310", ds.Properties[0].PostalCode)
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("tenant:\n  code: X1\n  name: X\n  colour: blue\n"))
	assert.Error(t, err)
}

func TestParse_ChecksPropertyReferences(t *testing.T) {
	doc := `
tenant: { code: T1, name: Test }
properties:
  - { code: H1, name: Hotel One, type: hotel }
staff:
  - { code: E1, first_name: A, last_name: B, department: kitchen, property: H2, hire_date: "2024-01-01" }
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown property")
}

func TestBuild_DemoGraph(t *testing.T) {
	ds, err := Demo()
	require.NoError(t, err)

	g, err := build(ds)
	require.NoError(t, err)

	assert.Equal(t, identity.TenantPlanPro, g.tenant.Plan)
	assert.Equal(t, "EUR", g.tenant.Currency)

	hotel := g.properties[0]
	assert.Equal(t, property.PropertyStatusActive, hotel.Status)
	assert.Equal(t, 5, hotel.TotalRooms)
	for _, r := range g.rooms {
		assert.Equal(t, hotel.ID, r.PropertyID)
		assert.Equal(t, "EUR", r.Currency)
	}

	bistro := g.properties[1]
	assert.Equal(t, 64, bistro.SeatingCapacity)

	require.NotNil(t, g.staff[2].PropertyID)
	assert.Equal(t, bistro.ID, *g.staff[2].PropertyID)

	assert.Equal(t, crm.LeadStatusQualified, g.leads[0].Status)
	assert.Equal(t, crm.LeadStatusNew, g.leads[1].Status)

	published := 0
	for _, p := range g.pages {
		if p.IsPublic() {
			published++
		}
	}
	assert.Equal(t, 2, published)

	res := g.result()
	assert.Equal(t, g.tenant.ID, res.TenantID)
	assert.Equal(t, 5, res.Rooms)

	for _, u := range g.users {
		assert.True(t, u.VerifyPassword("SeasideDemo2024"))
	}
}

func TestSeeder_SkipsExistingTenant(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "tenants" WHERE code = $1`)).
		WithArgs("SEASIDE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ds, err := Demo()
	require.NoError(t, err)

	res, err := NewSeeder(db, zap.NewNop()).Seed(context.Background(), ds)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.NoError(t, mock.ExpectationsWereMet())
}
