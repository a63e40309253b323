package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPropertyRepository_FindByIDForTenant(t *testing.T) {
	db, mock, _ := newMockGormDB(t)
	repo := NewGormPropertyRepository(db)
	tenantID, id := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "properties" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
		WithArgs(tenantID, id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "code", "name", "type", "status"}).
			AddRow(id, tenantID, "HTL1", "Harbor Hotel", "hotel", "active"))

	p, err := repo.FindByIDForTenant(context.Background(), tenantID, id)

	require.NoError(t, err)
	assert.Equal(t, "Harbor Hotel", p.Name)
	assert.True(t, p.Type.HasRooms())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPropertyRepository_ExistsByCode(t *testing.T) {
	db, mock, _ := newMockGormDB(t)
	repo := NewGormPropertyRepository(db)
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "properties" WHERE tenant_id = \$1 AND code = \$2`).
		WithArgs(tenantID, "HTL1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.ExistsByCode(context.Background(), tenantID, "htl1")

	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormRoomRepository_FindAvailable(t *testing.T) {
	db, mock, _ := newMockGormDB(t)
	repo := NewGormRoomRepository(db)
	tenantID, propertyID := uuid.New(), uuid.New()
	checkIn := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 2)

	mock.ExpectQuery(`SELECT \* FROM "rooms" WHERE .*rooms.tenant_id = \$1 AND rooms.property_id = \$2.* AND rooms.status IN \(\$3,\$4\) AND rooms.capacity >= \$5 AND NOT EXISTS \(SELECT 1 FROM "bookings" WHERE bookings.room_id = rooms.id AND bookings.status IN \(\$6,\$7,\$8\) AND .*bookings.check_in < \$9 AND bookings.check_out > \$10.*\) ORDER BY rooms.base_rate ASC, rooms.number ASC`).
		WithArgs(tenantID, propertyID, "available", "occupied", 2, "pending", "confirmed", "checked_in", checkOut, checkIn).
		WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "property_id", "number", "capacity", "base_rate", "status"}).
			AddRow(uuid.New(), tenantID, propertyID, "101", 2, "89.00", "available").
			AddRow(uuid.New(), tenantID, propertyID, "204", 3, "120.00", "occupied"))

	rooms, err := repo.FindAvailable(context.Background(), tenantID, propertyID, checkIn, checkOut, 2)

	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].Number)
	assert.Equal(t, "89", rooms[0].BaseRate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
