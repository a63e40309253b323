package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormBookingRepository_HasOverlap(t *testing.T) {
	tenantID := uuid.New()
	roomID := uuid.New()
	checkIn := time.Date(2026, time.July, 10, 0, 0, 0, 0, time.UTC)
	checkOut := checkIn.AddDate(0, 0, 3)

	t.Run("detects an overlapping active booking", func(t *testing.T) {
		db, mock, _ := newMockGormDB(t)
		repo := NewGormBookingRepository(db)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" WHERE .*tenant_id = \$1 AND room_id = \$2.* AND status IN \(\$3,\$4,\$5\) AND .*check_in < \$6 AND check_out > \$7`).
			WithArgs(tenantID, roomID, "pending", "confirmed", "checked_in", checkOut, checkIn).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		overlap, err := repo.HasOverlap(context.Background(), tenantID, roomID, checkIn, checkOut, nil)

		require.NoError(t, err)
		assert.True(t, overlap)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("excludes the booking being rescheduled", func(t *testing.T) {
		db, mock, _ := newMockGormDB(t)
		repo := NewGormBookingRepository(db)
		self := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings" WHERE .* AND id <> \$8`).
			WithArgs(tenantID, roomID, "pending", "confirmed", "checked_in", checkOut, checkIn, self).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		overlap, err := repo.HasOverlap(context.Background(), tenantID, roomID, checkIn, checkOut, &self)

		require.NoError(t, err)
		assert.False(t, overlap)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormBookingRepository_FindByReference(t *testing.T) {
	t.Run("normalizes the reference", func(t *testing.T) {
		db, mock, _ := newMockGormDB(t)
		repo := NewGormBookingRepository(db)
		tenantID := uuid.New()
		id := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE tenant_id = \$1 AND reference = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, "BK-20260710-AB12CD", 1).
			WillReturnRows(sqlmock.NewRows([]string{"id", "tenant_id", "reference", "guest_name", "status"}).
				AddRow(id, tenantID, "BK-20260710-AB12CD", "Ana Silva", "confirmed"))

		b, err := repo.FindByReference(context.Background(), tenantID, " bk-20260710-ab12cd ")

		require.NoError(t, err)
		assert.Equal(t, id, b.ID)
		assert.Equal(t, "Ana Silva", b.GuestName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps record not found", func(t *testing.T) {
		db, mock, _ := newMockGormDB(t)
		repo := NewGormBookingRepository(db)

		mock.ExpectQuery(`SELECT \* FROM "bookings"`).WillReturnError(gorm.ErrRecordNotFound)

		b, err := repo.FindByReference(context.Background(), uuid.New(), "BK-20260710-AB12CD")

		assert.Nil(t, b)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormBookingRepository_DeleteForTenant(t *testing.T) {
	db, mock, _ := newMockGormDB(t)
	repo := NewGormBookingRepository(db)
	tenantID, id := uuid.New(), uuid.New()

	mock.ExpectExec(`DELETE FROM "bookings" WHERE tenant_id = \$1 AND id = \$2`).
		WithArgs(tenantID, id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.DeleteForTenant(context.Background(), tenantID, id), shared.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
