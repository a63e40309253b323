package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/hospitality/backend/internal/domain/crm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormLeadRepository_Pipeline(t *testing.T) {
	db, mock, _ := newMockGormDB(t)
	repo := NewGormLeadRepository(db)
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT status, COUNT\(\*\) AS count, COALESCE\(SUM\(estimated_value\), 0\) AS value FROM "leads" WHERE tenant_id = \$1 GROUP BY .*status`).
		WithArgs(tenantID).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count", "value"}).
			AddRow("new", 4, "1200.00").
			AddRow("won", 1, "5000.50"))

	stages, err := repo.Pipeline(context.Background(), tenantID)

	require.NoError(t, err)
	require.Len(t, stages, 2)
	assert.Equal(t, crm.LeadStatusNew, stages[0].Status)
	assert.Equal(t, int64(4), stages[0].Count)
	assert.Equal(t, "5000.5", stages[1].Value.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormLeadRepository_CountForTenant(t *testing.T) {
	db, mock, _ := newMockGormDB(t)
	repo := NewGormLeadRepository(db)
	tenantID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "leads" WHERE tenant_id = \$1 AND source = \$2`).
		WithArgs(tenantID, "whatsapp").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := repo.CountForTenant(context.Background(), tenantID, filterOf("source", "whatsapp"))

	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
