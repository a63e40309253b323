package persistence

import (
	"testing"

	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("asc; DROP TABLE bookings"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "check_in", ValidateSortField("check_in", BookingSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", BookingSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("password_hash", UserSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("name; --", PropertySortFields, "created_at"))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_off\\`, escapeLike(`100%_off\`))
}

func TestIsEmptyFilterValue(t *testing.T) {
	assert.True(t, isEmptyFilterValue(nil))
	assert.True(t, isEmptyFilterValue(""))
	assert.False(t, isEmptyFilterValue("active"))
	assert.False(t, isEmptyFilterValue(shared.Filter{}))
}
