package persistence

import (
	"strings"

	"github.com/hospitality/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// listQuery describes how a shared.Filter maps onto one table
type listQuery struct {
	// searchColumns are matched case-insensitively with LIKE
	searchColumns []string
	// clauses maps a filter key to a WHERE clause with one placeholder
	clauses map[string]string
	// sortFields whitelists ORDER BY columns
	sortFields  map[string]bool
	defaultSort string
}

// where applies search and filters, without paging or ordering
func (lq listQuery) where(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" && len(lq.searchColumns) > 0 {
		pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
		parts := make([]string, len(lq.searchColumns))
		args := make([]any, len(lq.searchColumns))
		for i, col := range lq.searchColumns {
			parts[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		query = query.Where("("+strings.Join(parts, " OR ")+")", args...)
	}

	for key, value := range filter.Filters {
		clause, ok := lq.clauses[key]
		if !ok || isEmptyFilterValue(value) {
			continue
		}
		query = query.Where(clause, value)
	}
	return query
}

// page applies filters, ordering and paging
func (lq listQuery) page(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = lq.where(query, filter)

	field := ValidateSortField(filter.OrderBy, lq.sortFields, lq.defaultSort)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

func isEmptyFilterValue(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	}
	return false
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
