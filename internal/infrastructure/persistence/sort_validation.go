package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, defaulting to DESC
func ValidateSortOrder(orderDir string) string {
	if strings.EqualFold(strings.TrimSpace(orderDir), "asc") {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField returns sortField if whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func sortFields(extra ...string) map[string]bool {
	m := map[string]bool{"id": true, "created_at": true, "updated_at": true}
	for _, f := range extra {
		m[f] = true
	}
	return m
}

var (
	TenantSortFields       = sortFields("code", "name", "slug", "status", "plan", "trial_ends_at")
	UserSortFields         = sortFields("username", "email", "display_name", "status", "last_login_at")
	PropertySortFields     = sortFields("code", "name", "type", "status", "city", "star_rating")
	RoomSortFields         = sortFields("number", "name", "type", "capacity", "base_rate", "status", "floor")
	BookingSortFields      = sortFields("reference", "guest_name", "check_in", "check_out", "status", "total_amount")
	StaffSortFields        = sortFields("employee_code", "first_name", "last_name", "department", "status", "hire_date")
	LeadSortFields         = sortFields("name", "status", "source", "estimated_value", "last_contacted_at")
	PageSortFields         = sortFields("title", "slug", "status", "kind", "published_at")
	MediaSortFields        = sortFields("file_name", "content_type", "size")
	InvoiceSortFields      = sortFields("number", "customer_name", "status", "total", "issue_date", "due_date")
	MessageSortFields      = sortFields("channel", "status", "recipient", "sent_at")
	CalendarSortFields     = sortFields("starts_at", "ends_at", "title", "status")
	ConversationSortFields = sortFields("status", "channel", "guest_name")
)
