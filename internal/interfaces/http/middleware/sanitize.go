package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hospitality/backend/internal/domain/shared"
	"github.com/hospitality/backend/internal/interfaces/http/dto"
)

// MaxQueryValueLength bounds a single query string value
const MaxQueryValueLength = 512

// Sanitize validates path IDs and cleans the query string before handlers see it.
//
//   - path parameters named "id" or ending in "_id" must be UUIDs
//   - query values are stripped of tags and control characters and trimmed
//   - query values longer than MaxQueryValueLength are rejected
func Sanitize() gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, p := range c.Params {
			if isIDParam(p.Key) && !shared.IsValidUUID(p.Value) {
				abortWithError(c, http.StatusBadRequest, dto.ErrCodeValidation,
					"Invalid "+p.Key+": must be a UUID")
				return
			}
		}

		if c.Request.URL.RawQuery == "" {
			c.Next()
			return
		}

		query := c.Request.URL.Query()
		cleaned := make(url.Values, len(query))
		for key, values := range query {
			cleanKey := shared.SanitizeString(key)
			if cleanKey == "" {
				continue
			}
			for _, v := range values {
				if len(v) > MaxQueryValueLength {
					abortWithError(c, http.StatusBadRequest, dto.ErrCodeValidationLength,
						"Query parameter "+cleanKey+" is too long")
					return
				}
				cleaned[cleanKey] = append(cleaned[cleanKey], shared.SanitizeString(v))
			}
		}
		c.Request.URL.RawQuery = cleaned.Encode()

		c.Next()
	}
}

func isIDParam(key string) bool {
	return key == "id" || strings.HasSuffix(key, "_id")
}
