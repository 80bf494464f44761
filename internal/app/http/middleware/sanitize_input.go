package middleware

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// SanitizeJSONFields strips markup from the named string fields of a JSON
// body, at any depth. Other fields (passwords, URLs) pass through untouched,
// as do bodies that are not JSON objects.
func SanitizeJSONFields(fields ...string) gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	names := make(map[string]bool, len(fields))
	for _, f := range fields {
		names[f] = true
	}

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}
		if c.Request.Body == nil || c.ContentType() != "application/json" {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		restore := func(b []byte) {
			c.Request.Body = io.NopCloser(bytes.NewReader(b))
			c.Request.ContentLength = int64(len(b))
		}

		var body interface{}
		if len(bytes.TrimSpace(buf)) == 0 || json.Unmarshal(buf, &body) != nil {
			// binding reports malformed JSON
			restore(buf)
			c.Next()
			return
		}

		if !sanitizeValue(body, names, policy) {
			restore(buf)
			c.Next()
			return
		}

		newBody, err := json.Marshal(body)
		if err != nil {
			restore(buf)
			c.Next()
			return
		}
		restore(newBody)
		c.Next()
	}
}

// sanitizeValue cleans matching fields in place and reports whether any
// value changed.
func sanitizeValue(v interface{}, names map[string]bool, policy *bluemonday.Policy) bool {
	changed := false
	switch t := v.(type) {
	case map[string]interface{}:
		for k, val := range t {
			if s, ok := val.(string); ok && names[k] {
				// stored as plain text, not HTML
				clean := html.UnescapeString(policy.Sanitize(s))
				if clean != s {
					t[k] = clean
					changed = true
				}
				continue
			}
			if sanitizeValue(val, names, policy) {
				changed = true
			}
		}
	case []interface{}:
		for _, item := range t {
			if sanitizeValue(item, names, policy) {
				changed = true
			}
		}
	}
	return changed
}
