package auth

import "github.com/gin-gonic/gin"

// GetOperator returns the authenticated operator's name or empty string.
func GetOperator(c *gin.Context) string {
	if v, ok := c.Get("operator"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
