package middleware

import "github.com/gin-gonic/gin"

// phoneKey is the key used to store the authenticated account's phone
// number in the request context.
const phoneKey = contextKey("phone")

// GetUserPhoneFromContext retrieves the authenticated phone number from the
// Gin context. Returns the phone and a boolean indicating if it was found.
func GetUserPhoneFromContext(c *gin.Context) (string, bool) {
	phoneVal := c.Request.Context().Value(phoneKey)
	if phoneVal == nil {
		return "", false
	}
	phone, ok := phoneVal.(string)
	if !ok {
		return "", false
	}
	return phone, true
}
