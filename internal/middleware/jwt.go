package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/agrovigil/agrovigil-api/internal/service"
	"github.com/agrovigil/agrovigil-api/pkg/response"
)

// Context keys storing the verified identity for the current request.
const (
	ContextUserKey   = "currentUser"
	ContextClaimsKey = "currentClaims"
)

// JWT protects routes by requiring a valid access token. Both
// "Authorization: Bearer <token>" and a bare token value are accepted. The
// token's user is resolved against the store on every request, so a token
// for a deleted account stops working immediately.
func JWT(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, claims, err := authService.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextClaimsKey, claims)
		c.Next()
	}
}
