package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/agrovigil/agrovigil-api/internal/middleware"
	"github.com/agrovigil/agrovigil-api/internal/models"
	"github.com/agrovigil/agrovigil-api/internal/policy"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextClaimsKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func actorFromContext(c *gin.Context) policy.Actor {
	claims := claimsFromContext(c)
	if claims == nil {
		return policy.Actor{}
	}
	return policy.Actor{ID: claims.UserID, Role: claims.Role}
}
