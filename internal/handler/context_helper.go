package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/arsipkampus/arsip-akademik-api/internal/middleware"
	"github.com/arsipkampus/arsip-akademik-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func principalFromContext(c *gin.Context) *models.Principal {
	return middleware.PrincipalFrom(c)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return fallback
	}
	return value
}
