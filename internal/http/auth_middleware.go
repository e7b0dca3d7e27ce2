package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ggd-contact/internal/domain"
	"ggd-contact/internal/service"
)

const (
	staffClaimsKey = "staff_claims"
	caseClaimsKey  = "case_claims"
)

// StaffLookup confirma que el titular de un token de personal sigue existiendo.
type StaffLookup interface {
	GetStaff(ctx context.Context, id string) (domain.Staff, error)
}

// StaffAuthMiddleware valida tokens de personal y guarda claims en el contexto.
// Con staff != nil rechaza tokens de cuentas que ya no existen.
func StaffAuthMiddleware(tokens *service.TokenService, staff StaffLookup) gin.HandlerFunc {
	return bearerMiddleware(tokens, staffClaimsKey, func(c *gin.Context, t string) (service.Claims, int, error) {
		claims, err := tokens.ParseStaffToken(t)
		if err != nil {
			return service.Claims{}, http.StatusUnauthorized, err
		}
		if staff == nil {
			return claims, 0, nil
		}
		if _, err := staff.GetStaff(c.Request.Context(), claims.Subject); err != nil {
			if errors.Is(err, service.ErrStaffNotFound) {
				return service.Claims{}, http.StatusUnauthorized, err
			}
			return service.Claims{}, http.StatusInternalServerError, err
		}
		return claims, 0, nil
	})
}

// CaseAuthMiddleware valida tokens emitidos al emparejar la app del caso índice.
func CaseAuthMiddleware(tokens *service.TokenService) gin.HandlerFunc {
	return bearerMiddleware(tokens, caseClaimsKey, func(_ *gin.Context, t string) (service.Claims, int, error) {
		claims, err := tokens.ParseCaseToken(t)
		if err != nil {
			return service.Claims{}, http.StatusUnauthorized, err
		}
		return claims, 0, nil
	})
}

type claimsParser func(c *gin.Context, token string) (service.Claims, int, error)

func bearerMiddleware(tokens *service.TokenService, key string, parse claimsParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, status, err := parse(c, strings.TrimSpace(header[len("Bearer "):]))
		if err != nil {
			if status == http.StatusUnauthorized {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.AbortWithStatusJSON(status, gin.H{"error": "could not verify token"})
			return
		}

		c.Set(key, claims)
		c.Next()
	}
}

// GetStaffClaims obtiene los claims del personal autenticado.
func GetStaffClaims(c *gin.Context) (service.Claims, bool) {
	return getClaims(c, staffClaimsKey)
}

// GetCaseClaims obtiene los claims de la app emparejada.
func GetCaseClaims(c *gin.Context) (service.Claims, bool) {
	return getClaims(c, caseClaimsKey)
}

func getClaims(c *gin.Context, key string) (service.Claims, bool) {
	val, ok := c.Get(key)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}
