package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/el-ostaa/ostaa-api/config"
	"github.com/el-ostaa/ostaa-api/models"
	"github.com/el-ostaa/ostaa-api/services"
	"github.com/gin-gonic/gin"
)

// CustomClaims contains the session data we put in every token.
type CustomClaims struct {
	Role      string `json:"role"`
	AdminRole string `json:"admin_role,omitempty"`
	Name      string `json:"name"`
}

// Validate rejects tokens without a known role.
func (c CustomClaims) Validate(ctx context.Context) error {
	switch c.Role {
	case models.RoleCustomer, models.RoleTechnician:
		return nil
	case models.RoleAdmin:
		if !models.IsAdminRole(c.AdminRole) {
			return errors.New("admin token without admin role")
		}
		return nil
	}
	return errors.New("unknown role in token")
}

// IsManager reports whether the token belongs to the manager tier
func (c CustomClaims) IsManager() bool {
	return c.Role == models.RoleAdmin && c.AdminRole == models.AdminRoleManager
}

func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	body := `{"success":false,"error":{"code":"` + code + `","message":"` + message + `"}}`
	if _, err := w.Write([]byte(body)); err != nil {
		log.Printf("Failed to write error response: %v", err)
	}
}

// EnsureValidToken is a middleware that will check the validity of our JWT
// and reject tokens that were logged out.
func EnsureValidToken(cfg *config.Config) gin.HandlerFunc {
	secret := []byte(cfg.JWTSecret)
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return secret, nil
	}

	jwtValidator, err := validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &CustomClaims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		log.Fatalf("Failed to set up the jwt validator: %v", err)
	}

	errorHandler := func(w http.ResponseWriter, r *http.Request, err error) {
		log.Printf("Encountered error while validating JWT: %v", err)
		writeAuthError(w, "INVALID_TOKEN", "Failed to validate JWT.")
	}

	middleware := jwtmiddleware.New(
		jwtValidator.ValidateToken,
		jwtmiddleware.WithErrorHandler(errorHandler),
	)

	return func(c *gin.Context) {
		passed := false
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			token := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)

			revoked, err := services.GetTokenStore().IsRevoked(r.Context(), token.RegisteredClaims.ID)
			if err != nil {
				log.Printf("Failed to check token revocation: %v", err)
			}
			if revoked {
				writeAuthError(w, "TOKEN_REVOKED", "Session has been logged out.")
				return
			}

			c.Set("user_id", token.RegisteredClaims.Subject)
			c.Set("access_token", bearerToken(r))
			c.Set("validated_claims", token)

			passed = true
			c.Next()
		}

		middleware.CheckJWT(handler).ServeHTTP(c.Writer, c.Request)
		if !passed {
			c.Abort()
		}
	}
}

func bearerToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

// GetUserID extracts the user ID from the Gin context
func GetUserID(c *gin.Context) (string, error) {
	userID, exists := c.Get("user_id")
	if !exists {
		return "", &AuthError{Code: "MISSING_USER_ID", Message: "User ID not found in context"}
	}

	userIDStr, ok := userID.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_USER_ID", Message: "User ID is not a string"}
	}

	return userIDStr, nil
}

// GetAccessToken extracts the raw bearer token from the Gin context
func GetAccessToken(c *gin.Context) (string, error) {
	token, exists := c.Get("access_token")
	if !exists {
		return "", &AuthError{Code: "MISSING_ACCESS_TOKEN", Message: "Access token not found in context"}
	}

	tokenStr, ok := token.(string)
	if !ok || tokenStr == "" {
		return "", &AuthError{Code: "INVALID_ACCESS_TOKEN", Message: "Access token is not a string"}
	}

	return tokenStr, nil
}

// GetClaims extracts the validated JWT claims from the Gin context
func GetClaims(c *gin.Context) (*validator.ValidatedClaims, error) {
	claims, exists := c.Get("validated_claims")
	if !exists {
		return nil, &AuthError{Code: "MISSING_CLAIMS", Message: "Claims not found in context"}
	}

	validatedClaims, ok := claims.(*validator.ValidatedClaims)
	if !ok {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}

	return validatedClaims, nil
}

// GetCustomClaims returns the session part of the validated claims
func GetCustomClaims(c *gin.Context) (*CustomClaims, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return nil, err
	}

	custom, ok := claims.CustomClaims.(*CustomClaims)
	if !ok || custom == nil {
		return nil, &AuthError{Code: "INVALID_CLAIMS", Message: "Claims are not in the expected format"}
	}
	return custom, nil
}

// GetActor describes the signed-in caller for audit logging
func GetActor(c *gin.Context) (services.Actor, error) {
	claims, err := GetClaims(c)
	if err != nil {
		return services.Actor{}, err
	}
	custom, err := GetCustomClaims(c)
	if err != nil {
		return services.Actor{}, err
	}

	return services.Actor{
		ID:        claims.RegisteredClaims.Subject,
		Name:      custom.Name,
		Role:      custom.Role,
		AdminRole: custom.AdminRole,
	}, nil
}

func abortWith(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
	c.Abort()
}

// RequireRole is a middleware that checks the token carries one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		custom, err := GetCustomClaims(c)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "MISSING_CLAIMS", "Could not retrieve token claims")
			return
		}

		for _, role := range roles {
			if custom.Role == role {
				c.Next()
				return
			}
		}

		abortWith(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions to access this resource")
	}
}

// RequireAdmin admits either admin tier
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}

// RequireManager admits only the manager tier
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		custom, err := GetCustomClaims(c)
		if err != nil {
			abortWith(c, http.StatusUnauthorized, "MISSING_CLAIMS", "Could not retrieve token claims")
			return
		}
		if !custom.IsManager() {
			abortWith(c, http.StatusForbidden, "FORBIDDEN", "Manager access required")
			return
		}
		c.Next()
	}
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
