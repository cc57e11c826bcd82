package middleware

import (
	"fmt"
	"strings"

	"go-interview-scheduler/config"
	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/pkg/apperror"
	"go-interview-scheduler/pkg/auth"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

var (
	userIDKey    = string(domain.KeyUserID)
	userEmailKey = string(domain.KeyUserEmail)
	userRoleKey  = string(domain.KeyUserRole)
)

// AuthMiddleware verifies the Supabase JWT, resolves the caller's role from the
// local users table and puts the identity on both the gin and the request context.
func AuthMiddleware(jwksProvider *auth.Provider, cfg *config.Config, authUC domain.AuthUsecase, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Token from the Authorization header, else the auth_token cookie
		tokenString := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			if cookie, err := c.Cookie("auth_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abort(c, apperror.Unauthorized("Authorization header or auth_token cookie required"))
			return
		}

		// 2. Verify signature: HS256 with the project secret, RS256 through JWKS
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			switch token.Method.(type) {
			case *jwt.SigningMethodHMAC:
				if cfg.SupabaseJWTSecret == "" {
					return nil, fmt.Errorf("HS256 token received but SUPABASE_JWT_SECRET is not configured")
				}
				return []byte(cfg.SupabaseJWTSecret), nil
			case *jwt.SigningMethodRSA:
				if jwksProvider == nil {
					return nil, fmt.Errorf("RS256 token received but no JWKS provider is configured")
				}
				return jwksProvider.KeyFunc(token)
			default:
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
		})
		if err != nil || !token.Valid {
			log.Debug("token validation failed", zap.Error(err))
			abort(c, apperror.Unauthorized("Invalid token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abort(c, apperror.Unauthorized("Invalid claims"))
			return
		}
		sub, _ := claims["sub"].(string)
		email, _ := claims["email"].(string)
		if sub == "" {
			abort(c, apperror.Unauthorized("Invalid claims"))
			return
		}

		// 3. Role comes from the database, not the token
		ctx := domain.WithIdentity(c.Request.Context(), domain.Identity{UserID: sub, Email: email})
		user, err := authUC.GetCurrentUser(ctx, sub)
		if err != nil {
			log.Debug("authenticated user not found", zap.String("user_id", sub), zap.Error(err))
			abort(c, apperror.Unauthorized("User not found"))
			return
		}
		role := user.Role
		if role == "" {
			role = domain.RoleCandidate
		}

		// 4. Publish the identity
		identity := domain.Identity{UserID: sub, Email: email, Role: role}
		c.Set(userIDKey, identity.UserID)
		c.Set(userEmailKey, identity.Email)
		c.Set(userRoleKey, identity.Role)
		c.Request = c.Request.WithContext(domain.WithIdentity(c.Request.Context(), identity))

		c.Next()
	}
}

// abort stops the chain and leaves rendering to ErrorHandler.
func abort(c *gin.Context, err *apperror.AppError) {
	_ = c.Error(err)
	c.Abort()
}
