package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go-garage/internal/shared/apperror"
	"go-garage/internal/shared/contextutil"
	"go-garage/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = apperror.New(apperror.CodeUnauthorized, "Invalid token", http.StatusUnauthorized)
	ErrTokenExpired = apperror.New(apperror.CodeUnauthorized, "Token expired", http.StatusUnauthorized)
)

// OptionalAuth resolves the caller from a bearer token or the access_token
// cookie. Requests without a token continue as anonymous; a token that is
// present but does not verify is rejected with 401. With an empty secret no
// token can be verified, so every request is anonymous.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			c.Next()
			return
		}

		tokenString, _ := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.Next()
			return
		}

		caller, err := parseCaller(tokenString, secret)
		if err != nil {
			errObj := ErrInvalidToken
			if errors.Is(err, jwt.ErrTokenExpired) {
				errObj = ErrTokenExpired
			}
			response.Abort(c, errObj.HTTPStatus, errObj.Message)
			return
		}

		c.Set("user_id", caller.UserID)
		c.Set("garage_uid", caller.GarageUID)
		c.Set("role", caller.Role)
		c.Request = c.Request.WithContext(contextutil.WithCaller(c.Request.Context(), caller))

		c.Next()
	}
}

func parseCaller(tokenString, secret string) (contextutil.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return contextutil.Caller{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return contextutil.Caller{}, errors.New("invalid token claims")
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return contextutil.Caller{}, errors.New("user_id not found in token")
	}
	garageUID, _ := claims["garage_uid"].(string)
	role, _ := claims["role"].(string)

	return contextutil.Caller{UserID: userID, GarageUID: garageUID, Role: role}, nil
}
