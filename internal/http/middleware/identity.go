package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/http/response"
	"github.com/yungbote/stylepath-backend/internal/platform/ctxutil"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

// IdentityMiddleware verifies externally issued HS256 tokens and attaches the
// learner id (the "sub" claim) to the request context.
type IdentityMiddleware struct {
	log    *logger.Logger
	secret []byte
}

func NewIdentityMiddleware(log *logger.Logger, secret string) *IdentityMiddleware {
	return &IdentityMiddleware{
		log:    log.With("middleware", "IdentityMiddleware"),
		secret: []byte(secret),
	}
}

func (im *IdentityMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearer(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}
		learnerID, err := im.Verify(tokenString)
		if err != nil {
			im.log.Debug("token rejected", "error", err)
			response.RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing or invalid token"))
			c.Abort()
			return
		}
		ctx := ctxutil.WithIdentity(c.Request.Context(), &ctxutil.Identity{LearnerID: learnerID, Token: tokenString})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Verify checks the signature and expiry and returns the subject as a learner id.
func (im *IdentityMiddleware) Verify(tokenString string) (uuid.UUID, error) {
	if len(im.secret) == 0 {
		return uuid.Nil, errors.New("identity secret not configured")
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return im.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errors.New("subject is not a learner id")
	}
	return id, nil
}

func extractBearer(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
