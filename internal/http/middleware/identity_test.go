package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/yungbote/stylepath-backend/internal/platform/ctxutil"
	"github.com/yungbote/stylepath-backend/internal/platform/logger"
)

func mint(t *testing.T, secret, sub string, method jwt.SigningMethod, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: sub, ExpiresAt: jwt.NewNumericDate(exp)}
	tok, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return tok
}

func TestRequireIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	learnerID := uuid.New()
	future := time.Now().Add(time.Hour)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + mint(t, "s3cret", learnerID.String(), jwt.SigningMethodHS256, future), http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + mint(t, "other", learnerID.String(), jwt.SigningMethodHS256, future), http.StatusUnauthorized},
		{"expired", "Bearer " + mint(t, "s3cret", learnerID.String(), jwt.SigningMethodHS256, time.Now().Add(-time.Minute)), http.StatusUnauthorized},
		{"wrong alg", "Bearer " + mint(t, "s3cret", learnerID.String(), jwt.SigningMethodHS512, future), http.StatusUnauthorized},
		{"subject not uuid", "Bearer " + mint(t, "s3cret", "alice", jwt.SigningMethodHS256, future), http.StatusUnauthorized},
	}
	for _, tc := range cases {
		r := gin.New()
		r.Use(NewIdentityMiddleware(log, "s3cret").RequireIdentity())
		var seen uuid.UUID
		r.GET("/me", func(c *gin.Context) {
			if id := ctxutil.GetIdentity(c.Request.Context()); id != nil {
				seen = id.LearnerID
			}
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != tc.status {
			t.Fatalf("%s: status want %d got %d", tc.name, tc.status, rec.Code)
		}
		if tc.status == http.StatusOK && seen != learnerID {
			t.Fatalf("%s: identity not attached", tc.name)
		}
	}
}
