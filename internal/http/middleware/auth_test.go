package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nurpe/tourops-pricing/internal/model"
)

type parserFunc func(string) (model.Principal, error)

func (f parserFunc) Parse(token string) (model.Principal, error) { return f(token) }

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	principal := model.Principal{UserID: uuid.New(), TenantID: uuid.New(), Role: model.UserRoleAdmin}
	parser := parserFunc(func(token string) (model.Principal, error) {
		if token == "good" {
			return principal, nil
		}
		return model.Principal{}, errors.New("bad token")
	})

	router := gin.New()
	router.Use(Auth(parser))
	router.GET("/me", func(c *gin.Context) {
		got, ok := MustPrincipal(c)
		if !ok || got != principal {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusOK)
	})

	cases := map[string]struct {
		header string
		want   int
	}{
		"valid":      {"Bearer good", http.StatusOK},
		"invalid":    {"Bearer bad", http.StatusUnauthorized},
		"no scheme":  {"good", http.StatusUnauthorized},
		"empty":      {"", http.StatusUnauthorized},
		"blank auth": {"Bearer   ", http.StatusUnauthorized},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}
