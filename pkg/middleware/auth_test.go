package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/MuhammadYassa/WatchMate/pkg/jwt"
	"github.com/MuhammadYassa/WatchMate/pkg/response"
)

func newRouter(t *testing.T) (*gin.Engine, *pkgjwt.Manager) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := pkgjwt.NewManager("secret", "", time.Minute)
	require.NoError(t, err)

	r := gin.New()
	r.GET("/me", NewAuthMiddleware(tokens).RequireAuth(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetUserID(c), "name": GetUsername(c)})
	})
	return r, tokens
}

func TestRequireAuthAccepts(t *testing.T) {
	r, tokens := newRouter(t)
	token, err := tokens.Sign("user-1", "alice")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"user-1","name":"alice"}`, w.Body.String())
}

func TestRequireAuthRejects(t *testing.T) {
	r, _ := newRouter(t)

	tests := []struct {
		name   string
		header string
		msg    string
	}{
		{"missing", "", "missing authorization header"},
		{"not bearer", "Basic abc", "invalid authorization format"},
		{"bad token", BearerPrefix + "abc", "invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			require.Equal(t, http.StatusUnauthorized, w.Code)
			var res response.Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
			require.NotNil(t, res.Error)
			assert.Equal(t, "UNAUTHORIZED", res.Error.Code)
			assert.Equal(t, tt.msg, res.Error.Message)
		})
	}
}
