package endpoints

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"blockgen"
	"blockgen/pkg"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testConfig() blockgen.AppConfig {
	var cfg blockgen.AppConfig
	cfg.JWTConfig.Secret = testSecret
	return cfg
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func bearer(t *testing.T, userID uint) string {
	t.Helper()
	token, err := pkg.GenerateToken(userID, "user@example.com", "user", testSecret, 10)
	require.NoError(t, err)
	return "Bearer " + token
}

func do(r http.Handler, method, path, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
