package endpoints

import (
	"net/http"
	"testing"

	"blockgen/internal/api/handler/request"
	"blockgen/internal/api/handler/response"
	"blockgen/internal/api/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeUsers struct{}

func (fakeUsers) Register(dto request.RegisterDTO) (*response.AuthResponseDTO, error) {
	return &response.AuthResponseDTO{Token: "t", RefreshToken: "r", User: response.UserResponseDTO{ID: 1, Email: dto.Email}}, nil
}

func (fakeUsers) Login(dto request.LoginDTO) (*response.AuthResponseDTO, error) {
	if dto.Password != "secret1" {
		return nil, service.ErrInvalidCredentials
	}
	return &response.AuthResponseDTO{Token: "t", RefreshToken: "r"}, nil
}

func (fakeUsers) GetByID(id uint) (response.UserResponseDTO, error) {
	return response.UserResponseDTO{ID: id, Email: "user@example.com"}, nil
}

func (fakeUsers) RefreshToken(token string) (*response.AuthResponseDTO, error) {
	return &response.AuthResponseDTO{Token: "t2", RefreshToken: "r2"}, nil
}

func newAuthRouter() http.Handler {
	h := &authHandler{userService: fakeUsers{}, logger: zerolog.Nop(), config: testConfig()}
	r := newTestRouter()
	h.register(r)
	return r
}

func TestAuthHandler_Register(t *testing.T) {
	r := newAuthRouter()

	w := do(r, http.MethodPost, "/api/v1/auth/register", "", `{"email":"a@example.com","password":"secret1","firstName":"Ada","lastName":"Lovelace"}`)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(r, http.MethodPost, "/api/v1/auth/register", "", `{"email":"not-an-email","password":"secret1","firstName":"Ada","lastName":"Lovelace"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/v1/auth/register", "", `{"email":"a@example.com","password":"123","firstName":"Ada","lastName":"Lovelace"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	r := newAuthRouter()

	w := do(r, http.MethodPost, "/api/v1/auth/login", "", `{"email":"a@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/v1/auth/login", "", `{"email":"a@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"message":"invalid email or password"}`, w.Body.String())
}

func TestAuthHandler_Me(t *testing.T) {
	r := newAuthRouter()

	w := do(r, http.MethodGet, "/api/v1/me", bearer(t, 12), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":12`)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/me", "", "").Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	r := newAuthRouter()

	w := do(r, http.MethodPost, "/api/v1/auth/refresh", "", `{"refreshToken":"r"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodPost, "/api/v1/auth/refresh", "", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
