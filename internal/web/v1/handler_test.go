package v1

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yys/user-service/internal/core/domain"
	logicv1 "github.com/yys/user-service/internal/logic/v1"
)

// ---- mock logic ----

type mockUserLogic struct {
	registerFn func(domain.RegisterRequest) (*domain.Profile, error)
	loginFn    func(domain.LoginRequest) (string, error)
	logoutFn   func(string) error
	getFn      func(int64) (*domain.Profile, error)
	pageFn     func(domain.PageRequest) (*domain.PageResult, error)
	updateFn   func(domain.UpdateRequest) (*domain.Profile, error)
	deleteFn   func(int64) error
}

func (m *mockUserLogic) Register(_ context.Context, req domain.RegisterRequest) (*domain.Profile, error) {
	if m.registerFn != nil {
		return m.registerFn(req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserLogic) Login(_ context.Context, req domain.LoginRequest) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(req)
	}
	return "", fmt.Errorf("not configured")
}

func (m *mockUserLogic) Logout(_ context.Context, token string) error {
	if m.logoutFn != nil {
		return m.logoutFn(token)
	}
	return fmt.Errorf("not configured")
}

func (m *mockUserLogic) GetUserInfo(_ context.Context, id int64) (*domain.Profile, error) {
	if m.getFn != nil {
		return m.getFn(id)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserLogic) GetUserPage(_ context.Context, req domain.PageRequest) (*domain.PageResult, error) {
	if m.pageFn != nil {
		return m.pageFn(req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserLogic) UpdateUser(_ context.Context, req domain.UpdateRequest) (*domain.Profile, error) {
	if m.updateFn != nil {
		return m.updateFn(req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserLogic) DeleteUser(_ context.Context, id int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(id)
	}
	return fmt.Errorf("not configured")
}

// ---- helpers ----

func newTestRouter(logic UserLogic) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(logic).RegisterRoutes(r.Group("/api/v1/users"))
	return r
}

func doRequest(router *gin.Engine, method, url string, body any, header map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

var testAliceProfile = &domain.Profile{
	ID:       1,
	Username: "alice",
	Nickname: "Alice",
	Email:    "alice@example.com",
	Status:   domain.StatusActive,
}

// ---- tests ----

func TestHelloReturnsBareString(t *testing.T) {
	router := newTestRouter(&mockUserLogic{})

	w := doRequest(router, http.MethodGet, "/api/v1/users/hello", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "hello", w.Body.String())
}

func TestRegisterSuccess(t *testing.T) {
	logic := &mockUserLogic{
		registerFn: func(req domain.RegisterRequest) (*domain.Profile, error) {
			assert.Equal(t, "alice", req.Username)
			return testAliceProfile, nil
		},
	}
	router := newTestRouter(logic)

	w := doRequest(router, http.MethodPost, "/api/v1/users/register",
		map[string]any{"username": "alice", "password": "secret1"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "success", resp.Message)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "alice", data["username"])
	assert.NotContains(t, data, "password")
}

func TestRegisterValidationFailureUsesFirstFieldMessage(t *testing.T) {
	router := newTestRouter(&mockUserLogic{})

	// Username too short: first violated field must drive the message.
	w := doRequest(router, http.MethodPost, "/api/v1/users/register",
		map[string]any{"username": "ab", "password": "secret1"}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, 400, resp.Code)
	assert.Contains(t, resp.Message, "Username")
	assert.Contains(t, resp.Message, "min")
}

func TestRegisterDuplicateUsernameEnvelope(t *testing.T) {
	logic := &mockUserLogic{
		registerFn: func(domain.RegisterRequest) (*domain.Profile, error) {
			return nil, fmt.Errorf("register user %q: %w", "alice", logicv1.ErrUsernameTaken)
		},
	}
	router := newTestRouter(logic)

	w := doRequest(router, http.MethodPost, "/api/v1/users/register",
		map[string]any{"username": "alice", "password": "secret1"}, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, 500, resp.Code)
	assert.Equal(t, "username already exists", resp.Message)
	assert.Nil(t, resp.Data)
}

func TestLoginReturnsToken(t *testing.T) {
	logic := &mockUserLogic{
		loginFn: func(req domain.LoginRequest) (string, error) {
			assert.Equal(t, "alice", req.Username)
			return "deadbeefcafe", nil
		},
	}
	router := newTestRouter(logic)

	w := doRequest(router, http.MethodPost, "/api/v1/users/login",
		map[string]any{"username": "alice", "password": "pw1"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "deadbeefcafe", resp.Data)
}

func TestLoginBadPasswordEnvelope(t *testing.T) {
	logic := &mockUserLogic{
		loginFn: func(domain.LoginRequest) (string, error) {
			return "", fmt.Errorf("authenticate: %w", logicv1.ErrPasswordMismatch)
		},
	}
	router := newTestRouter(logic)

	w := doRequest(router, http.MethodPost, "/api/v1/users/login",
		map[string]any{"username": "alice", "password": "nope"}, nil)

	resp := decodeEnvelope(t, w)
	assert.Equal(t, 500, resp.Code)
	assert.Equal(t, "incorrect password", resp.Message)
}

func TestLogoutUsesAuthorizationHeader(t *testing.T) {
	var gotToken string
	logic := &mockUserLogic{
		logoutFn: func(token string) error {
			gotToken = token
			return nil
		},
	}
	router := newTestRouter(logic)

	w := doRequest(router, http.MethodPost, "/api/v1/users/logout", nil,
		map[string]string{"Authorization": "deadbeefcafe"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "deadbeefcafe", gotToken)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, 200, resp.Code)
	assert.Nil(t, resp.Data)
}

func TestLogoutMissingHeader(t *testing.T) {
	router := newTestRouter(&mockUserLogic{})

	w := doRequest(router, http.MethodPost, "/api/v1/users/logout", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, 400, resp.Code)
}

func TestGetUserInfo(t *testing.T) {
	logic := &mockUserLogic{
		getFn: func(id int64) (*domain.Profile, error) {
			assert.Equal(t, int64(1), id)
			return testAliceProfile, nil
		},
	}
	router := newTestRouter(logic)

	w := doRequest(router, http.MethodGet, "/api/v1/users/1", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "alice", data["username"])
}

func TestGetUserInfoNotFoundEnvelope(t *testing.T) {
	logic := &mockUserLogic{
		getFn: func(int64) (*domain.Profile, error) {
			return nil, fmt.Errorf("get user: %w", logicv1.ErrUserNotFound)
		},
	}
	router := newTestRouter(logic)

	w := doRequest(router, http.MethodGet, "/api/v1/users/99", nil, nil)

	resp := decodeEnvelope(t, w)
	assert.Equal(t, 500, resp.Code)
	assert.Equal(t, "user not found", resp.Message)
}

func TestGetUserInfoRejectsNonNumericID(t *testing.T) {
	router := newTestRouter(&mockUserLogic{})

	w := doRequest(router, http.MethodGet, "/api/v1/users/abc", nil, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, 400, resp.Code)
}

func TestGetUserPage(t *testing.T) {
	logic := &mockUserLogic{
		pageFn: func(req domain.PageRequest) (*domain.PageResult, error) {
			assert.Equal(t, 2, req.PageNum)
			assert.Equal(t, 5, req.PageSize)
			return &domain.PageResult{Total: 11, Records: []*domain.Profile{testAliceProfile}}, nil
		},
	}
	router := newTestRouter(logic)

	w := doRequest(router, http.MethodGet, "/api/v1/users/page?pageNum=2&pageSize=5", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, float64(11), data["total"])
	assert.Len(t, data["records"], 1)
}

func TestUpdateUser(t *testing.T) {
	logic := &mockUserLogic{
		updateFn: func(req domain.UpdateRequest) (*domain.Profile, error) {
			assert.Equal(t, int64(1), req.ID)
			assert.Equal(t, "Alice in Chains", req.Nickname)
			updated := *testAliceProfile
			updated.Nickname = req.Nickname
			return &updated, nil
		},
	}
	router := newTestRouter(logic)

	w := doRequest(router, http.MethodPut, "/api/v1/users",
		map[string]any{"id": 1, "nickname": "Alice in Chains"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "Alice in Chains", data["nickname"])
}

func TestUpdateUserRequiresID(t *testing.T) {
	router := newTestRouter(&mockUserLogic{})

	w := doRequest(router, http.MethodPut, "/api/v1/users",
		map[string]any{"nickname": "no id"}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, 400, resp.Code)
	assert.Contains(t, resp.Message, "ID")
}

func TestDeleteUserSilentOnMissing(t *testing.T) {
	logic := &mockUserLogic{
		deleteFn: func(int64) error { return nil },
	}
	router := newTestRouter(logic)

	w := doRequest(router, http.MethodDelete, "/api/v1/users/12345", nil, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, 200, resp.Code)
	assert.Nil(t, resp.Data)
}

func TestUnmappedErrorBecomesInternal(t *testing.T) {
	logic := &mockUserLogic{
		getFn: func(int64) (*domain.Profile, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	router := newTestRouter(logic)

	w := doRequest(router, http.MethodGet, "/api/v1/users/1", nil, nil)

	resp := decodeEnvelope(t, w)
	assert.Equal(t, 500, resp.Code)
	assert.Equal(t, "internal server error", resp.Message)
}
