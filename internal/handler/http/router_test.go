package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/auction1/pto-backend-go/internal/domain/pto"
	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/auction1/pto-backend-go/internal/pkg/jwt"
	"github.com/auction1/pto-backend-go/internal/pkg/storage"
	"github.com/auction1/pto-backend-go/internal/repository/blob"
	authService "github.com/auction1/pto-backend-go/internal/service/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestSecret    = "test-secret-key-for-jwt"
	handlerTestAccessExp = "1h"
)

const handlerTestUserDB = `{
	"김철수": {"pw": "1234", "first_login": false, "role": "user", "title": "대리"},
	"이영희": {"password": "0000", "first_login": true, "role": "user", "title": "과장"},
	"관리자": {"password": "admin", "first_login": false, "role": "admin", "title": "팀장"}
}`

// stubPTOService records the subject each view was asked for.
type stubPTOService struct {
	subject string
	fileID  string
	err     error
}

func (s *stubPTOService) Balance(ctx context.Context, name string) (pto.BalanceResponse, error) {
	s.subject = name
	return pto.BalanceResponse{Name: name, SourceFile: "2026_2월.xlsx"}, s.err
}

func (s *stubPTOService) Months(ctx context.Context) ([]pto.MonthSummary, error) {
	return []pto.MonthSummary{{FileID: "f1", Name: "2026_2월.xlsx", Period: "2026-02"}}, s.err
}

func (s *stubPTOService) Month(ctx context.Context, name, fileID string) (pto.MonthResponse, error) {
	s.subject, s.fileID = name, fileID
	return pto.MonthResponse{}, s.err
}

func (s *stubPTOService) Renewal(ctx context.Context, name string) (pto.RenewalResponse, error) {
	s.subject = name
	return pto.RenewalResponse{Name: name, Date: "2026-02-15", Status: "completed"}, s.err
}

func (s *stubPTOService) Warm(ctx context.Context) error {
	return s.err
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) (*chi.Mux, *stubPTOService) {
	t.Helper()
	r, ptoSvc, _ := newTestRouterWithAuth(t)
	return r, ptoSvc
}

func newTestRouterWithAuth(t *testing.T) (*chi.Mux, *stubPTOService, *authService.AuthServiceImpl) {
	t.Helper()
	base := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(base, pto.UserDBFile), []byte(handlerTestUserDB), 0o600))
	store, err := storage.NewLocalStorage(base)
	require.NoError(t, err)

	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	authSvc := authService.NewAuthService(blob.NewUserRepository(store), jwtSvc)
	ptoSvc := &stubPTOService{}

	r := NewRouter(RouterOptions{Env: "test"}, jwtSvc, authSvc,
		NewAuthHandler(authSvc), NewPTOHandler(ptoSvc), NewAdminHandler(authSvc))
	return r, ptoSvc, authSvc
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) (int, testEnvelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env testEnvelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w.Code, env
}

func login(t *testing.T, h http.Handler, name, password string) string {
	t.Helper()
	code, env := do(t, h, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"name": name, "password": password,
	})
	require.Equal(t, http.StatusOK, code)
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

func TestLogin_GenericErrorForUnknownUserAndWrongPassword(t *testing.T) {
	r, _ := newTestRouter(t)

	codeUnknown, envUnknown := do(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"name": "홍길동", "password": "1234",
	})
	codeWrong, envWrong := do(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"name": "김철수", "password": "wrong",
	})

	assert.Equal(t, http.StatusUnauthorized, codeUnknown)
	assert.Equal(t, codeUnknown, codeWrong)
	assert.Equal(t, envUnknown, envWrong)
}

func TestLogin_ValidationAndDecodeErrors(t *testing.T) {
	r, _ := newTestRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"name": " "})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Details, "name")
	assert.Contains(t, env.Error.Details, "password")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_NameWhitespaceIsIgnored(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, " 김 철수 ", "1234")

	code, env := do(t, r, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"name":"김철수"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, path := range []string{"/api/v1/me", "/api/v1/pto/balance", "/api/v1/admin/users"} {
		code, _ := do(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, code, path)
	}

	code, _ := do(t, r, http.MethodGet, "/api/v1/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestFirstLogin_MustChangePasswordThenLogInAgain(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, "이영희", "0000")

	code, env := do(t, r, http.MethodGet, "/api/v1/pto/balance", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, _ = do(t, r, http.MethodPut, "/api/v1/auth/password", token, map[string]string{
		"new_password": "abcd", "confirm_password": "abce",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = do(t, r, http.MethodPut, "/api/v1/auth/password", token, map[string]string{
		"new_password": "abcd", "confirm_password": "abcd",
	})
	require.Equal(t, http.StatusOK, code)

	// The first-login token is revoked after the change.
	code, _ = do(t, r, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	token = login(t, r, "이영희", "abcd")
	code, _ = do(t, r, http.MethodGet, "/api/v1/pto/balance", token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestPasswordChangeKeepsRegularSession(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, "김철수", "1234")

	code, _ := do(t, r, http.MethodPut, "/api/v1/auth/password", token, map[string]string{
		"new_password": "5678", "confirm_password": "5678",
	})
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, r, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusOK, code)

	codeOld, _ := do(t, r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"name": "김철수", "password": "1234"})
	assert.Equal(t, http.StatusUnauthorized, codeOld)
	login(t, r, "김철수", "5678")
}

func TestPasswordResetAppliesToIssuedTokens(t *testing.T) {
	r, _, authSvc := newTestRouterWithAuth(t)
	token := login(t, r, "김철수", "1234")

	code, _ := do(t, r, http.MethodGet, "/api/v1/pto/balance", token, nil)
	require.Equal(t, http.StatusOK, code)

	require.NoError(t, authSvc.ResetPassword(context.Background(), user.ResetPasswordRequest{
		Name: "김철수", Password: "temp1234",
	}))

	code, env := do(t, r, http.MethodGet, "/api/v1/pto/balance", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
	require.NotNil(t, env.Error)

	code, _ = do(t, r, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestLogoutRevokesToken(t *testing.T) {
	r, _ := newTestRouter(t)
	token := login(t, r, "김철수", "1234")

	code, _ := do(t, r, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = do(t, r, http.MethodGet, "/api/v1/pto/balance", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestPTOViewsUseSessionSubject(t *testing.T) {
	r, svc := newTestRouter(t)
	token := login(t, r, "김철수", "1234")

	code, env := do(t, r, http.MethodGet, "/api/v1/pto/balance", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, "김철수", svc.subject)

	code, _ = do(t, r, http.MethodGet, "/api/v1/pto/months/f1", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "f1", svc.fileID)

	code, env = do(t, r, http.MethodGet, "/api/v1/pto/months", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"file_id":"f1"`)

	code, _ = do(t, r, http.MethodGet, "/api/v1/pto/renewal", token, nil)
	assert.Equal(t, http.StatusOK, code)

	// Regular users cannot impersonate.
	code, _ = do(t, r, http.MethodGet, "/api/v1/pto/balance?as=이영희", token, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestAdminImpersonationAndUserList(t *testing.T) {
	r, svc := newTestRouter(t)
	token := login(t, r, "관리자", "admin")

	code, _ := do(t, r, http.MethodGet, "/api/v1/pto/balance?as=김철수", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "김철수", svc.subject)

	code, _ = do(t, r, http.MethodGet, "/api/v1/pto/balance", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "관리자", svc.subject)

	code, env := do(t, r, http.MethodGet, "/api/v1/admin/users", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"name":"이영희"`)
	assert.NotContains(t, string(env.Data), "password")

	userToken := login(t, r, "김철수", "1234")
	code, _ = do(t, r, http.MethodGet, "/api/v1/admin/users", userToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestPTOViewsDegradeToNoData(t *testing.T) {
	r, svc := newTestRouter(t)
	token := login(t, r, "김철수", "1234")

	tests := []struct {
		name string
		err  error
		code int
		want string
	}{
		{"remote unavailable", pto.ErrDataUnavailable, http.StatusNotFound, "NO_DATA"},
		{"no record", pto.ErrRecordNotFound, http.StatusNotFound, "NO_DATA"},
		{"no monthly files", pto.ErrNoMonthlyFiles, http.StatusNotFound, "NO_DATA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.err = tt.err
			code, env := do(t, r, http.MethodGet, "/api/v1/pto/balance", token, nil)
			assert.Equal(t, tt.code, code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.want, env.Error.Code)
		})
	}

	svc.err = pto.ErrMonthNotFound
	code, env := do(t, r, http.MethodGet, "/api/v1/pto/months/missing", token, nil)
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
