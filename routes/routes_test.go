package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/services"
	"github.com/random0602/DailyGlow/testutils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "routes-test-secret"

type testServer struct {
	router *gin.Engine
	db     *database.Database
}

func newServices() Services {
	return Services{
		Auth:  services.NewAuthService(testSecret, time.Hour),
		Users: services.NewUserService(nil),
		Tasks: services.NewTaskService(nil, 0),
		Moods: services.NewMoodService(nil, 0),
	}
}

func newTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutils.SetupTestDB(t)
	return &testServer{router: NewRouter(db, newServices(), opts), db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	return serve(t, s.router, method, path, token, body)
}

func serve(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// signUpAndIn registers username and returns its access token and id.
func (s *testServer) signUpAndIn(t *testing.T, username string) (string, string) {
	t.Helper()
	credentials := gin.H{"username": username, "password": "secret123"}

	w := s.do(t, http.MethodPost, "/auth/signup", "", credentials)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created signUpResponse
	decode(t, w, &created)

	w = s.do(t, http.MethodPost, "/auth/signin", "", credentials)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var signedIn signInResponse
	decode(t, w, &signedIn)

	return signedIn.AccessToken, created.ID.String()
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, w, &body)
	return body["error"]
}
