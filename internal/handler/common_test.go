package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"event-checkin/internal/handler"
	"event-checkin/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var (
	InvalidJSON = `{"invalid": json}`
)

type pingerStub struct {
	err error
}

func (p pingerStub) Ping(ctx context.Context) error {
	return p.err
}

type testServices struct {
	registration *mocks.RegistrationServiceMock
	checkIn      *mocks.CheckInServiceMock
	admin        *mocks.AdminServiceMock
}

func newTestServices() *testServices {
	return &testServices{
		registration: mocks.NewRegistrationServiceMock(),
		checkIn:      mocks.NewCheckInServiceMock(),
		admin:        mocks.NewAdminServiceMock(),
	}
}

func (s *testServices) assertExpectations(t *testing.T) {
	t.Helper()
	s.registration.AssertExpectations(t)
	s.checkIn.AssertExpectations(t)
	s.admin.AssertExpectations(t)
}

// setupTestRouter 不設定任何 access key
func setupTestRouter(s *testServices) *gin.Engine {
	return setupTestRouterWithDeps(s, handler.RouterDeps{})
}

func setupTestRouterWithDeps(s *testServices, deps handler.RouterDeps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	deps.Registration = s.registration
	deps.CheckIn = s.checkIn
	deps.Admin = s.admin
	if deps.Health == nil {
		deps.Health = pingerStub{}
	}
	return handler.NewRouter(deps)
}

func hashKey(t *testing.T, key string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	if s, ok := data.(string); ok {
		return bytes.NewBufferString(s)
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(router *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
