package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Acode-Foundation/acode-site/internal/api"
	catalogfeed "github.com/Acode-Foundation/acode-site/internal/catalog"
	"github.com/Acode-Foundation/acode-site/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) PluginDetail(ctx context.Context, id string) (models.Plugin, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Plugin), args.Error(1)
}

func (m *MockService) Comments(ctx context.Context, pluginID string) ([]models.Review, error) {
	args := m.Called(ctx, pluginID)
	if res := args.Get(0); res != nil {
		return res.([]models.Review), args.Error(1)
	}
	return nil, args.Error(1)
}

type failingSource struct{}

func (failingSource) Page(context.Context, api.ListParams, int, int) ([]models.Plugin, error) {
	return nil, errors.New("upstream down")
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestListHandler_ServesFallbackWhenUpstreamDown(t *testing.T) {
	source := catalogfeed.NewResilient(
		failingSource{},
		catalogfeed.NewStaticSource(catalogfeed.FallbackPlugins()),
		testLogger(),
	)
	handler := New(testLogger(), new(MockService), source)

	req := httptest.NewRequest(http.MethodGet, "/api/plugins", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OK"`)
	assert.Contains(t, w.Body.String(), "acode.plugin.git")
	assert.Contains(t, w.Body.String(), `"has_next":false`)
}

func TestListHandler_FiltersByCategory(t *testing.T) {
	source := catalogfeed.NewStaticSource(catalogfeed.FallbackPlugins())
	handler := New(testLogger(), new(MockService), source)

	req := httptest.NewRequest(http.MethodGet, "/api/plugins?category=paid", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Console")
	assert.NotContains(t, w.Body.String(), "acode.plugin.git")
}

func TestDetailHandler(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "plugin found",
			id:   "acode.plugin.git",
			setupMock: func(m *MockService) {
				m.On("PluginDetail", mock.Anything, "acode.plugin.git").
					Return(models.Plugin{ID: "acode.plugin.git", Name: "Git"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Git"`,
		},
		{
			name: "plugin missing",
			id:   "nope",
			setupMock: func(m *MockService) {
				m.On("PluginDetail", mock.Anything, "nope").
					Return(models.Plugin{}, api.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"plugin not found"`,
		},
		{
			name: "upstream failure",
			id:   "acode.plugin.git",
			setupMock: func(m *MockService) {
				m.On("PluginDetail", mock.Anything, "acode.plugin.git").
					Return(models.Plugin{}, errors.New("timeout"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `"error":"could not load plugin"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(testLogger(), mockService, catalogfeed.NewStaticSource(nil))

			req := httptest.NewRequest(http.MethodGet, "/api/plugins/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			handler.Detail(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}

func TestCommentsHandler(t *testing.T) {
	mockService := new(MockService)
	mockService.On("Comments", mock.Anything, "acode.plugin.git").
		Return([]models.Review{{ID: "1", Comment: "great plugin"}}, nil)

	handler := New(testLogger(), mockService, catalogfeed.NewStaticSource(nil))

	req := httptest.NewRequest(http.MethodGet, "/api/plugins/acode.plugin.git/comments", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "acode.plugin.git")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.Comments(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "great plugin")
	mockService.AssertExpectations(t)
}
