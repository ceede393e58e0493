package payments

import (
	"context"
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
	"github.com/Acode-Foundation/acode-site/internal/models"
	"github.com/Acode-Foundation/acode-site/internal/resources"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Developer(ctx context.Context) (models.User, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockService) PaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	args := m.Called(ctx, userID)
	if res := args.Get(0); res != nil {
		return res.([]models.PaymentMethod), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) AddPaymentMethod(ctx context.Context, body api.NewPaymentMethod) (models.PaymentMethod, error) {
	args := m.Called(ctx, body)
	return args.Get(0).(models.PaymentMethod), args.Error(1)
}

func (m *MockService) DeletePaymentMethod(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) SetDefaultPaymentMethod(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) Earnings(ctx context.Context, userID string, year, month int) (models.EarningsReport, error) {
	args := m.Called(ctx, userID, year, month)
	return args.Get(0).(models.EarningsReport), args.Error(1)
}

func (m *MockService) Payments(ctx context.Context, userID string, year int) ([]models.Payment, error) {
	args := m.Called(ctx, userID, year)
	if res := args.Get(0); res != nil {
		return res.([]models.Payment), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockService) Receipt(ctx context.Context, userID, id string) (models.Receipt, error) {
	args := m.Called(ctx, userID, id)
	return args.Get(0).(models.Receipt), args.Error(1)
}

func (m *MockService) UpdateThreshold(ctx context.Context, threshold int) error {
	args := m.Called(ctx, threshold)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMethodsHandler(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "methods listed",
			setupMock: func(m *MockService) {
				m.On("Developer", mock.Anything).Return(models.User{ID: "42"}, nil)
				m.On("PaymentMethods", mock.Anything, "42").Return([]models.PaymentMethod{
					{ID: "1", PaypalEmail: "p@x.com", IsDefault: true},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"paypal_email":"p@x.com"`,
		},
		{
			name: "not logged in",
			setupMock: func(m *MockService) {
				m.On("Developer", mock.Anything).Return(models.User{}, resources.ErrNotReady)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"redirect":"/login"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(testLogger(), mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/user/payment-methods", nil)
			w := httptest.NewRecorder()

			handler.Methods(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}

func TestSetDefaultHandler(t *testing.T) {
	mockService := new(MockService)
	mockService.On("SetDefaultPaymentMethod", mock.Anything, "2").Return(nil)

	handler := New(testLogger(), mockService)

	req := httptest.NewRequest(http.MethodPatch, "/api/user/payment-methods/2/default", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "2")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	w := httptest.NewRecorder()

	handler.SetDefault(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OK"`)
	mockService.AssertExpectations(t)
}

func TestThresholdHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "threshold updated",
			body: `{"threshold":100}`,
			setupMock: func(m *MockService) {
				m.On("UpdateThreshold", mock.Anything, 100).Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name:           "threshold below minimum",
			body:           `{"threshold":0}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   "Threshold must be at least 1",
		},
		{
			name: "upstream rejects",
			body: `{"threshold":5}`,
			setupMock: func(m *MockService) {
				m.On("UpdateThreshold", mock.Anything, 5).
					Return(&api.Error{Status: 422, Message: "threshold too low"})
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"threshold too low"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(testLogger(), mockService)

			req := httptest.NewRequest(http.MethodPut, "/api/user/threshold", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.Threshold(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
