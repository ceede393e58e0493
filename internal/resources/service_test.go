package resources

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/models"
	"github.com/Acode-Foundation/acode-site/internal/query"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notification
}

func (r *recordingNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var kinds []string
	for _, n := range r.notices {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

func newTestService(t *testing.T, handler http.Handler) (*Service, *recordingNotifier) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := query.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := query.New(store, log, query.WithTransient(api.IsTransient))
	notifier := &recordingNotifier{}
	return New(api.NewClient(srv.URL, 5*time.Second), cache, notifier, log), notifier
}

func TestDeveloper_GatedUntilSessionPresent(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"id":"42"}`))
	}))

	_, err := svc.Developer(context.Background())
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, int32(0), calls.Load(), "no request may fire while the identifier is missing")

	ctx := api.WithSession(context.Background(), "sess-1")
	u, err := svc.Developer(ctx)
	require.NoError(t, err)
	assert.Equal(t, "42", u.ID)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUserPlugins_GatedUntilUserIDPresent(t *testing.T) {
	var calls atomic.Int32
	svc, _ := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := svc.UserPlugins(context.Background(), "", "", 1)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, int32(0), calls.Load())
}

func TestMutation_SuccessInvalidatesDependentFamilies(t *testing.T) {
	var listCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user/payment-methods", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		_, _ = w.Write([]byte(`[{"id":"1","paypal_email":"p@x.com","is_default":1}]`))
	})
	mux.HandleFunc("PUT /api/user/threshold", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("PATCH /api/user/payment-method/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	svc, notifier := newTestService(t, mux)
	ctx := context.Background()

	_, err := svc.PaymentMethods(ctx, "42")
	require.NoError(t, err)
	_, err = svc.PaymentMethods(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, int32(1), listCalls.Load(), "second read must be a cache hit")

	require.NoError(t, svc.SetDefaultPaymentMethod(ctx, "2"))

	_, err = svc.PaymentMethods(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, int32(2), listCalls.Load(), "mutation must force the next read to refetch")
	assert.Equal(t, []string{NoticeSuccess}, notifier.kinds())
}

func TestMutation_FailureLeavesCacheUntouched(t *testing.T) {
	var listCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user/payment-methods", func(w http.ResponseWriter, r *http.Request) {
		listCalls.Add(1)
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("PATCH /api/user/payment-method/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"method belongs to another user"}`))
	})
	svc, notifier := newTestService(t, mux)
	ctx := context.Background()

	_, err := svc.PaymentMethods(ctx, "42")
	require.NoError(t, err)

	err = svc.SetDefaultPaymentMethod(ctx, "2")
	require.Error(t, err)
	assert.Equal(t, "method belongs to another user", api.Message(err))

	_, err = svc.PaymentMethods(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, int32(1), listCalls.Load(), "failed mutation must not invalidate")

	require.Len(t, notifier.notices, 1)
	assert.Equal(t, NoticeError, notifier.notices[0].Kind)
	assert.Equal(t, "method belongs to another user", notifier.notices[0].Message)
	assert.NotEmpty(t, notifier.notices[0].ID)
}

// Mirrors the payment-method flow end to end: the server owns the
// default transition, the client only triggers it and refetches.
func TestSetDefaultPaymentMethod_EndToEnd(t *testing.T) {
	var defaultID atomic.Value
	defaultID.Store("1")

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/user/payment-methods", func(w http.ResponseWriter, r *http.Request) {
		methods := []models.PaymentMethod{
			{ID: "1", PaypalEmail: "p@x.com", IsDefault: models.IntBool(defaultID.Load() == "1")},
			{ID: "2", BankName: "X", IsDefault: models.IntBool(defaultID.Load() == "2")},
		}
		_ = json.NewEncoder(w).Encode(methods)
	})
	mux.HandleFunc("PATCH /api/user/payment-method/{id}", func(w http.ResponseWriter, r *http.Request) {
		defaultID.Store(r.PathValue("id"))
		_, _ = w.Write([]byte(`{}`))
	})
	svc, _ := newTestService(t, mux)
	ctx := context.Background()

	methods, err := svc.PaymentMethods(ctx, "42")
	require.NoError(t, err)
	require.Len(t, methods, 2)
	assert.True(t, methods[0].IsDefault.Bool())
	assert.False(t, methods[1].IsDefault.Bool())

	require.NoError(t, svc.SetDefaultPaymentMethod(ctx, "2"))

	methods, err = svc.PaymentMethods(ctx, "42")
	require.NoError(t, err)
	assert.False(t, methods[0].IsDefault.Bool())
	assert.True(t, methods[1].IsDefault.Bool(), "read after invalidation must reflect the new default")
}

func TestGet_RequiredIdentifierListAllChecked(t *testing.T) {
	store := query.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	cache := query.New(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	var calls atomic.Int32
	q := Query[string]{
		Family:   "receipts",
		Params:   []string{"42", ""},
		Requires: []string{"42", ""},
		Fetch: func(context.Context) (string, error) {
			calls.Add(1)
			return "", errors.New("must not be called")
		},
	}

	_, err := Get(context.Background(), cache, q)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.Equal(t, int32(0), calls.Load())
}
