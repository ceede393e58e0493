package profile

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/models"
)

type mockUpdater struct {
	mock.Mock
}

func (m *mockUpdater) UpdateUser(ctx context.Context, req api.UpdateUserRequest) (models.User, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockUpdater) RequestOTP(ctx context.Context, email, otpType string) error {
	args := m.Called(ctx, email, otpType)
	return args.Error(0)
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSubmit_UnchangedEmailUpdatesDirectly(t *testing.T) {
	upd := &mockUpdater{}
	upd.On("UpdateUser", mock.Anything, api.UpdateUserRequest{
		Name:  "Dana",
		Email: "dana@acode.app",
	}).Return(models.User{Name: "Dana"}, nil)

	w := New(upd, discard(), "dana@acode.app")
	err := w.Submit(context.Background(), Form{Name: "Dana", Email: "dana@acode.app"})
	require.NoError(t, err)

	assert.Equal(t, StateDone, w.State())
	upd.AssertNotCalled(t, "RequestOTP", mock.Anything, mock.Anything, mock.Anything)
	upd.AssertExpectations(t)
}

func TestSubmit_ChangedEmailRequestsCodeBeforeAnyUpdate(t *testing.T) {
	upd := &mockUpdater{}
	upd.On("RequestOTP", mock.Anything, "new@acode.app", api.OTPTypeEmail).Return(nil)

	w := New(upd, discard(), "old@acode.app")
	err := w.Submit(context.Background(), Form{Name: "Dana", Email: "new@acode.app"})
	require.NoError(t, err)

	assert.Equal(t, StateAwaitingOTP, w.State())
	upd.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	upd.AssertExpectations(t)
}

func TestVerify_RejectsMalformedCodesLocally(t *testing.T) {
	upd := &mockUpdater{}
	upd.On("RequestOTP", mock.Anything, "new@acode.app", api.OTPTypeEmail).Return(nil)

	w := New(upd, discard(), "old@acode.app")
	require.NoError(t, w.Submit(context.Background(), Form{Name: "Dana", Email: "new@acode.app"}))

	cases := []struct {
		name string
		code string
	}{
		{name: "too short", code: "123"},
		{name: "letters mixed in", code: "12a45b"},
		{name: "too long", code: "1234567"},
		{name: "sign prefix", code: "+12345"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := w.Verify(context.Background(), tc.code)
			assert.ErrorIs(t, err, ErrInvalidOTP)
			assert.Equal(t, StateAwaitingOTP, w.State(), "rejection must not move the machine")
		})
	}
	upd.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestVerify_ForwardsCodeAsNumber(t *testing.T) {
	upd := &mockUpdater{}
	upd.On("RequestOTP", mock.Anything, "new@acode.app", api.OTPTypeEmail).Return(nil)
	otp := 123456
	upd.On("UpdateUser", mock.Anything, api.UpdateUserRequest{
		Name:  "Dana",
		Email: "new@acode.app",
		OTP:   &otp,
	}).Return(models.User{}, nil)

	w := New(upd, discard(), "old@acode.app")
	require.NoError(t, w.Submit(context.Background(), Form{Name: "Dana", Email: "new@acode.app"}))
	require.NoError(t, w.Verify(context.Background(), "123456"))

	assert.Equal(t, StateDone, w.State())
	assert.Equal(t, "new@acode.app", w.OriginalEmail(), "the new email becomes the baseline")
	upd.AssertExpectations(t)
}

func TestVerify_FailureKeepsDialogOpenForRetry(t *testing.T) {
	upd := &mockUpdater{}
	upd.On("RequestOTP", mock.Anything, "new@acode.app", api.OTPTypeEmail).Return(nil)

	wrong := 111111
	upd.On("UpdateUser", mock.Anything, mock.MatchedBy(func(r api.UpdateUserRequest) bool {
		return r.OTP != nil && *r.OTP == wrong
	})).Return(models.User{}, &api.Error{Status: 400, Message: "invalid otp"})
	right := 123456
	upd.On("UpdateUser", mock.Anything, mock.MatchedBy(func(r api.UpdateUserRequest) bool {
		return r.OTP != nil && *r.OTP == right
	})).Return(models.User{}, nil)

	w := New(upd, discard(), "old@acode.app")
	require.NoError(t, w.Submit(context.Background(), Form{Name: "Dana", Email: "new@acode.app"}))

	err := w.Verify(context.Background(), "111111")
	require.Error(t, err)
	assert.Equal(t, StateAwaitingOTP, w.State())
	assert.Equal(t, "invalid otp", w.LastError())

	require.NoError(t, w.Verify(context.Background(), "123456"))
	assert.Equal(t, StateDone, w.State())
}

func TestVerify_UnauthorizedSignalsLogin(t *testing.T) {
	upd := &mockUpdater{}
	upd.On("RequestOTP", mock.Anything, "new@acode.app", api.OTPTypeEmail).Return(nil)
	upd.On("UpdateUser", mock.Anything, mock.Anything).
		Return(models.User{}, api.ErrUnauthorized)

	w := New(upd, discard(), "old@acode.app")
	require.NoError(t, w.Submit(context.Background(), Form{Name: "Dana", Email: "new@acode.app"}))

	err := w.Verify(context.Background(), "123456")
	require.Error(t, err)
	assert.True(t, w.NeedsLogin())
}

func TestCancel_RevertsEmailWithoutUpdate(t *testing.T) {
	upd := &mockUpdater{}
	upd.On("RequestOTP", mock.Anything, "new@acode.app", api.OTPTypeEmail).Return(nil)

	w := New(upd, discard(), "old@acode.app")
	require.NoError(t, w.Submit(context.Background(), Form{Name: "Dana", Email: "new@acode.app"}))

	require.NoError(t, w.Cancel())
	assert.Equal(t, StateEditing, w.State())
	assert.Equal(t, "old@acode.app", w.Form().Email)
	upd.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
}

func TestResend_RequestsSameTargetAgain(t *testing.T) {
	upd := &mockUpdater{}
	upd.On("RequestOTP", mock.Anything, "new@acode.app", api.OTPTypeEmail).Return(nil).Twice()

	w := New(upd, discard(), "old@acode.app")
	require.NoError(t, w.Submit(context.Background(), Form{Name: "Dana", Email: "new@acode.app"}))
	require.NoError(t, w.Resend(context.Background()))

	assert.Equal(t, StateAwaitingOTP, w.State())
	upd.AssertExpectations(t)
}

func TestTransitionGuards(t *testing.T) {
	upd := &mockUpdater{}
	w := New(upd, discard(), "old@acode.app")

	assert.ErrorIs(t, w.Verify(context.Background(), "123456"), ErrInvalidTransition)
	assert.ErrorIs(t, w.Resend(context.Background()), ErrInvalidTransition)
	assert.ErrorIs(t, w.Cancel(), ErrInvalidTransition)
	assert.ErrorIs(t, w.Acknowledge(), ErrInvalidTransition)
}

func TestSubmit_ValidationFailureStaysEditing(t *testing.T) {
	upd := &mockUpdater{}
	w := New(upd, discard(), "old@acode.app")

	err := w.Submit(context.Background(), Form{Name: "", Email: "not-an-email"})
	require.Error(t, err)
	assert.Equal(t, StateEditing, w.State())
	assert.NotEmpty(t, w.LastError())
	upd.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything)
	upd.AssertNotCalled(t, "RequestOTP", mock.Anything, mock.Anything, mock.Anything)
}
