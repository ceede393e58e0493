// Package profile implements the profile-update workflow as an explicit
// state machine. An email change is never persisted without a verified
// one-time code; all other fields ride along in the same update call.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/go-playground/validator"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/lib/sl"
	"github.com/Acode-Foundation/acode-site/internal/models"
)

// State enumerates the workflow positions. A single variable replaces
// the flag combinations the dialog would otherwise juggle, so "dialog
// open while done" cannot be represented.
type State int

const (
	// StateEditing: the form is open, nothing submitted.
	StateEditing State = iota
	// StateSubmitting: an update without email change is in flight.
	StateSubmitting
	// StateAwaitingOTP: a code was sent to the new address; the dialog
	// is open and waiting for input.
	StateAwaitingOTP
	// StateVerifying: an update carrying the code is in flight.
	StateVerifying
	// StateDone: the update landed; the baseline email is the new one.
	StateDone
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateAwaitingOTP:
		return "awaiting_otp"
	case StateVerifying:
		return "verifying"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

var (
	// ErrInvalidTransition reports an operation not allowed in the
	// current state.
	ErrInvalidTransition = errors.New("profile: invalid transition")
	// ErrInvalidOTP reports a code rejected locally, before any
	// network call.
	ErrInvalidOTP = errors.New("profile: code must be exactly six digits")
)

// Updater is the slice of the API client the workflow drives.
type Updater interface {
	UpdateUser(ctx context.Context, req api.UpdateUserRequest) (models.User, error)
	RequestOTP(ctx context.Context, email, otpType string) error
}

// Form holds the editable profile fields.
type Form struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Github  string `json:"github"`
	Website string `json:"website"`
}

// Workflow is one user's profile-update session. The mutex serializes
// callers the way the browser's event loop serialized the original; a
// Cancel issued while a verify is in flight waits it out and then sees
// the resulting state.
type Workflow struct {
	updater  Updater
	log      *slog.Logger
	validate *validator.Validate

	mu            sync.Mutex
	state         State
	originalEmail string
	form          Form
	otp           string
	lastErr       string
	needsLogin    bool
}

// New builds a workflow anchored to the user's current email.
func New(updater Updater, log *slog.Logger, originalEmail string) *Workflow {
	return &Workflow{
		updater:       updater,
		log:           log,
		validate:      validator.New(),
		state:         StateEditing,
		originalEmail: originalEmail,
		form:          Form{Email: originalEmail},
	}
}

// State returns the current position.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Form returns the held form values.
func (w *Workflow) Form() Form {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// OriginalEmail returns the baseline the next submission compares to.
func (w *Workflow) OriginalEmail() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.originalEmail
}

// LastError returns the message shown inline, if any.
func (w *Workflow) LastError() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// NeedsLogin reports that a 401 was seen; the session is gone and the
// caller must navigate to the login page.
func (w *Workflow) NeedsLogin() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.needsLogin
}

// Submit starts an update from the editing state. An unchanged email
// persists directly; a changed one requests a code for the new address
// first, and nothing is persisted until Verify succeeds.
func (w *Workflow) Submit(ctx context.Context, form Form) error {
	const op = "profile.Submit"

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateEditing {
		return fmt.Errorf("%s in %s: %w", op, w.state, ErrInvalidTransition)
	}
	if err := w.validate.Struct(form); err != nil {
		w.lastErr = "please fill in a name and a valid email"
		return fmt.Errorf("%s: %w", op, err)
	}
	w.form = form

	if form.Email == w.originalEmail {
		w.state = StateSubmitting
		if _, err := w.updater.UpdateUser(ctx, w.updateRequest(nil)); err != nil {
			w.fail(err)
			w.state = StateEditing
			return fmt.Errorf("%s: %w", op, err)
		}
		w.finish()
		return nil
	}

	if err := w.updater.RequestOTP(ctx, form.Email, api.OTPTypeEmail); err != nil {
		w.fail(err)
		return fmt.Errorf("%s: %w", op, err)
	}
	w.log.Info("otp requested", slog.String("email", form.Email))
	w.otp = ""
	w.lastErr = ""
	w.state = StateAwaitingOTP
	return nil
}

// Verify submits the update with the entered code attached. A code that
// is not exactly six digits is rejected locally with no network call.
// On failure the dialog stays open for another attempt.
func (w *Workflow) Verify(ctx context.Context, code string) error {
	const op = "profile.Verify"

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateAwaitingOTP {
		return fmt.Errorf("%s in %s: %w", op, w.state, ErrInvalidTransition)
	}
	if !validOTP(code) {
		w.lastErr = "code must be exactly six digits"
		return ErrInvalidOTP
	}
	w.otp = code
	w.state = StateVerifying

	otp, _ := strconv.Atoi(code)
	if _, err := w.updater.UpdateUser(ctx, w.updateRequest(&otp)); err != nil {
		w.fail(err)
		w.state = StateAwaitingOTP
		return fmt.Errorf("%s: %w", op, err)
	}
	w.finish()
	return nil
}

// Resend requests a fresh code for the same new address and clears the
// held input. The dialog state does not reset.
func (w *Workflow) Resend(ctx context.Context) error {
	const op = "profile.Resend"

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateAwaitingOTP {
		return fmt.Errorf("%s in %s: %w", op, w.state, ErrInvalidTransition)
	}
	w.otp = ""
	if err := w.updater.RequestOTP(ctx, w.form.Email, api.OTPTypeEmail); err != nil {
		w.fail(err)
		return fmt.Errorf("%s: %w", op, err)
	}
	w.lastErr = ""
	return nil
}

// Cancel abandons the email change: the field reverts to the original
// address, the dialog closes, nothing was persisted.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateAwaitingOTP {
		return fmt.Errorf("profile.Cancel in %s: %w", w.state, ErrInvalidTransition)
	}
	w.form.Email = w.originalEmail
	w.otp = ""
	w.lastErr = ""
	w.state = StateEditing
	return nil
}

// Acknowledge returns a finished workflow to editing with the new
// baseline, ready for further changes.
func (w *Workflow) Acknowledge() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateDone {
		return fmt.Errorf("profile.Acknowledge in %s: %w", w.state, ErrInvalidTransition)
	}
	w.state = StateEditing
	return nil
}

func (w *Workflow) updateRequest(otp *int) api.UpdateUserRequest {
	return api.UpdateUserRequest{
		Name:    w.form.Name,
		Email:   w.form.Email,
		Github:  w.form.Github,
		Website: w.form.Website,
		OTP:     otp,
	}
}

// finish records a landed update: the new email becomes the baseline.
func (w *Workflow) finish() {
	w.originalEmail = w.form.Email
	w.otp = ""
	w.lastErr = ""
	w.state = StateDone
}

func (w *Workflow) fail(err error) {
	w.lastErr = api.Message(err)
	if errors.Is(err, api.ErrUnauthorized) {
		w.needsLogin = true
	}
	w.log.Error("profile update failed", sl.Err(err))
}

// validOTP accepts exactly six ASCII digits.
func validOTP(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
