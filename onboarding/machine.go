package onboarding

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Backend is the external identity/data collaborator. Implementations own
// credentials, session persistence and business rows; the machine only
// reacts to call outcomes.
type Backend interface {
	Authenticate(ctx context.Context, email, secret string) (Identity, error)
	RegisterIdentity(ctx context.Context, email, secret, displayName string) (Identity, error)
	// SaveBusiness creates the owner's business record, or updates it if one
	// already exists. A single call settles the wizard.
	SaveBusiness(ctx context.Context, ownerID string, d Draft) (OwnedBusiness, error)
	OwnedBusinesses(ctx context.Context, ownerID string) ([]OwnedBusiness, error)
}

var (
	ErrBusy             = errors.New("operación en curso")
	ErrPasswordMismatch = errors.New("las contraseñas no coinciden")
	ErrWrongStep        = errors.New("paso inválido para esta acción")
	ErrNotSignedIn      = errors.New("sesión no iniciada")
)

// genericSaveError is what the user sees when the final create call fails,
// whatever the underlying cause.
const genericSaveError = "No pudimos guardar tu negocio. Intentá nuevamente."

const (
	firstStep = 1
	lastStep  = 4
)

// Machine drives one onboarding attempt: authentication, the four-step
// business form and the dashboard. All methods are safe for concurrent use;
// the loading flag rejects a second external call while one is in flight.
type Machine struct {
	backend Backend
	timeout time.Duration

	mu         sync.Mutex
	view       View
	step       int
	draft      Draft
	identity   *Identity
	businesses []OwnedBusiness
	loading    bool
	errMsg     string
}

// Option configures a Machine.
type Option func(*Machine)

// WithCallTimeout bounds every backend call. Zero disables the bound.
func WithCallTimeout(d time.Duration) Option {
	return func(m *Machine) { m.timeout = d }
}

// NewMachine returns a machine on the login view with an empty draft.
func NewMachine(b Backend, opts ...Option) *Machine {
	m := &Machine{
		backend: b,
		timeout: 10 * time.Second,
		view:    ViewLogin,
		step:    firstStep,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Snapshot is a copy of the machine's observable state.
type Snapshot struct {
	View       View            `json:"view"`
	Step       int             `json:"step"`
	Draft      Draft           `json:"draft"`
	Loading    bool            `json:"loading"`
	Error      string          `json:"error,omitempty"`
	SignedIn   bool            `json:"signed_in"`
	Businesses []OwnedBusiness `json:"businesses"`
}

func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		View:     m.view,
		Step:     m.step,
		Draft:    m.draft,
		Loading:  m.loading,
		Error:    m.errMsg,
		SignedIn: m.identity != nil,
	}
	s.Draft.Operations.Days = append([]string(nil), m.draft.Operations.Days...)
	s.Businesses = append([]OwnedBusiness(nil), m.businesses...)
	return s
}

// Open mounts the machine with the session state observed at mount time.
func (m *Machine) Open(s SessionState) {
	if s.Identity != nil {
		m.Observe(s)
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.view = ViewLogin
	m.step = firstStep
	m.errMsg = ""
}

// Close unmounts the machine. State survives reopening; only the transient
// error is dropped.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errMsg = ""
}

// Observe applies one emission of the external session observer, forcing the
// view from any state: identity with no business goes to the form at step 1,
// identity with a business to the dashboard. A vanished identity only pulls
// the user back to login from a session-gated view, so someone typing on the
// register screen is left alone.
func (m *Machine) Observe(s SessionState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.Identity == nil {
		if m.view == ViewBusinessForm || m.view == ViewDashboard {
			m.resetLocked()
		}
		return
	}
	m.identity = s.Identity
	m.businesses = append([]OwnedBusiness(nil), s.Businesses...)
	forced := ViewFor(s)
	if forced == ViewBusinessForm && m.view != ViewBusinessForm {
		m.step = firstStep
	}
	m.view = forced
}

// ShowRegister switches from login to the account form.
func (m *Machine) ShowRegister() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.view == ViewLogin {
		m.view = ViewRegister
		m.errMsg = ""
	}
}

// ShowLogin switches from the account form back to login.
func (m *Machine) ShowLogin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.view == ViewRegister {
		m.view = ViewLogin
		m.errMsg = ""
	}
}

// SubmitLogin exchanges credentials. On success the machine auto-routes from
// the refreshed session state; on failure it stays on login with the
// failure's message.
func (m *Machine) SubmitLogin(ctx context.Context, email, secret string) error {
	if err := m.begin(ViewLogin); err != nil {
		return err
	}
	var (
		id    Identity
		owned []OwnedBusiness
	)
	err := m.call(ctx, func(ctx context.Context) error {
		var err error
		if id, err = m.backend.Authenticate(ctx, email, secret); err != nil {
			return err
		}
		owned, err = m.backend.OwnedBusinesses(ctx, id.ID)
		return err
	})
	m.settle(err)
	if err != nil {
		return err
	}
	m.Observe(SessionState{Identity: &id, Businesses: owned})
	return nil
}

// SubmitRegister creates an account. A password mismatch is caught locally
// and never reaches the backend; on success the wizard opens at step 1.
func (m *Machine) SubmitRegister(ctx context.Context, name, email, secret, confirm string) error {
	m.mu.Lock()
	if m.view != ViewRegister {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrWrongStep, m.view)
	}
	if secret == "" || secret != confirm {
		m.errMsg = ErrPasswordMismatch.Error()
		m.mu.Unlock()
		return ErrPasswordMismatch
	}
	m.mu.Unlock()

	if err := m.begin(ViewRegister); err != nil {
		return err
	}
	var id Identity
	err := m.call(ctx, func(ctx context.Context) error {
		var err error
		id, err = m.backend.RegisterIdentity(ctx, email, secret, name)
		return err
	})
	m.settle(err)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.identity = &id
	m.view = ViewBusinessForm
	m.step = firstStep
	m.mu.Unlock()
	return nil
}

// SubmitBasics records step 1 and advances when its required fields hold.
func (m *Machine) SubmitBasics(b Basics) error {
	return m.submitStep(1, func(d *Draft) error {
		d.Basics = b
		return d.ValidateBasics()
	})
}

// SubmitOperations records step 2. A nil day set preserves days toggled so
// far; a non-nil one replaces them.
func (m *Machine) SubmitOperations(o Operations) error {
	return m.submitStep(2, func(d *Draft) error {
		if o.Days == nil {
			o.Days = d.Operations.Days
		}
		d.Operations = o
		return d.ValidateOperations()
	})
}

// SubmitDigital records step 3 and moves to the summary.
func (m *Machine) SubmitDigital(dg Digital) error {
	return m.submitStep(3, func(d *Draft) error {
		d.Digital = dg
		return d.ValidateDigital()
	})
}

func (m *Machine) submitStep(step int, apply func(*Draft) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loading {
		return ErrBusy
	}
	if m.view != ViewBusinessForm || m.step != step {
		return fmt.Errorf("%w: se esperaba el paso %d", ErrWrongStep, step)
	}
	if err := apply(&m.draft); err != nil {
		m.errMsg = err.Error()
		return err
	}
	m.errMsg = ""
	m.step = step + 1
	return nil
}

// Confirm submits step 4: the whole draft is re-validated and sent as one
// create-or-update call. Failure keeps the user on the summary with a
// generic message; success lands on the dashboard.
func (m *Machine) Confirm(ctx context.Context) error {
	m.mu.Lock()
	if m.loading {
		m.mu.Unlock()
		return ErrBusy
	}
	if m.view != ViewBusinessForm || m.step != lastStep {
		m.mu.Unlock()
		return fmt.Errorf("%w: se esperaba el paso %d", ErrWrongStep, lastStep)
	}
	if m.identity == nil {
		m.mu.Unlock()
		return ErrNotSignedIn
	}
	if err := m.draft.Validate(); err != nil {
		m.errMsg = err.Error()
		m.mu.Unlock()
		return err
	}
	owner := m.identity.ID
	draft := m.draft
	m.loading = true
	m.errMsg = ""
	m.mu.Unlock()

	var created OwnedBusiness
	err := m.call(ctx, func(ctx context.Context) error {
		var err error
		created, err = m.backend.SaveBusiness(ctx, owner, draft)
		return err
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.errMsg = genericSaveError
		return err
	}
	m.businesses = append([]OwnedBusiness{created}, m.businesses...)
	m.view = ViewDashboard
	return nil
}

// Back returns to the previous step without losing entered data.
func (m *Machine) Back() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loading {
		return ErrBusy
	}
	if m.view != ViewBusinessForm || m.step <= firstStep {
		return ErrWrongStep
	}
	m.step--
	return nil
}

// ToggleDay flips one weekday in the draft's active set.
func (m *Machine) ToggleDay(day string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.view != ViewBusinessForm {
		return ErrWrongStep
	}
	m.draft.ToggleDay(day)
	return nil
}

// Logout discards the draft and every session-derived field and returns to
// login. Ignored while a call is in flight.
func (m *Machine) Logout() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loading {
		return ErrBusy
	}
	m.resetLocked()
	return nil
}

func (m *Machine) resetLocked() {
	m.view = ViewLogin
	m.step = firstStep
	m.draft = Draft{}
	m.identity = nil
	m.businesses = nil
	m.errMsg = ""
}

// begin flips the loading gate on, rejecting a duplicate in-flight call, and
// clears the previously shown error. view guards which screen may issue the
// call.
func (m *Machine) begin(view View) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loading {
		return ErrBusy
	}
	if m.view != view {
		return fmt.Errorf("%w: %s", ErrWrongStep, m.view)
	}
	m.loading = true
	m.errMsg = ""
	return nil
}

// settle drops the loading gate and records the failure message, if any.
func (m *Machine) settle(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if err != nil {
		m.errMsg = err.Error()
	}
}

// call runs one backend operation under the configured timeout. A panic in
// the call path settles as a generic error instead of escaping.
func (m *Machine) call(ctx context.Context, f func(context.Context) error) (err error) {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("error inesperado: %v", r)
		}
	}()
	return f(ctx)
}
