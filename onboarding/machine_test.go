package onboarding

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu sync.Mutex

	authErr     error
	registerErr error
	saveErr     error
	owned       []OwnedBusiness

	authCalls     int
	registerCalls int
	saveCalls     int

	// When set, every call blocks until the channel closes.
	block   chan struct{}
	started chan struct{}
}

func (f *fakeBackend) wait(ctx context.Context) {
	f.mu.Lock()
	block, started := f.block, f.started
	f.mu.Unlock()
	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
		}
	}
}

func (f *fakeBackend) Authenticate(ctx context.Context, email, secret string) (Identity, error) {
	f.mu.Lock()
	f.authCalls++
	f.mu.Unlock()
	f.wait(ctx)
	if f.authErr != nil {
		return Identity{}, f.authErr
	}
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	return Identity{ID: "user-1", Email: email}, nil
}

func (f *fakeBackend) RegisterIdentity(ctx context.Context, email, secret, name string) (Identity, error) {
	f.mu.Lock()
	f.registerCalls++
	f.mu.Unlock()
	f.wait(ctx)
	if f.registerErr != nil {
		return Identity{}, f.registerErr
	}
	return Identity{ID: "user-1", Email: email, Name: name}, nil
}

func (f *fakeBackend) SaveBusiness(ctx context.Context, ownerID string, d Draft) (OwnedBusiness, error) {
	f.mu.Lock()
	f.saveCalls++
	f.mu.Unlock()
	f.wait(ctx)
	if f.saveErr != nil {
		return OwnedBusiness{}, f.saveErr
	}
	return OwnedBusiness{ID: "biz-1", Name: d.Basics.Name, Category: d.Basics.Category, Plan: "starter"}, nil
}

func (f *fakeBackend) OwnedBusinesses(ctx context.Context, ownerID string) ([]OwnedBusiness, error) {
	return f.owned, nil
}

func validBasics() Basics {
	return Basics{
		Name:     "Panadería Sur",
		Category: "Restaurante/Gastronomía",
		Address:  "Calle 1",
		Phone:    "1111",
	}
}

func validOperations() Operations {
	return Operations{
		OpensAt:        "08:00",
		ClosesAt:       "20:00",
		Days:           []string{"Lunes", "Martes"},
		EmployeeBucket: "2-5",
		SalesBucket:    "100k-500k",
		DailyCustomers: 50,
	}
}

func validDigital() Digital {
	return Digital{
		Instagram:    "@panaderiasur",
		Objective:    "Aumentar ventas online",
		BudgetBucket: "10k-25k",
	}
}

// registered drives a fresh machine through registration onto step 1.
func registered(t *testing.T, b *fakeBackend) *Machine {
	t.Helper()
	m := NewMachine(b)
	m.ShowRegister()
	require.NoError(t, m.SubmitRegister(context.Background(), "Ana", "ana@test.com", "secret1", "secret1"))
	require.Equal(t, ViewBusinessForm, m.Snapshot().View)
	require.Equal(t, 1, m.Snapshot().Step)
	return m
}

func TestInitialState(t *testing.T) {
	m := NewMachine(&fakeBackend{})
	s := m.Snapshot()
	assert.Equal(t, ViewLogin, s.View)
	assert.Equal(t, 1, s.Step)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
}

func TestOpenWithActiveSessionRoutes(t *testing.T) {
	m := NewMachine(&fakeBackend{})
	m.Open(SessionState{Identity: &Identity{ID: "u1"}})
	assert.Equal(t, ViewBusinessForm, m.Snapshot().View)

	m2 := NewMachine(&fakeBackend{})
	m2.Open(SessionState{
		Identity:   &Identity{ID: "u1"},
		Businesses: []OwnedBusiness{{ID: "b1"}},
	})
	assert.Equal(t, ViewDashboard, m2.Snapshot().View)
}

func TestLoginFailureStaysWithMessage(t *testing.T) {
	b := &fakeBackend{authErr: errors.New("credenciales inválidas")}
	m := NewMachine(b)
	err := m.SubmitLogin(context.Background(), "ana@test.com", "bad")
	require.Error(t, err)
	s := m.Snapshot()
	assert.Equal(t, ViewLogin, s.View)
	assert.Equal(t, "credenciales inválidas", s.Error)
	assert.False(t, s.Loading)
}

func TestLoginSuccessAutoRoutes(t *testing.T) {
	b := &fakeBackend{}
	m := NewMachine(b)
	require.NoError(t, m.SubmitLogin(context.Background(), "ana@test.com", "secret1"))
	assert.Equal(t, ViewBusinessForm, m.Snapshot().View)

	b2 := &fakeBackend{owned: []OwnedBusiness{{ID: "b1", Name: "Kiosco"}}}
	m2 := NewMachine(b2)
	require.NoError(t, m2.SubmitLogin(context.Background(), "ana@test.com", "secret1"))
	assert.Equal(t, ViewDashboard, m2.Snapshot().View)
}

func TestPasswordMismatchNeverCallsBackend(t *testing.T) {
	b := &fakeBackend{}
	m := NewMachine(b)
	m.ShowRegister()
	err := m.SubmitRegister(context.Background(), "Ana", "ana@test.com", "secret1", "different")
	require.ErrorIs(t, err, ErrPasswordMismatch)
	s := m.Snapshot()
	assert.Equal(t, ViewRegister, s.View)
	assert.Equal(t, ErrPasswordMismatch.Error(), s.Error)
	assert.Zero(t, b.registerCalls)
}

func TestRegisterBackendFailureStays(t *testing.T) {
	b := &fakeBackend{registerErr: errors.New("ya existe una cuenta con ese email")}
	m := NewMachine(b)
	m.ShowRegister()
	err := m.SubmitRegister(context.Background(), "Ana", "ana@test.com", "secret1", "secret1")
	require.Error(t, err)
	s := m.Snapshot()
	assert.Equal(t, ViewRegister, s.View)
	assert.Equal(t, "ya existe una cuenta con ese email", s.Error)
	assert.Equal(t, 1, b.registerCalls)
}

func TestRegisterSuccessOpensWizard(t *testing.T) {
	registered(t, &fakeBackend{})
}

func TestStepOneRetainsValues(t *testing.T) {
	m := registered(t, &fakeBackend{})
	require.NoError(t, m.SubmitBasics(validBasics()))
	s := m.Snapshot()
	assert.Equal(t, 2, s.Step)
	assert.Equal(t, "Panadería Sur", s.Draft.Basics.Name)
	assert.Equal(t, "Restaurante/Gastronomía", s.Draft.Basics.Category)
	assert.Equal(t, "Calle 1", s.Draft.Basics.Address)
	assert.Equal(t, "1111", s.Draft.Basics.Phone)
}

func TestStepOneMissingFieldsBlocksAdvance(t *testing.T) {
	m := registered(t, &fakeBackend{})
	b := validBasics()
	b.Phone = "  "
	err := m.SubmitBasics(b)
	require.ErrorIs(t, err, ErrMissingFields)
	s := m.Snapshot()
	assert.Equal(t, 1, s.Step)
	assert.NotEmpty(t, s.Error)
}

func TestBackKeepsData(t *testing.T) {
	m := registered(t, &fakeBackend{})
	require.NoError(t, m.SubmitBasics(validBasics()))
	require.NoError(t, m.SubmitOperations(validOperations()))
	require.Equal(t, 3, m.Snapshot().Step)
	require.NoError(t, m.Back())
	s := m.Snapshot()
	assert.Equal(t, 2, s.Step)
	assert.Equal(t, "08:00", s.Draft.Operations.OpensAt)
	assert.Equal(t, "Panadería Sur", s.Draft.Basics.Name)
}

func TestBackFromFirstStepRejected(t *testing.T) {
	m := registered(t, &fakeBackend{})
	assert.ErrorIs(t, m.Back(), ErrWrongStep)
}

func TestWizardReachesDashboardIffSaveSucceeds(t *testing.T) {
	b := &fakeBackend{saveErr: errors.New("boom")}
	m := registered(t, b)
	require.NoError(t, m.SubmitBasics(validBasics()))
	require.NoError(t, m.SubmitOperations(validOperations()))
	require.NoError(t, m.SubmitDigital(validDigital()))
	require.Equal(t, 4, m.Snapshot().Step)

	require.Error(t, m.Confirm(context.Background()))
	s := m.Snapshot()
	assert.Equal(t, ViewBusinessForm, s.View)
	assert.Equal(t, 4, s.Step)
	assert.Equal(t, genericSaveError, s.Error)
	assert.False(t, s.Loading)

	b.saveErr = nil
	require.NoError(t, m.Confirm(context.Background()))
	s = m.Snapshot()
	assert.Equal(t, ViewDashboard, s.View)
	assert.Empty(t, s.Error)
	require.Len(t, s.Businesses, 1)
	assert.Equal(t, "Panadería Sur", s.Businesses[0].Name)
}

func TestGoBackAndBlankRequiredFieldCannotAdvance(t *testing.T) {
	b := &fakeBackend{}
	m := registered(t, b)
	require.NoError(t, m.SubmitBasics(validBasics()))
	require.NoError(t, m.SubmitOperations(validOperations()))
	require.NoError(t, m.SubmitDigital(validDigital()))
	require.Equal(t, 4, m.Snapshot().Step)

	// Go back to step 1, blank a required field and try to move forward.
	require.NoError(t, m.Back())
	require.NoError(t, m.Back())
	require.NoError(t, m.Back())
	blanked := validBasics()
	blanked.Name = ""
	require.ErrorIs(t, m.SubmitBasics(blanked), ErrMissingFields)
	assert.Equal(t, 1, m.Snapshot().Step)
	assert.Zero(t, b.saveCalls)
}

func TestDayToggleIdempotence(t *testing.T) {
	m := registered(t, &fakeBackend{})
	require.NoError(t, m.SubmitBasics(validBasics()))
	require.NoError(t, m.ToggleDay("Sábado"))
	assert.Contains(t, m.Snapshot().Draft.Operations.Days, "Sábado")
	require.NoError(t, m.ToggleDay("Sábado"))
	assert.NotContains(t, m.Snapshot().Draft.Operations.Days, "Sábado")
}

func TestLoadingGateBlocksDuplicateCalls(t *testing.T) {
	b := &fakeBackend{
		block:   make(chan struct{}),
		started: make(chan struct{}, 1),
	}
	m := NewMachine(b)

	assert.False(t, m.Snapshot().Loading)

	done := make(chan error, 1)
	go func() {
		done <- m.SubmitLogin(context.Background(), "ana@test.com", "secret1")
	}()

	select {
	case <-b.started:
	case <-time.After(time.Second):
		t.Fatal("backend call never started")
	}
	assert.True(t, m.Snapshot().Loading)

	// A second call while in flight is rejected without touching the backend.
	err := m.SubmitLogin(context.Background(), "ana@test.com", "secret1")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 1, b.authCalls)

	close(b.block)
	require.NoError(t, <-done)
	assert.False(t, m.Snapshot().Loading)
}

func TestCallTimeout(t *testing.T) {
	b := &fakeBackend{block: make(chan struct{})}
	m := NewMachine(b, WithCallTimeout(20*time.Millisecond))
	err := m.SubmitLogin(context.Background(), "ana@test.com", "secret1")
	require.Error(t, err)
	s := m.Snapshot()
	assert.Equal(t, ViewLogin, s.View)
	assert.False(t, s.Loading)
	assert.NotEmpty(t, s.Error)
}

type panicBackend struct{ fakeBackend }

func (p *panicBackend) Authenticate(ctx context.Context, email, secret string) (Identity, error) {
	panic("unexpected")
}

func TestPanicInCallPathSettlesAsError(t *testing.T) {
	m := NewMachine(&panicBackend{})
	err := m.SubmitLogin(context.Background(), "ana@test.com", "secret1")
	require.Error(t, err)
	s := m.Snapshot()
	assert.False(t, s.Loading)
	assert.NotEmpty(t, s.Error)
	assert.Equal(t, ViewLogin, s.View)
}

func TestLogoutResetsDraftAndView(t *testing.T) {
	m := registered(t, &fakeBackend{})
	require.NoError(t, m.SubmitBasics(validBasics()))
	require.NoError(t, m.SubmitOperations(validOperations()))
	require.NoError(t, m.SubmitDigital(validDigital()))
	require.NoError(t, m.Confirm(context.Background()))
	require.Equal(t, ViewDashboard, m.Snapshot().View)

	require.NoError(t, m.Logout())
	s := m.Snapshot()
	assert.Equal(t, ViewLogin, s.View)
	assert.Equal(t, 1, s.Step)
	assert.Equal(t, Draft{}, s.Draft)
	assert.False(t, s.SignedIn)
	assert.Empty(t, s.Businesses)
}

func TestObserveForcesViewFromAnyState(t *testing.T) {
	m := NewMachine(&fakeBackend{})
	m.ShowRegister()
	m.Observe(SessionState{Identity: &Identity{ID: "u1"}})
	s := m.Snapshot()
	assert.Equal(t, ViewBusinessForm, s.View)
	assert.Equal(t, 1, s.Step)

	m.Observe(SessionState{
		Identity:   &Identity{ID: "u1"},
		Businesses: []OwnedBusiness{{ID: "b1"}},
	})
	assert.Equal(t, ViewDashboard, m.Snapshot().View)
}

func TestObserveAbsentIdentityLeavesRegisterAlone(t *testing.T) {
	m := NewMachine(&fakeBackend{})
	m.ShowRegister()
	m.Observe(SessionState{})
	assert.Equal(t, ViewRegister, m.Snapshot().View)
}

func TestObserveAbsentIdentityResetsGatedViews(t *testing.T) {
	m := registered(t, &fakeBackend{})
	require.NoError(t, m.SubmitBasics(validBasics()))
	m.Observe(SessionState{})
	s := m.Snapshot()
	assert.Equal(t, ViewLogin, s.View)
	assert.Equal(t, Draft{}, s.Draft)
}

func TestStepSubmitOutOfOrderRejected(t *testing.T) {
	m := registered(t, &fakeBackend{})
	assert.ErrorIs(t, m.SubmitOperations(validOperations()), ErrWrongStep)
	assert.ErrorIs(t, m.SubmitDigital(validDigital()), ErrWrongStep)
	assert.ErrorIs(t, m.Confirm(context.Background()), ErrWrongStep)
}
