package onboarding

// View is the screen the business-access modal is showing. Exactly one is
// active at a time.
type View string

const (
	ViewLogin        View = "login"
	ViewRegister     View = "register"
	ViewBusinessForm View = "business-form"
	ViewDashboard    View = "dashboard"
)

// Identity is the machine's projection of the external auth session: an
// opaque id plus display data. The machine only cares about presence.
type Identity struct {
	ID    string
	Email string
	Name  string
}

// SessionState is one emission of the external session observer: who is
// signed in (nil when nobody) and which businesses that identity owns.
type SessionState struct {
	Identity   *Identity
	Businesses []OwnedBusiness
}

// OwnedBusiness is the read-through mirror of a persisted business record.
// The store is the source of truth; this is display data.
type OwnedBusiness struct {
	ID       string
	Name     string
	Category string
	Plan     string
}

// ViewFor maps observed session state to the view it forces: a signed-in
// identity with no business is sent to the form, one with a business to the
// dashboard, and an absent identity belongs on the login screen.
func ViewFor(s SessionState) View {
	if s.Identity == nil {
		return ViewLogin
	}
	if len(s.Businesses) == 0 {
		return ViewBusinessForm
	}
	return ViewDashboard
}
