package database

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"mutanteweb/backend/models"
	"mutanteweb/backend/onboarding"
)

var (
	ErrInvalidCredentials = errors.New("credenciales inválidas")
	ErrEmailTaken         = errors.New("ya existe una cuenta con ese email")
	ErrNotFound           = errors.New("no encontrado")
)

// Store is the SQL access layer. It implements onboarding.Backend so the
// state machine can be wired to Postgres in production and to fakes in tests.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Authenticate exchanges email/password for the identity behind them.
func (s *Store) Authenticate(ctx context.Context, email, secret string) (onboarding.Identity, error) {
	var (
		id, name, hash string
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, full_name, password_hash FROM profiles WHERE email=$1`, email).
		Scan(&id, &name, &hash)
	if err != nil {
		return onboarding.Identity{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) != nil {
		return onboarding.Identity{}, ErrInvalidCredentials
	}
	return onboarding.Identity{ID: id, Email: email, Name: name}, nil
}

// RegisterIdentity creates a profile. A duplicate email fails with
// ErrEmailTaken.
func (s *Store) RegisterIdentity(ctx context.Context, email, secret, displayName string) (onboarding.Identity, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return onboarding.Identity{}, err
	}
	id := uuid.NewString()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO profiles(id, email, full_name, password_hash) VALUES($1,$2,$3,$4)`,
		id, email, displayName, string(hash))
	if err != nil {
		if isUniqueViolation(err) {
			return onboarding.Identity{}, ErrEmailTaken
		}
		return onboarding.Identity{}, err
	}
	return onboarding.Identity{ID: id, Email: email, Name: displayName}, nil
}

// SaveBusiness upserts the owner's business record: one row per owner, so a
// re-run of the wizard updates in place.
func (s *Store) SaveBusiness(ctx context.Context, ownerID string, d onboarding.Draft) (onboarding.OwnedBusiness, error) {
	id := uuid.NewString()
	row := s.pool.QueryRow(ctx, `INSERT INTO businesses(
            id, user_id, name, category, address, phone, email, website,
            opens_at, closes_at, days, employee_bucket, sales_bucket, daily_customers,
            instagram, facebook, whatsapp, objective, budget_bucket)
        VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
        ON CONFLICT (user_id) DO UPDATE SET
            name=EXCLUDED.name, category=EXCLUDED.category, address=EXCLUDED.address,
            phone=EXCLUDED.phone, email=EXCLUDED.email, website=EXCLUDED.website,
            opens_at=EXCLUDED.opens_at, closes_at=EXCLUDED.closes_at, days=EXCLUDED.days,
            employee_bucket=EXCLUDED.employee_bucket, sales_bucket=EXCLUDED.sales_bucket,
            daily_customers=EXCLUDED.daily_customers, instagram=EXCLUDED.instagram,
            facebook=EXCLUDED.facebook, whatsapp=EXCLUDED.whatsapp,
            objective=EXCLUDED.objective, budget_bucket=EXCLUDED.budget_bucket,
            updated_at=now()
        RETURNING id, name, category, plan`,
		id, ownerID, d.Basics.Name, d.Basics.Category, d.Basics.Address, d.Basics.Phone,
		d.Basics.Email, d.Basics.Website, d.Operations.OpensAt, d.Operations.ClosesAt,
		d.DisplayDays(), d.Operations.EmployeeBucket, d.Operations.SalesBucket,
		d.Operations.DailyCustomers, d.Digital.Instagram, d.Digital.Facebook,
		d.Digital.WhatsApp, d.Digital.Objective, d.Digital.BudgetBucket)

	var b onboarding.OwnedBusiness
	if err := row.Scan(&b.ID, &b.Name, &b.Category, &b.Plan); err != nil {
		return onboarding.OwnedBusiness{}, err
	}
	return b, nil
}

// OwnedBusinesses lists the owner's active businesses, newest first.
func (s *Store) OwnedBusinesses(ctx context.Context, ownerID string) ([]onboarding.OwnedBusiness, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, category, plan FROM businesses
         WHERE user_id=$1 AND active ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []onboarding.OwnedBusiness
	for rows.Next() {
		var b onboarding.OwnedBusiness
		if err := rows.Scan(&b.ID, &b.Name, &b.Category, &b.Plan); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ProfileByID loads one profile row.
func (s *Store) ProfileByID(ctx context.Context, id string) (models.Profile, error) {
	var p models.Profile
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, full_name, created_at, updated_at FROM profiles WHERE id=$1`, id).
		Scan(&p.ID, &p.Email, &p.FullName, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Profile{}, ErrNotFound
	}
	return p, err
}

// BusinessesOf returns the full business rows owned by a user.
func (s *Store) BusinessesOf(ctx context.Context, ownerID string) ([]models.Business, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, name, category, address, phone, email, website,
                opens_at, closes_at, days, employee_bucket, sales_bucket, daily_customers,
                instagram, facebook, whatsapp, objective, budget_bucket, plan, active,
                created_at, updated_at
         FROM businesses WHERE user_id=$1 AND active ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Business
	for rows.Next() {
		var b models.Business
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Category, &b.Address, &b.Phone,
			&b.Email, &b.Website, &b.OpensAt, &b.ClosesAt, &b.Days, &b.EmployeeBucket,
			&b.SalesBucket, &b.DailyCustomers, &b.Instagram, &b.Facebook, &b.WhatsApp,
			&b.Objective, &b.BudgetBucket, &b.Plan, &b.Active, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// BusinessOwnedBy reports whether businessID belongs to ownerID.
func (s *Store) BusinessOwnedBy(ctx context.Context, businessID, ownerID string) (bool, error) {
	var ok bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM businesses WHERE id=$1 AND user_id=$2)`,
		businessID, ownerID).Scan(&ok)
	return ok, err
}

// AnalyticsFor returns up to limit days of metrics for a business, newest
// first.
func (s *Store) AnalyticsFor(ctx context.Context, businessID string, limit int) ([]models.BusinessAnalytics, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, business_id, date, web_visits, conversions, day_sales,
                new_customers, engagement, ad_ctr
         FROM business_analytics WHERE business_id=$1 ORDER BY date DESC LIMIT $2`,
		businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.BusinessAnalytics
	for rows.Next() {
		var a models.BusinessAnalytics
		if err := rows.Scan(&a.ID, &a.BusinessID, &a.Date, &a.WebVisits, &a.Conversions,
			&a.DaySales, &a.NewCustomers, &a.Engagement, &a.AdCTR); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// LogChat records one user/bot exchange. businessID may be empty for
// anonymous visitors.
func (s *Store) LogChat(ctx context.Context, businessID, userMessage, botReply string) error {
	var bid any
	if businessID != "" {
		bid = businessID
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO chat_conversations(id, business_id, user_message, bot_reply)
         VALUES($1,$2,$3,$4)`, uuid.NewString(), bid, userMessage, botReply)
	return err
}

// ChatHistory lists a business's exchanges, oldest first.
func (s *Store) ChatHistory(ctx context.Context, businessID string, limit int) ([]models.ChatEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_message, bot_reply, created_at FROM chat_conversations
         WHERE business_id=$1 ORDER BY created_at ASC LIMIT $2`, businessID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.ChatEntry
	for rows.Next() {
		var e models.ChatEntry
		if err := rows.Scan(&e.ID, &e.UserMessage, &e.BotReply, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LoadConsent returns the visitor's stored preferences, reporting whether a
// record exists.
func (s *Store) LoadConsent(ctx context.Context, visitorID string) (models.CookiePreferences, bool, error) {
	var p models.CookiePreferences
	err := s.pool.QueryRow(ctx,
		`SELECT necessary, functional, analytics, marketing, decided_at
         FROM cookie_consents WHERE visitor_id=$1`, visitorID).
		Scan(&p.Necessary, &p.Functional, &p.Analytics, &p.Marketing, &p.DecidedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.CookiePreferences{}, false, nil
	}
	if err != nil {
		return models.CookiePreferences{}, false, err
	}
	return p, true, nil
}

// SaveConsent upserts the visitor's preferences.
func (s *Store) SaveConsent(ctx context.Context, visitorID string, p models.CookiePreferences) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO cookie_consents(visitor_id, necessary, functional, analytics, marketing, decided_at)
         VALUES($1,$2,$3,$4,$5,$6)
         ON CONFLICT (visitor_id) DO UPDATE SET
            necessary=EXCLUDED.necessary, functional=EXCLUDED.functional,
            analytics=EXCLUDED.analytics, marketing=EXCLUDED.marketing,
            decided_at=EXCLUDED.decided_at`,
		visitorID, p.Necessary, p.Functional, p.Analytics, p.Marketing, p.DecidedAt)
	return err
}

// SaveContactMessage stores a contact-form submission.
func (s *Store) SaveContactMessage(ctx context.Context, m models.ContactRequest) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO contact_messages(id, name, email, subject, message) VALUES($1,$2,$3,$4,$5)`,
		uuid.NewString(), m.Name, m.Email, m.Subject, m.Message)
	return err
}

// SubscribeNewsletter records an email; re-subscribing refreshes the
// timestamp.
func (s *Store) SubscribeNewsletter(ctx context.Context, email string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO newsletter_subscribers(email, subscribed_at) VALUES($1,$2)
         ON CONFLICT (email) DO UPDATE SET subscribed_at=EXCLUDED.subscribed_at`,
		email, time.Now())
	return err
}
