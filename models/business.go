package models

import "time"

// Business is the persisted business record a completed wizard produces.
type Business struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email,omitempty"`
	Website        string    `json:"website,omitempty"`
	OpensAt        string    `json:"opens_at"`
	ClosesAt       string    `json:"closes_at"`
	Days           []string  `json:"days"`
	EmployeeBucket string    `json:"employee_bucket"`
	SalesBucket    string    `json:"sales_bucket"`
	DailyCustomers int       `json:"daily_customers"`
	Instagram      string    `json:"instagram,omitempty"`
	Facebook       string    `json:"facebook,omitempty"`
	WhatsApp       string    `json:"whatsapp,omitempty"`
	Objective      string    `json:"objective"`
	BudgetBucket   string    `json:"budget_bucket"`
	Plan           string    `json:"plan"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BusinessAnalytics is one day of metrics for a business, read through from
// the store for the dashboard.
type BusinessAnalytics struct {
	ID           string    `json:"id"`
	BusinessID   string    `json:"business_id"`
	Date         time.Time `json:"date"`
	WebVisits    int       `json:"web_visits"`
	Conversions  int       `json:"conversions"`
	DaySales     float64   `json:"day_sales"`
	NewCustomers int       `json:"new_customers"`
	Engagement   float64   `json:"engagement"`
	AdCTR        float64   `json:"ad_ctr"`
}
