package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// EnsureSchema creates required tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, log *zap.Logger) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
            id UUID PRIMARY KEY,
            email TEXT NOT NULL UNIQUE,
            full_name TEXT NOT NULL DEFAULT '',
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS businesses (
            id UUID PRIMARY KEY,
            user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
            name TEXT NOT NULL,
            category TEXT NOT NULL,
            address TEXT NOT NULL,
            phone TEXT NOT NULL,
            email TEXT NOT NULL DEFAULT '',
            website TEXT NOT NULL DEFAULT '',
            opens_at TEXT NOT NULL DEFAULT '',
            closes_at TEXT NOT NULL DEFAULT '',
            days TEXT[] NOT NULL DEFAULT '{}',
            employee_bucket TEXT NOT NULL DEFAULT '',
            sales_bucket TEXT NOT NULL DEFAULT '',
            daily_customers INT NOT NULL DEFAULT 0,
            instagram TEXT NOT NULL DEFAULT '',
            facebook TEXT NOT NULL DEFAULT '',
            whatsapp TEXT NOT NULL DEFAULT '',
            objective TEXT NOT NULL DEFAULT '',
            budget_bucket TEXT NOT NULL DEFAULT '',
            plan TEXT NOT NULL DEFAULT 'starter',
            active BOOLEAN NOT NULL DEFAULT TRUE,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
            UNIQUE(user_id)
        )`,
		`CREATE TABLE IF NOT EXISTS business_analytics (
            id UUID PRIMARY KEY,
            business_id UUID NOT NULL REFERENCES businesses(id) ON DELETE CASCADE,
            date DATE NOT NULL,
            web_visits INT NOT NULL DEFAULT 0,
            conversions INT NOT NULL DEFAULT 0,
            day_sales NUMERIC NOT NULL DEFAULT 0,
            new_customers INT NOT NULL DEFAULT 0,
            engagement NUMERIC NOT NULL DEFAULT 0,
            ad_ctr NUMERIC NOT NULL DEFAULT 0,
            UNIQUE(business_id, date)
        )`,
		`CREATE TABLE IF NOT EXISTS chat_conversations (
            id UUID PRIMARY KEY,
            business_id UUID NULL REFERENCES businesses(id) ON DELETE SET NULL,
            user_message TEXT NOT NULL,
            bot_reply TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS cookie_consents (
            visitor_id UUID PRIMARY KEY,
            necessary BOOLEAN NOT NULL DEFAULT TRUE,
            functional BOOLEAN NOT NULL DEFAULT FALSE,
            analytics BOOLEAN NOT NULL DEFAULT FALSE,
            marketing BOOLEAN NOT NULL DEFAULT FALSE,
            decided_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS contact_messages (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL,
            subject TEXT NOT NULL DEFAULT '',
            message TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE TABLE IF NOT EXISTS newsletter_subscribers (
            email TEXT PRIMARY KEY,
            subscribed_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
	}

	for _, s := range stmts {
		if _, err := pool.Exec(ctx, s); err != nil {
			log.Warn("schema ensure", zap.Error(err), zap.String("stmt", s))
		}
	}
}
