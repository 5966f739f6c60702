package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-kenyajobs/internal/source"
)

// PgStore persists the day's postings to Postgres instead of flat files,
// for setups that feed the harvest into a shared database.
//
// Expected schema:
//
//	CREATE TABLE postings (
//	    id          BIGSERIAL PRIMARY KEY,
//	    day         DATE NOT NULL,
//	    job_title   TEXT NOT NULL,
//	    link        TEXT NOT NULL,
//	    date_posted TEXT,
//	    date_expires TEXT,
//	    qualification TEXT,
//	    years_of_experience TEXT,
//	    location    TEXT,
//	    source      TEXT,
//	    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
//	    UNIQUE (day, link)
//	);
type PgStore struct {
	db  *pgxpool.Pool
	day string
}

// NewPgStore connects to Postgres and pings it before returning.
func NewPgStore(ctx context.Context, connString string, today time.Time) (*PgStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("store: parse database url: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour

	// Pooled connections (PgBouncer in transaction mode) don't play well
	// with prepared statements, so skip the statement cache.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeExec

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("store: connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: database unreachable: %w", err)
	}

	return &PgStore{db: pool, day: today.Format("2006-01-02")}, nil
}

// Append inserts one accepted posting; a link already stored for the day is
// skipped by the conflict target, keeping the operation idempotent.
func (ps *PgStore) Append(posting source.Posting) error {
	query := `
		INSERT INTO postings (day, job_title, link, date_posted, date_expires, qualification, years_of_experience, location, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (day, link) DO NOTHING`

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := ps.db.Exec(ctx, query,
		ps.day, posting.Title, posting.Link, posting.DatePosted, posting.DateExpires,
		posting.Qualification, posting.Experience, posting.Location, posting.Source)
	if err != nil {
		return fmt.Errorf("store: insert posting: %w", err)
	}
	return nil
}

func (ps *PgStore) Links() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rows, err := ps.db.Query(ctx, "SELECT link FROM postings WHERE day = $1", ps.day)
	if err != nil {
		return nil, fmt.Errorf("store: query links: %w", err)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("store: scan link: %w", err)
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func (ps *PgStore) Count() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var count int
	err := ps.db.QueryRow(ctx, "SELECT count(*) FROM postings WHERE day = $1", ps.day).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("store: count postings: %w", err)
	}
	return count, nil
}

func (ps *PgStore) Close() error {
	ps.db.Close()
	return nil
}
