package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sevigo/apply-warden/internal/core"
)

type PostgresCredentialStore struct {
	db *sqlx.DB
}

func NewPostgresCredentialStore(db *sqlx.DB) *PostgresCredentialStore {
	return &PostgresCredentialStore{db: db}
}

func (s *PostgresCredentialStore) Load(ctx context.Context, accountID string) (core.Material, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw, `SELECT material FROM credentials WHERE account_id = $1`, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrCredentialNotFound, accountID)
		}
		return nil, fmt.Errorf("failed to load credential for %s: %w", accountID, err)
	}

	var m core.Material
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode credential for %s: %w", accountID, err)
	}
	if len(m) == 0 {
		return nil, fmt.Errorf("%w: %s has no cookies", ErrCredentialNotFound, accountID)
	}
	return m, nil
}

func (s *PostgresCredentialStore) Save(ctx context.Context, accountID string, material core.Material) error {
	raw, err := json.Marshal(material.Clone())
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	query := `
		INSERT INTO credentials (account_id, material, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (account_id) DO UPDATE
		SET material = EXCLUDED.material, updated_at = EXCLUDED.updated_at`
	if _, err := s.db.ExecContext(ctx, query, accountID, raw); err != nil {
		return fmt.Errorf("failed to save credential for %s: %w", accountID, err)
	}
	return nil
}

// ApplicationLog records apply attempts in the applications table.
type ApplicationLog struct {
	db *sqlx.DB
}

func NewApplicationLog(db *sqlx.DB) *ApplicationLog {
	return &ApplicationLog{db: db}
}

type applicationRow struct {
	RunID     string    `db:"run_id"`
	Query     string    `db:"query"`
	PairID    int       `db:"pair_id"`
	AccountID string    `db:"account_id"`
	PostingID string    `db:"posting_id"`
	Title     string    `db:"title"`
	Result    string    `db:"result"`
	Reason    string    `db:"reason"`
	CreatedAt time.Time `db:"created_at"`
}

func (l *ApplicationLog) Record(ctx context.Context, a core.Attempt) error {
	row := applicationRow{
		RunID:     a.RunID,
		Query:     a.Query,
		PairID:    a.PairID,
		AccountID: a.AccountID,
		PostingID: a.PostingID,
		Title:     a.Title,
		Result:    a.Result.Kind.String(),
		Reason:    a.Result.Reason,
		CreatedAt: a.At,
	}
	query := `
		INSERT INTO applications (run_id, query, pair_id, account_id, posting_id, title, result, reason, created_at)
		VALUES (:run_id, :query, :pair_id, :account_id, :posting_id, :title, :result, :reason, :created_at)`
	if _, err := l.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("failed to record application: %w", err)
	}
	return nil
}

// AppliedSince returns, per account, the number of successful applications
// recorded at or after since.
func (l *ApplicationLog) AppliedSince(ctx context.Context, since time.Time) (map[string]int, error) {
	var rows []struct {
		AccountID string `db:"account_id"`
		Count     int    `db:"count"`
	}
	query := `
		SELECT account_id, COUNT(*) AS count
		FROM applications
		WHERE result = $1 AND created_at >= $2
		GROUP BY account_id`
	if err := l.db.SelectContext(ctx, &rows, query, core.ResultSuccess.String(), since); err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.AccountID] = r.Count
	}
	return out, nil
}
