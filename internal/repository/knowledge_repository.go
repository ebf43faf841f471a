package repository

import (
	"context"
	"fmt"

	"namaz-assistant/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

const faqTable = "faq_entries"

const createFaqTable = `CREATE TABLE IF NOT EXISTS faq_entries (
	position          INT PRIMARY KEY,
	query             TEXT NOT NULL,
	tokens            TEXT[] NOT NULL,
	response          TEXT NULL,
	recommended_items JSONB NULL
)`

// DB is the subset of pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// KnowledgeRepository keeps the knowledge base in Postgres, ordered by position.
type KnowledgeRepository struct {
	db     DB
	logger *zap.Logger
}

func NewKnowledgeRepository(db DB, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

func (r *KnowledgeRepository) Describe() string {
	return "postgres:" + faqTable
}

func (r *KnowledgeRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createFaqTable); err != nil {
		return fmt.Errorf("failed to create %s: %w", faqTable, err)
	}
	return nil
}

// Load returns every entry in knowledge base order.
func (r *KnowledgeRepository) Load(ctx context.Context) (models.KnowledgeBase, error) {
	query := squirrel.Select("query", "tokens", "COALESCE(response, '') AS response", "recommended_items").
		From(faqTable).
		OrderBy("position ASC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", faqTable, err)
	}
	defer rows.Close()

	kb := models.KnowledgeBase{}
	for rows.Next() {
		var (
			entry models.FaqEntry
			items []byte
		)
		if err := rows.Scan(&entry.Query, &entry.Tokens, &entry.Response, &items); err != nil {
			return nil, fmt.Errorf("failed to scan faq entry: %w", err)
		}
		if len(items) > 0 {
			entry.RecommendedItems = items
		}
		if entry.Tokens == nil {
			entry.Tokens = []string{}
		}
		kb = append(kb, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", faqTable, err)
	}

	r.logger.Info("Knowledge base loaded",
		zap.String("table", faqTable),
		zap.Int("entries", len(kb)),
	)

	return kb, nil
}

// ReplaceAll swaps the table contents for kb inside a single transaction.
func (r *KnowledgeRepository) ReplaceAll(ctx context.Context, kb models.KnowledgeBase) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	sql, args, err := squirrel.Delete(faqTable).PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to clear %s: %w", faqTable, err)
	}

	if len(kb) > 0 {
		builder := squirrel.Insert(faqTable).
			Columns("position", "query", "tokens", "response", "recommended_items").
			PlaceholderFormat(squirrel.Dollar)

		for i, entry := range kb {
			builder = builder.Values(i, entry.Query, entry.Tokens, nullableText(entry.Response), nullableJSON(entry.RecommendedItems))
		}

		sql, args, err = builder.ToSql()
		if err != nil {
			return err
		}
		if _, err = tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("failed to insert faq entries: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("Knowledge base published",
		zap.String("table", faqTable),
		zap.Int("entries", len(kb)),
	)

	return nil
}

func nullableText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
