package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"ConversationViewer/internal/domain"
	"ConversationViewer/internal/ports"
)

const conversationsTable = "conversations"

const schema = `CREATE TABLE IF NOT EXISTS conversations (
    user_id  TEXT        NOT NULL,
    id       TEXT        NOT NULL,
    title    TEXT        NOT NULL DEFAULT '',
    date     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    content  TEXT        NOT NULL DEFAULT '',
    summary  TEXT        NOT NULL DEFAULT '',
    feedback TEXT        NOT NULL DEFAULT '',
    PRIMARY KEY (user_id, id)
)`

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore persists conversations into Postgres.
type PostgresStore struct {
	db *sql.DB
}

var _ ports.ConversationStore = (*PostgresStore)(nil)

// OpenPostgres connects through lib/pq and verifies the connection.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresStore wires a sql.DB implementation.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the conversations table when missing.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// List returns the user's conversations newest first.
func (s *PostgresStore) List(ctx context.Context, userID string) ([]domain.ConversationMeta, error) {
	query, args, err := listQuery(userID).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}

	result := make([]domain.ConversationMeta, 0)
	for rows.Next() {
		meta := domain.ConversationMeta{UserID: userID}
		if err := rows.Scan(&meta.ID, &meta.Title, &meta.Date); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		result = append(result, meta)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return result, nil
}

// Get loads one conversation; absent rows are ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, userID, id string) (domain.Conversation, error) {
	query, args, err := getQuery(userID, id).ToSql()
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("build get query: %w", err)
	}

	conversation := domain.Conversation{ID: id, UserID: userID}
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&conversation.Title,
		&conversation.Date,
		&conversation.Content,
		&conversation.Summary,
		&conversation.Feedback,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Conversation{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Conversation{}, fmt.Errorf("query conversation: %w", err)
	}
	return conversation, nil
}

// UpdateNotes sets the provided note columns; a missing row is ErrNotFound.
func (s *PostgresStore) UpdateNotes(ctx context.Context, userID, id string, update domain.NotesUpdate) error {
	builder, ok := notesUpdate(userID, id, update)
	if !ok {
		return nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build notes update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update notes: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Seed inserts conversations, leaving existing rows untouched.
func (s *PostgresStore) Seed(ctx context.Context, userID string, conversations []domain.Conversation) (int, error) {
	if len(conversations) == 0 {
		return 0, nil
	}

	query, args, err := seedInsert(userID, conversations).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build seed insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("seed conversations: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

func listQuery(userID string) sq.SelectBuilder {
	return psql.Select("id", "title", "date").
		From(conversationsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("date DESC", "id")
}

func getQuery(userID, id string) sq.SelectBuilder {
	return psql.Select("title", "date", "content", "summary", "feedback").
		From(conversationsTable).
		Where(sq.Eq{"user_id": userID}).
		Where(sq.Eq{"id": id})
}

func notesUpdate(userID, id string, update domain.NotesUpdate) (sq.UpdateBuilder, bool) {
	builder := psql.Update(conversationsTable)
	changed := false
	if update.Summary != nil {
		builder = builder.Set("summary", *update.Summary)
		changed = true
	}
	if update.Feedback != nil {
		builder = builder.Set("feedback", *update.Feedback)
		changed = true
	}
	return builder.Where(sq.Eq{"user_id": userID}).Where(sq.Eq{"id": id}), changed
}

func seedInsert(userID string, conversations []domain.Conversation) sq.InsertBuilder {
	builder := psql.Insert(conversationsTable).
		Columns("user_id", "id", "title", "date", "content", "summary", "feedback")
	for _, c := range conversations {
		builder = builder.Values(userID, c.ID, c.Title, c.Date, c.Content, c.Summary, c.Feedback)
	}
	return builder.Suffix("ON CONFLICT (user_id, id) DO NOTHING")
}
