// Package corpus reads philosophy responses and Vedabase verses from the
// relational store.
package corpus

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"

	"github.com/kailas-cloud/vedarag/internal/domain"
	domcorpus "github.com/kailas-cloud/vedarag/internal/domain/corpus"
)

const (
	verseChunkQuery = `
SELECT c.content AS chunk_text, c.chunk_type, v.id AS verse_id,
       v.chapter, v.verse_number, v.sanskrit, v.synonyms, v.translation,
       b.code AS book_code, b.name AS book_name
FROM vedabase_chunks c
JOIN vedabase_verses v ON c.verse_id = v.id
JOIN vedabase_books b ON v.book_id = b.id
WHERE c.id = ?`

	chunkTextQuery = `
SELECT c.content AS chunk_text
FROM embeddings e
JOIN chunks c ON e.chunk_id = c.id
WHERE e.id = ?`

	responseQuery = `
SELECT r.id, r.opening, r.historical_development, r.key_concepts,
       r.core_arguments, r.counter_arguments, r.textual_foundation,
       r.internal_variations, r.contemporary_applications,
       q.number AS question_number, q.title AS question_title,
       t.name AS tradition_name
FROM responses r
JOIN questions q ON r.question_id = q.id
JOIN traditions t ON r.tradition_id = t.id
WHERE r.id = ?`

	traditionsQuery = `
SELECT DISTINCT t.name
FROM traditions t
INNER JOIN responses r ON t.id = r.tradition_id
ORDER BY t.name`

	questionsQuery = `
SELECT DISTINCT q.number, q.title
FROM questions q
INNER JOIN responses r ON q.id = r.question_id
ORDER BY q.number`

	questionsByTraditionQuery = `
SELECT DISTINCT q.number, q.title
FROM questions q
INNER JOIN responses r ON q.id = r.question_id
INNER JOIN traditions t ON r.tradition_id = t.id
WHERE t.name = ?
ORDER BY q.number`

	booksQuery = `
SELECT b.code, b.name
FROM vedabase_books b
WHERE EXISTS (
    SELECT 1 FROM vedabase_verses v
    JOIN vedabase_chunks c ON v.id = c.verse_id
    WHERE v.book_id = b.id
)
ORDER BY b.id`
)

// Repo implements the retrieval resolver and the catalog reader over sqlx.
// Queries use "?" placeholders and are rebound for the connection's driver.
type Repo struct {
	db *sqlx.DB
}

// New creates a corpus repository.
func New(conn *sqlx.DB) *Repo {
	return &Repo{db: conn}
}

// VerseChunk resolves a Vedabase chunk with its verse and book.
func (r *Repo) VerseChunk(ctx context.Context, chunkID int64) (domcorpus.VerseChunk, error) {
	var row verseChunkRow
	if err := r.get(ctx, &row, verseChunkQuery, chunkID); err != nil {
		return domcorpus.VerseChunk{}, fmt.Errorf("vedabase chunk %d: %w", chunkID, err)
	}
	return row.toDomain(), nil
}

// ChunkText resolves the text of a philosophy chunk by its vector entry id.
func (r *Repo) ChunkText(ctx context.Context, entryID string) (string, error) {
	var text string
	if err := r.get(ctx, &text, chunkTextQuery, idArg(entryID)); err != nil {
		return "", fmt.Errorf("chunk for entry %s: %w", entryID, err)
	}
	return text, nil
}

// Response resolves a tradition's full response with its question.
func (r *Repo) Response(ctx context.Context, responseID int64) (domcorpus.Response, error) {
	var row responseRow
	if err := r.get(ctx, &row, responseQuery, responseID); err != nil {
		return domcorpus.Response{}, fmt.Errorf("response %d: %w", responseID, err)
	}
	return row.toDomain(), nil
}

// Traditions lists tradition names that have at least one response.
func (r *Repo) Traditions(ctx context.Context) ([]string, error) {
	names := []string{}
	if err := r.db.SelectContext(ctx, &names, r.db.Rebind(traditionsQuery)); err != nil {
		return nil, fmt.Errorf("list traditions: %w", err)
	}
	return names, nil
}

// Questions lists answered questions, optionally for one tradition.
func (r *Repo) Questions(ctx context.Context, tradition string) ([]domcorpus.Question, error) {
	var rows []questionRow
	var err error
	if tradition == "" {
		err = r.db.SelectContext(ctx, &rows, r.db.Rebind(questionsQuery))
	} else {
		err = r.db.SelectContext(ctx, &rows, r.db.Rebind(questionsByTraditionQuery), tradition)
	}
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	out := make([]domcorpus.Question, 0, len(rows))
	for _, q := range rows {
		out = append(out, domcorpus.Question{Number: q.Number, Title: q.Title})
	}
	return out, nil
}

// Books lists Vedabase books that have at least one chunk.
func (r *Repo) Books(ctx context.Context) ([]domcorpus.Book, error) {
	var rows []bookRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(booksQuery)); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	out := make([]domcorpus.Book, 0, len(rows))
	for _, b := range rows {
		out = append(out, domcorpus.Book{Code: b.Code, Name: b.Name})
	}
	return out, nil
}

// Ping checks database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repo) get(ctx context.Context, dest any, query string, args ...any) error {
	err := r.db.GetContext(ctx, dest, r.db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

// idArg binds numeric ids as integers so strict drivers compare like types.
func idArg(id string) any {
	if n, err := strconv.ParseInt(id, 10, 64); err == nil {
		return n
	}
	return id
}
