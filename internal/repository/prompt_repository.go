// This file defines repository methods for prompts. A prompt is a piece of text
// shared by a creator; every prompt references exactly one row in `users`
// through prompts.creator_id. Read paths that serve the public API join the
// creator columns into the result so responses carry a populated creator
// object instead of a bare foreign key.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/marndt/prompt-vault/internal/model"
)

// Creator is the public subset of user columns embedded into prompt
// responses. Email, password hash and role never leave the repository.
type Creator struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Image    string `json:"image"`
}

// PromptWithCreator mirrors a prompts row joined with its creator via
// prompts.creator_id = users.id. The bare creator_id is replaced by the
// nested Creator object, which is what the JSON API exposes.
type PromptWithCreator struct {
	ID        uint64    `json:"id"`
	Body      string    `json:"body"`
	Tag       string    `json:"tag"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Creator   Creator   `json:"creator"`
}

// PromptRepo manages persistence for prompts.
type PromptRepo struct {
	db *sql.DB
}

// NewPromptRepo constructs a PromptRepo with the given DB handle.
func NewPromptRepo(db *sql.DB) *PromptRepo {
	return &PromptRepo{db: db}
}

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *PromptRepo) DB() *sql.DB {
	return r.db
}

// joinedColumns selects prompt columns plus the creator columns needed to
// populate the nested creator object. COALESCE guards image_url which is
// nullable in older schemas.
const joinedColumns = `p.id, p.body, p.tag, p.created_at, p.updated_at,
       u.id, u.username, COALESCE(u.image_url, '')`

// Create inserts a new prompt and assigns the generated ID back to the
// struct. The caller must provide creator_id, body and tag. Timestamps
// are populated from the freshly inserted row so the struct mirrors the
// DB defaults.
func (r *PromptRepo) Create(ctx context.Context, p *model.Prompt) error {
	const q = `INSERT INTO prompts (creator_id, body, tag) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.CreatorID, p.Body, p.Tag)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT id, creator_id, body, tag, created_at, updated_at FROM prompts WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(
		&p.ID, &p.CreatorID, &p.Body, &p.Tag, &p.CreatedAt, &p.UpdatedAt,
	)
}

// GetByID retrieves a prompt by its ID without the creator join. It is
// used for ownership checks before updates and deletes. Returns
// ErrPromptNotFound when no row matches.
func (r *PromptRepo) GetByID(ctx context.Context, id uint64) (*model.Prompt, error) {
	const q = `SELECT id, creator_id, body, tag, created_at, updated_at FROM prompts WHERE id = ?`
	var p model.Prompt
	err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.CreatorID, &p.Body, &p.Tag, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrPromptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetWithCreator retrieves a single prompt with its creator populated.
func (r *PromptRepo) GetWithCreator(ctx context.Context, id uint64) (*PromptWithCreator, error) {
	const q = `SELECT ` + joinedColumns + `
               FROM prompts p
               JOIN users u ON u.id = p.creator_id
               WHERE p.id = ?`
	var row PromptWithCreator
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&row.ID, &row.Body, &row.Tag, &row.CreatedAt, &row.UpdatedAt,
		&row.Creator.ID, &row.Creator.Username, &row.Creator.Image,
	)
	if err == sql.ErrNoRows {
		return nil, ErrPromptNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListByCreator returns every prompt whose creator_id equals the given
// user ID, each row carrying the populated creator. An unknown creator is
// not an error; the result is simply empty. Ordering is newest first and
// stable across identical calls so repeated reads of an unchanged store
// produce identical bodies.
func (r *PromptRepo) ListByCreator(ctx context.Context, creatorID uint64) ([]PromptWithCreator, error) {
	const q = `SELECT ` + joinedColumns + `
               FROM prompts p
               JOIN users u ON u.id = p.creator_id
               WHERE p.creator_id = ?
               ORDER BY p.created_at DESC, p.id DESC`
	rows, err := r.db.QueryContext(ctx, q, creatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PromptWithCreator, 0)
	for rows.Next() {
		var row PromptWithCreator
		if err := rows.Scan(
			&row.ID, &row.Body, &row.Tag, &row.CreatedAt, &row.UpdatedAt,
			&row.Creator.ID, &row.Creator.Username, &row.Creator.Image,
		); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites body and tag of an existing prompt. Existence and
// ownership are verified by the handler via GetByID before calling this,
// so a zero rows-affected result (values unchanged) is not an error.
func (r *PromptRepo) Update(ctx context.Context, id uint64, body, tag string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE prompts SET body=?, tag=? WHERE id=?", body, tag, id)
	return err
}

// Delete removes a prompt by id.
func (r *PromptRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM prompts WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPromptNotFound
	}
	return nil
}
