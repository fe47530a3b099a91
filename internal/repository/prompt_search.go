package repository

import (
	"context"
	"strings"
)

// PromptSearchQuery defines filters & pagination for the public feed.
// Text matches prompt body, tag or creator username case-insensitively.
type PromptSearchQuery struct {
	Text     string
	Tag      string
	Page     int
	PageSize int
}

// Search returns feed rows with creators populated plus the total match
// count for pagination. An empty query lists the whole feed newest first.
func (r *PromptRepo) Search(ctx context.Context, q PromptSearchQuery) ([]PromptWithCreator, int64, error) {
	where := []string{}
	args := []any{}

	if q.Text != "" {
		needle := "%" + strings.ToLower(q.Text) + "%"
		where = append(where, "(LOWER(p.body) LIKE ? OR LOWER(p.tag) LIKE ? OR LOWER(u.username) LIKE ?)")
		args = append(args, needle, needle, needle)
	}
	if q.Tag != "" {
		where = append(where, "LOWER(p.tag) = ?")
		args = append(args, strings.ToLower(q.Tag))
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	page := q.Page
	if page < 1 {
		page = 1
	}
	size := q.PageSize
	if size < 1 || size > 100 {
		size = 20
	}

	countQ := `SELECT COUNT(*)
               FROM prompts p
               JOIN users u ON u.id = p.creator_id
               WHERE ` + cond
	var total int64
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQ := `SELECT ` + joinedColumns + `
              FROM prompts p
              JOIN users u ON u.id = p.creator_id
              WHERE ` + cond + `
              ORDER BY p.created_at DESC, p.id DESC
              LIMIT ? OFFSET ?`
	listArgs := append(append([]any{}, args...), size, (page-1)*size)

	rows, err := r.db.QueryContext(ctx, listQ, listArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]PromptWithCreator, 0, size)
	for rows.Next() {
		var row PromptWithCreator
		if err := rows.Scan(
			&row.ID, &row.Body, &row.Tag, &row.CreatedAt, &row.UpdatedAt,
			&row.Creator.ID, &row.Creator.Username, &row.Creator.Image,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}
