package pubcms

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const mediaColumns = `id, filename, original_name, mime_type, size, path, url, alt, uploaded_by,
    width, height, thumbnail_url, created_at, updated_at`

func scanMedia(row interface{ Scan(...any) error }) (Media, error) {
	var m Media
	var created, updated string
	if err := row.Scan(&m.ID, &m.Filename, &m.OriginalName, &m.MimeType, &m.Size, &m.Path, &m.URL, &m.Alt,
		&m.UploadedBy, &m.Width, &m.Height, &m.ThumbnailURL, &created, &updated); err != nil {
		return Media{}, notFound(err)
	}
	m.CreatedAt = parseTime(created)
	m.UpdatedAt = parseTime(updated)
	return m, nil
}

// CreateMedia records an uploaded file. ID and timestamps are assigned.
func (s *Store) CreateMedia(ctx context.Context, m Media) (Media, error) {
	now := s.now()
	m.ID = uuid.NewString()
	m.CreatedAt, m.UpdatedAt = now, now
	_, err := s.db.ExecContext(ctx, `INSERT INTO media (`+mediaColumns+`)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Filename, m.OriginalName, m.MimeType, m.Size, m.Path, m.URL, m.Alt, m.UploadedBy,
		m.Width, m.Height, m.ThumbnailURL, formatTime(now), formatTime(now))
	if err != nil {
		return Media{}, err
	}
	return m, nil
}

// GetMedia returns a media record by id.
func (s *Store) GetMedia(ctx context.Context, id string) (Media, error) {
	return scanMedia(s.db.QueryRowContext(ctx, `SELECT `+mediaColumns+` FROM media WHERE id = ?`, id))
}

// MediaFilenameExists reports whether a record already uses filename.
func (s *Store) MediaFilenameExists(ctx context.Context, filename string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM media WHERE filename = ?`, filename).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func mediaWhere(f MediaFilter) (string, []any) {
	var conds []string
	var args []any
	if mt := strings.TrimSpace(f.MimeType); mt != "" {
		if prefix, ok := strings.CutSuffix(mt, "/*"); ok {
			conds = append(conds, "mime_type LIKE ?")
			args = append(args, prefix+"/%")
		} else {
			conds = append(conds, "mime_type = ?")
			args = append(args, mt)
		}
	}
	if f.UploadedBy != "" {
		conds = append(conds, "uploaded_by = ?")
		args = append(args, f.UploadedBy)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListMedia returns one page of media matching f, newest first, and the
// total number of matches.
func (s *Store) ListMedia(ctx context.Context, f MediaFilter) ([]Media, int, error) {
	where, args := mediaWhere(f)
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	_, limit, offset := pageBounds(f.Page, f.Limit, defaultMediaLimit)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+mediaColumns+` FROM media`+where+` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []Media{}
	for rows.Next() {
		m, err := scanMedia(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// CountMedia returns the number of media records.
func (s *Store) CountMedia(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM media`).Scan(&n)
	return n, err
}

// DeleteMedia removes a media record by id. Files on disk are not touched.
func (s *Store) DeleteMedia(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}
