package pubcms

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/eringen/pubcms/content"
)

// ErrEmailTaken is returned when creating a user whose email already exists.
var ErrEmailTaken = errors.New("pubcms: email already registered")

// timeLayout is fixed width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Store wraps a SQLite database and provides CRUD operations for users,
// posts, projects, media and settings.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL lets readers proceed during a write; the busy timeout makes writers
	// wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA foreign_keys=ON;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'editor',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT '[]',
    published INTEGER NOT NULL DEFAULT 0,
    published_at TEXT,
    author_id TEXT NOT NULL,
    views INTEGER NOT NULL DEFAULT 0,
    seo_title TEXT NOT NULL DEFAULT '',
    seo_description TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_listing ON posts (published, published_at DESC, created_at DESC);

CREATE TABLE IF NOT EXISTS projects (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    images TEXT NOT NULL DEFAULT '[]',
    technologies TEXT NOT NULL DEFAULT '[]',
    github_link TEXT NOT NULL DEFAULT '',
    demo_link TEXT NOT NULL DEFAULT '',
    featured INTEGER NOT NULL DEFAULT 0,
    published INTEGER NOT NULL DEFAULT 0,
    seo_title TEXT NOT NULL DEFAULT '',
    seo_description TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_projects_listing ON projects (published, created_at DESC);

CREATE TABLE IF NOT EXISTS media (
    id TEXT PRIMARY KEY,
    filename TEXT NOT NULL UNIQUE,
    original_name TEXT NOT NULL,
    mime_type TEXT NOT NULL,
    size INTEGER NOT NULL,
    path TEXT NOT NULL,
    url TEXT NOT NULL,
    alt TEXT NOT NULL DEFAULT '',
    uploaded_by TEXT NOT NULL,
    width INTEGER NOT NULL DEFAULT 0,
    height INTEGER NOT NULL DEFAULT 0,
    thumbnail_url TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    site_name TEXT NOT NULL,
    site_description TEXT NOT NULL DEFAULT '',
    site_url TEXT NOT NULL DEFAULT '',
    contact_email TEXT NOT NULL DEFAULT '',
    social_links TEXT NOT NULL DEFAULT '{}',
    seo TEXT NOT NULL DEFAULT '{}',
    updated_at TEXT NOT NULL
);
`)
	return err
}

// FindSlug reports which record owns slug within kind.
func (s *Store) FindSlug(ctx context.Context, kind content.Kind, slug string) (string, bool, error) {
	var table string
	switch kind {
	case content.KindPost:
		table = "posts"
	case content.KindProject:
		table = "projects"
	default:
		return "", false, fmt.Errorf("find slug: unknown kind %q", kind)
	}
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM `+table+` WHERE slug = ?`, slug).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// ---- users ----

// CreateUser inserts u. ID and timestamps are assigned; the email is
// normalized. u.Password must already be hashed.
func (s *Store) CreateUser(ctx context.Context, u User) (User, error) {
	now := s.now()
	u.ID = uuid.NewString()
	u.Email = normalizeEmail(u.Email)
	if u.Role == "" {
		u.Role = RoleEditor
	}
	u.CreatedAt, u.UpdatedAt = now, now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password, name, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.Password, u.Name, string(u.Role), formatTime(now), formatTime(now))
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return u, nil
}

const userColumns = `id, email, password, name, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	var role, created, updated string
	if err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Name, &role, &created, &updated); err != nil {
		return User{}, notFound(err)
	}
	u.Role = Role(role)
	u.CreatedAt = parseTime(created)
	u.UpdatedAt = parseTime(updated)
	return u, nil
}

// GetUser returns a user by id.
func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

// GetUserByEmail returns a user by email, compared after normalization.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, normalizeEmail(email)))
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id, hash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET password = ?, updated_at = ? WHERE id = ?`, hash, formatTime(s.now()), id)
	if err != nil {
		return err
	}
	return affected(res)
}

// ---- settings ----

// GetSettings returns the settings singleton, creating it with defaults on
// first read.
func (s *Store) GetSettings(ctx context.Context, defaults Settings) (Settings, error) {
	st, err := s.readSettings(ctx)
	if !errors.Is(err, content.ErrNotFound) {
		return st, err
	}
	defaults.UpdatedAt = s.now()
	if err := s.writeSettings(ctx, defaults, `INSERT OR IGNORE INTO settings`); err != nil {
		return Settings{}, err
	}
	return s.readSettings(ctx)
}

// UpdateSettings overwrites the singleton. The row must exist.
func (s *Store) UpdateSettings(ctx context.Context, st Settings) (Settings, error) {
	st.UpdatedAt = s.now()
	if err := s.writeSettings(ctx, st, `INSERT OR REPLACE INTO settings`); err != nil {
		return Settings{}, err
	}
	return s.readSettings(ctx)
}

func (s *Store) readSettings(ctx context.Context) (Settings, error) {
	var st Settings
	var social, seo, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT site_name, site_description, site_url, contact_email, social_links, seo, updated_at FROM settings WHERE id = 1`).
		Scan(&st.SiteName, &st.SiteDescription, &st.SiteURL, &st.ContactEmail, &social, &seo, &updated)
	if err != nil {
		return Settings{}, notFound(err)
	}
	if err := json.Unmarshal([]byte(social), &st.SocialLinks); err != nil {
		return Settings{}, fmt.Errorf("decode social links: %w", err)
	}
	if err := json.Unmarshal([]byte(seo), &st.SEO); err != nil {
		return Settings{}, fmt.Errorf("decode seo: %w", err)
	}
	st.UpdatedAt = parseTime(updated)
	return st, nil
}

func (s *Store) writeSettings(ctx context.Context, st Settings, verb string) error {
	social, err := json.Marshal(st.SocialLinks)
	if err != nil {
		return err
	}
	seo, err := json.Marshal(st.SEO)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		verb+` (id, site_name, site_description, site_url, contact_email, social_links, seo, updated_at) VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		st.SiteName, st.SiteDescription, st.SiteURL, st.ContactEmail, string(social), string(seo), formatTime(st.UpdatedAt))
	return err
}

// ---- helpers ----

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}

func formatNullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	t := parseTime(ns.String)
	return &t
}

func encodeList(list []string) string {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeList(raw string) []string {
	list := []string{}
	if err := json.Unmarshal([]byte(raw), &list); err != nil || list == nil {
		return []string{}
	}
	return list
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return content.ErrNotFound
	}
	return err
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return content.ErrNotFound
	}
	return nil
}

// isUniqueViolation matches SQLite's "UNIQUE constraint failed: table.column".
func isUniqueViolation(err error, column string) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, column)
}

// pageBounds clamps page and limit and returns the row offset.
func pageBounds(page, limit, defaultLimit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit, (page - 1) * limit
}
