package pubcms

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"

	"github.com/eringen/pubcms/content"
)

const (
	defaultPageLimit  = 10
	defaultMediaLimit = 20
	maxPageLimit      = 100
)

// ---- posts ----

const postColumns = `p.id, p.title, p.slug, p.content, p.excerpt, p.tags, p.published, p.published_at,
    p.author_id, p.views, p.seo_title, p.seo_description, p.created_at, p.updated_at,
    u.id, u.name, u.email`

const postFrom = ` FROM posts p LEFT JOIN users u ON u.id = p.author_id`

func scanPost(row interface{ Scan(...any) error }) (Post, error) {
	var p Post
	var tags, created, updated string
	var published int
	var publishedAt sql.NullString
	var authorID, authorName, authorEmail sql.NullString
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &tags, &published, &publishedAt,
		&p.AuthorID, &p.Views, &p.SeoTitle, &p.SeoDescription, &created, &updated,
		&authorID, &authorName, &authorEmail); err != nil {
		return Post{}, notFound(err)
	}
	p.Tags = decodeList(tags)
	p.Published = published == 1
	p.PublishedAt = parseNullTime(publishedAt)
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	if authorID.Valid {
		p.Author = &Author{ID: authorID.String, Name: authorName.String, Email: authorEmail.String}
	}
	return p, nil
}

// CreatePost inserts a reconciled post. A slug collision caught by the
// UNIQUE index is reported as content.ErrSlugConflict.
func (s *Store) CreatePost(ctx context.Context, f content.PostFields, authorID string) (Post, error) {
	id := uuid.NewString()
	now := formatTime(s.now())
	_, err := s.db.ExecContext(ctx, `INSERT INTO posts
    (id, title, slug, content, excerpt, tags, published, published_at, author_id, views, seo_title, seo_description, created_at, updated_at)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?)`,
		id, f.Title, f.Slug, f.Content, f.Excerpt, encodeList(f.Tags), boolInt(f.Published), formatNullTime(f.PublishedAt),
		authorID, f.SeoTitle, f.SeoDescription, now, now)
	if err != nil {
		if isUniqueViolation(err, "posts.slug") {
			return Post{}, content.ErrSlugConflict
		}
		return Post{}, err
	}
	return s.GetPost(ctx, id)
}

// UpdatePost overwrites the editable fields of post id.
func (s *Store) UpdatePost(ctx context.Context, id string, f content.PostFields) (Post, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET
    title = ?, slug = ?, content = ?, excerpt = ?, tags = ?, published = ?, published_at = ?,
    seo_title = ?, seo_description = ?, updated_at = ?
    WHERE id = ?`,
		f.Title, f.Slug, f.Content, f.Excerpt, encodeList(f.Tags), boolInt(f.Published), formatNullTime(f.PublishedAt),
		f.SeoTitle, f.SeoDescription, formatTime(s.now()), id)
	if err != nil {
		if isUniqueViolation(err, "posts.slug") {
			return Post{}, content.ErrSlugConflict
		}
		return Post{}, err
	}
	if err := affected(res); err != nil {
		return Post{}, err
	}
	return s.GetPost(ctx, id)
}

// GetPost returns a post by id regardless of published state.
func (s *Store) GetPost(ctx context.Context, id string) (Post, error) {
	return scanPost(s.db.QueryRowContext(ctx, `SELECT `+postColumns+postFrom+` WHERE p.id = ?`, id))
}

// GetPublishedPostBySlug returns a published post by slug.
func (s *Store) GetPublishedPostBySlug(ctx context.Context, slug string) (Post, error) {
	return scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+postFrom+` WHERE p.slug = ? AND p.published = 1`, strings.ToLower(slug)))
}

func postWhere(f PostFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Published != nil {
		conds = append(conds, "p.published = ?")
		args = append(args, boolInt(*f.Published))
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM json_each(p.tags) WHERE lower(json_each.value) = lower(?))")
		args = append(args, tag)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListPosts returns one page of posts matching f, newest publication first
// (unpublished last), and the total number of matches.
func (s *Store) ListPosts(ctx context.Context, f PostFilter) ([]Post, int, error) {
	where, args := postWhere(f)
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	_, limit, offset := pageBounds(f.Page, f.Limit, defaultPageLimit)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+postColumns+postFrom+where+
			` ORDER BY p.published_at IS NULL, p.published_at DESC, p.created_at DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, p)
	}
	return posts, total, rows.Err()
}

// CountPosts counts posts, optionally by published state.
func (s *Store) CountPosts(ctx context.Context, published *bool) (int, error) {
	where, args := postWhere(PostFilter{Published: published})
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts p`+where, args...).Scan(&n)
	return n, err
}

// DeletePost removes a post by id.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// IncrementPostViews bumps the view counter in a single statement.
func (s *Store) IncrementPostViews(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE posts SET views = views + 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// ListPostTags returns the distinct lowercased tags of published posts.
func (s *Store) ListPostTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT lower(json_each.value) AS tag
    FROM posts, json_each(posts.tags) WHERE posts.published = 1 ORDER BY tag`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tags := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ---- projects ----

const projectColumns = `id, title, slug, description, content, images, technologies, github_link, demo_link,
    featured, published, seo_title, seo_description, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var p Project
	var images, techs, created, updated string
	var featured, published int
	if err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Content, &images, &techs,
		&p.GithubLink, &p.DemoLink, &featured, &published, &p.SeoTitle, &p.SeoDescription, &created, &updated); err != nil {
		return Project{}, notFound(err)
	}
	p.Images = decodeList(images)
	p.Technologies = decodeList(techs)
	p.Featured = featured == 1
	p.Published = published == 1
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return p, nil
}

// CreateProject inserts a reconciled project.
func (s *Store) CreateProject(ctx context.Context, f content.ProjectFields) (Project, error) {
	id := uuid.NewString()
	now := formatTime(s.now())
	_, err := s.db.ExecContext(ctx, `INSERT INTO projects (`+projectColumns+`)
    VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, f.Title, f.Slug, f.Description, f.Content, encodeList(f.Images), encodeList(f.Technologies),
		f.GithubLink, f.DemoLink, boolInt(f.Featured), boolInt(f.Published), f.SeoTitle, f.SeoDescription, now, now)
	if err != nil {
		if isUniqueViolation(err, "projects.slug") {
			return Project{}, content.ErrSlugConflict
		}
		return Project{}, err
	}
	return s.GetProject(ctx, id)
}

// UpdateProject overwrites the editable fields of project id.
func (s *Store) UpdateProject(ctx context.Context, id string, f content.ProjectFields) (Project, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE projects SET
    title = ?, slug = ?, description = ?, content = ?, images = ?, technologies = ?, github_link = ?, demo_link = ?,
    featured = ?, published = ?, seo_title = ?, seo_description = ?, updated_at = ?
    WHERE id = ?`,
		f.Title, f.Slug, f.Description, f.Content, encodeList(f.Images), encodeList(f.Technologies), f.GithubLink, f.DemoLink,
		boolInt(f.Featured), boolInt(f.Published), f.SeoTitle, f.SeoDescription, formatTime(s.now()), id)
	if err != nil {
		if isUniqueViolation(err, "projects.slug") {
			return Project{}, content.ErrSlugConflict
		}
		return Project{}, err
	}
	if err := affected(res); err != nil {
		return Project{}, err
	}
	return s.GetProject(ctx, id)
}

// GetProject returns a project by id regardless of published state.
func (s *Store) GetProject(ctx context.Context, id string) (Project, error) {
	return scanProject(s.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
}

// GetPublishedProjectBySlug returns a published project by slug.
func (s *Store) GetPublishedProjectBySlug(ctx context.Context, slug string) (Project, error) {
	return scanProject(s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE slug = ? AND published = 1`, strings.ToLower(slug)))
}

func projectWhere(f ProjectFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Published != nil {
		conds = append(conds, "published = ?")
		args = append(args, boolInt(*f.Published))
	}
	if f.Featured != nil {
		conds = append(conds, "featured = ?")
		args = append(args, boolInt(*f.Featured))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListProjects returns one page of projects matching f, newest first, and
// the total number of matches.
func (s *Store) ListProjects(ctx context.Context, f ProjectFilter) ([]Project, int, error) {
	where, args := projectWhere(f)
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	_, limit, offset := pageBounds(f.Page, f.Limit, defaultPageLimit)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects`+where+` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, 0, err
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

// CountProjects counts projects, optionally by published state.
func (s *Store) CountProjects(ctx context.Context, published *bool) (int, error) {
	where, args := projectWhere(ProjectFilter{Published: published})
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects`+where, args...).Scan(&n)
	return n, err
}

// DeleteProject removes a project by id.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affected(res)
}

// postFields returns the reconcilable part of p.
func postFields(p Post) content.PostFields {
	return content.PostFields{
		Title:          p.Title,
		Slug:           p.Slug,
		Content:        p.Content,
		Excerpt:        p.Excerpt,
		Tags:           p.Tags,
		Published:      p.Published,
		PublishedAt:    p.PublishedAt,
		SeoTitle:       p.SeoTitle,
		SeoDescription: p.SeoDescription,
	}
}

// projectFields returns the reconcilable part of p.
func projectFields(p Project) content.ProjectFields {
	return content.ProjectFields{
		Title:          p.Title,
		Slug:           p.Slug,
		Description:    p.Description,
		Content:        p.Content,
		Images:         p.Images,
		Technologies:   p.Technologies,
		GithubLink:     p.GithubLink,
		DemoLink:       p.DemoLink,
		Featured:       p.Featured,
		Published:      p.Published,
		SeoTitle:       p.SeoTitle,
		SeoDescription: p.SeoDescription,
	}
}
