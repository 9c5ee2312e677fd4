package pubcms

import "time"

// Role is a user's permission level.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// User is a CMS account. The password hash is never serialized.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsAdmin reports whether u has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Post is a blog post. Content holds the full markdown including any
// frontmatter block.
type Post struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Slug           string     `json:"slug"`
	Content        string     `json:"content"`
	Excerpt        string     `json:"excerpt"`
	Tags           []string   `json:"tags"`
	Published      bool       `json:"published"`
	PublishedAt    *time.Time `json:"publishedAt"`
	AuthorID       string     `json:"authorId"`
	Author         *Author    `json:"author,omitempty"`
	Views          int64      `json:"views"`
	SeoTitle       string     `json:"seoTitle"`
	SeoDescription string     `json:"seoDescription"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Author is the public part of a post's author.
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Project is a portfolio entry.
type Project struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Content        string    `json:"content"`
	Images         []string  `json:"images"`
	Technologies   []string  `json:"technologies"`
	GithubLink     string    `json:"githubLink"`
	DemoLink       string    `json:"demoLink"`
	Featured       bool      `json:"featured"`
	Published      bool      `json:"published"`
	SeoTitle       string    `json:"seoTitle"`
	SeoDescription string    `json:"seoDescription"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Media is an uploaded file. Width, Height and ThumbnailURL are only set for
// decodable images.
type Media struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	Path         string    `json:"-"`
	URL          string    `json:"url"`
	Alt          string    `json:"alt"`
	UploadedBy   string    `json:"uploadedBy"`
	Width        int       `json:"width,omitempty"`
	Height       int       `json:"height,omitempty"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SocialLinks are profile URLs shown by the front end.
type SocialLinks struct {
	Github   string `json:"github,omitempty" validate:"omitempty,url"`
	Twitter  string `json:"twitter,omitempty" validate:"omitempty,url"`
	LinkedIn string `json:"linkedin,omitempty" validate:"omitempty,url"`
}

// SEODefaults are used when a page has no SEO fields of its own.
type SEODefaults struct {
	DefaultTitle       string `json:"defaultTitle,omitempty" validate:"max=60"`
	DefaultDescription string `json:"defaultDescription,omitempty" validate:"max=160"`
	DefaultImage       string `json:"defaultImage,omitempty" validate:"omitempty,url|startswith=/"`
}

// Settings is the site-wide singleton.
type Settings struct {
	SiteName        string      `json:"siteName" validate:"required,max=100"`
	SiteDescription string      `json:"siteDescription" validate:"max=500"`
	SiteURL         string      `json:"siteUrl" validate:"omitempty,url"`
	ContactEmail    string      `json:"contactEmail" validate:"omitempty,email"`
	SocialLinks     SocialLinks `json:"socialLinks"`
	SEO             SEODefaults `json:"seo"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// PostFilter selects posts for listing. A nil Published matches both states.
type PostFilter struct {
	Published *bool
	Tag       string
	Page      int
	Limit     int
}

// ProjectFilter selects projects for listing.
type ProjectFilter struct {
	Published *bool
	Featured  *bool
	Page      int
	Limit     int
}

// MediaFilter selects media for listing. MimeType matches exactly, or by
// prefix when it ends in "/*" (e.g. "image/*").
type MediaFilter struct {
	MimeType   string
	UploadedBy string
	Page       int
	Limit      int
}
