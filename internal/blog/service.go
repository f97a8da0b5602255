// ABOUTME: Post service: validates new posts and builds the rendered feed
// ABOUTME: Authorization is checked by the caller before Create

package blog

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/2389/humor/internal/store"
)

// TimeLayout is how post timestamps appear in the API, matching SQLite's
// CURRENT_TIMESTAMP.
const TimeLayout = "2006-01-02 15:04:05"

// ErrInvalidPost means the title or content was blank.
var ErrInvalidPost = errors.New("invalid post")

// FeedItem is a post as served to readers.
type FeedItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	HTML      string `json:"html"`
	CreatedAt string `json:"created_at"`
}

// Service creates and lists posts.
type Service struct {
	posts    store.PostStore
	renderer *Renderer
	logger   *slog.Logger
}

// NewService creates a Service over posts.
func NewService(posts store.PostStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		posts:    posts,
		renderer: NewRenderer(),
		logger:   logger.With("component", "blog"),
	}
}

// Create stores a post. The title is trimmed; the content is kept verbatim
// so markdown indentation survives.
func (s *Service) Create(ctx context.Context, title, content string) (*FeedItem, error) {
	title = strings.TrimSpace(title)
	if title == "" || strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: Title and content are required.", ErrInvalidPost)
	}

	post, err := s.posts.CreatePost(ctx, &store.Post{Title: title, Content: content})
	if err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	s.logger.Info("post published", "id", post.ID, "title", post.Title)
	return s.toFeedItem(post), nil
}

// List returns the feed, newest first. A limit of zero or less returns all posts.
func (s *Service) List(ctx context.Context, limit int) ([]*FeedItem, error) {
	posts, err := s.posts.ListPosts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	items := make([]*FeedItem, 0, len(posts))
	for _, p := range posts {
		items = append(items, s.toFeedItem(p))
	}
	return items, nil
}

// Get returns a single post. Returns store.ErrNotFound if it doesn't exist.
func (s *Service) Get(ctx context.Context, id int64) (*FeedItem, error) {
	post, err := s.posts.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toFeedItem(post), nil
}

func (s *Service) toFeedItem(p *store.Post) *FeedItem {
	rendered, err := s.renderer.Render(p.Content)
	if err != nil {
		s.logger.Error("failed to convert markdown", "id", p.ID, "error", err)
		rendered = "<p>" + html.EscapeString(p.Content) + "</p>"
	}

	return &FeedItem{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		HTML:      rendered,
		CreatedAt: formatTime(p.CreatedAt),
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimeLayout)
}
