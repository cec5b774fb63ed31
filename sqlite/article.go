package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/readable"
	"github.com/google/uuid"
)

// timeFormat is fixed width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Compile-time interface verification.
var _ readable.ArticleStore = (*ArticleStore)(nil)

// ArticleStore implements readable.ArticleStore using SQLite. Articles are
// keyed by source: writing the same source again replaces the stored
// article and keeps its ID.
type ArticleStore struct {
	db *DB
}

// NewArticleStore creates a new ArticleStore.
func NewArticleStore(db *DB) *ArticleStore {
	return &ArticleStore{db: db}
}

// hashContent returns the xxHash of the article text as 16 hex digits.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// WriteArticle inserts or replaces the article extracted from source and
// returns its ID.
func (s *ArticleStore) WriteArticle(ctx context.Context, source string, article *readable.Article) (string, error) {
	if article == nil {
		return "", readable.Errorf(readable.EINVALID, "article required")
	}
	if strings.TrimSpace(source) == "" {
		return "", readable.Errorf(readable.EINVALID, "article source required")
	}

	var id string
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO articles (id, source, title, byline, excerpt, site_name, lang, dir, published_time,
			content, text_content, length, content_hash, extracted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source) DO UPDATE SET
			title = excluded.title,
			byline = excluded.byline,
			excerpt = excluded.excerpt,
			site_name = excluded.site_name,
			lang = excluded.lang,
			dir = excluded.dir,
			published_time = excluded.published_time,
			content = excluded.content,
			text_content = excluded.text_content,
			length = excluded.length,
			content_hash = excluded.content_hash,
			extracted_at = excluded.extracted_at
		RETURNING id
	`, uuid.New().String(), source, article.Title, article.Byline, article.Excerpt, article.SiteName,
		article.Lang, article.Dir, article.PublishedTime, article.Content, article.TextContent,
		article.Length, hashContent(article.TextContent), time.Now().UTC().Format(timeFormat),
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("store %s: %w", source, err)
	}
	return id, nil
}

// FindArticles retrieves articles matching the filter, most recent first.
func (s *ArticleStore) FindArticles(ctx context.Context, filter readable.ArticleFilter) ([]*readable.ArticleRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, source, title, byline, excerpt, site_name, lang, dir, published_time,
		content, text_content, length, content_hash, extracted_at FROM articles WHERE 1=1`)

	if filter.Source != nil {
		query.WriteString(" AND source = ?")
		args = append(args, *filter.Source)
	}

	query.WriteString(" ORDER BY extracted_at DESC, rowid DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			query.WriteString(" LIMIT -1")
		}
		query.WriteString(" OFFSET ?")
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*readable.ArticleRecord
	for rows.Next() {
		var r readable.ArticleRecord
		var extractedAt string

		if err := rows.Scan(&r.ID, &r.Source, &r.Title, &r.Byline, &r.Excerpt, &r.SiteName, &r.Lang,
			&r.Dir, &r.PublishedTime, &r.Content, &r.TextContent, &r.Length, &r.ContentHash,
			&extractedAt); err != nil {
			return nil, err
		}

		r.ExtractedAt, err = time.Parse(timeFormat, extractedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse extracted_at: %w", err)
		}

		records = append(records, &r)
	}

	return records, rows.Err()
}
