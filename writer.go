package readable

import (
	"context"
	"time"
)

// ArticleWriter persists extracted articles.
type ArticleWriter interface {
	// WriteArticle stores the article under name and returns where it was
	// stored: a file path or a record ID.
	WriteArticle(ctx context.Context, name string, article *Article) (string, error)
}

// ArticleStore is an ArticleWriter that can list what it stored.
type ArticleStore interface {
	ArticleWriter

	// FindArticles returns stored articles matching the filter, most
	// recently extracted first.
	FindArticles(ctx context.Context, filter ArticleFilter) ([]*ArticleRecord, error)
}

// ArticleRecord is an article together with its storage metadata.
type ArticleRecord struct {
	ID     string
	Source string
	Article

	// ContentHash identifies the extracted content; unchanged pages keep
	// their hash across runs.
	ContentHash string
	ExtractedAt time.Time
}

// ArticleFilter selects stored articles. Nil fields match everything.
type ArticleFilter struct {
	Source *string
	Limit  int
	Offset int
}
