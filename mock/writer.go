package mock

import (
	"context"

	"github.com/fwojciec/readable"
)

var _ readable.ArticleWriter = (*ArticleWriter)(nil)

// ArticleWriter is a mock implementation of readable.ArticleWriter.
type ArticleWriter struct {
	WriteArticleFn func(ctx context.Context, name string, article *readable.Article) (string, error)
}

func (w *ArticleWriter) WriteArticle(ctx context.Context, name string, article *readable.Article) (string, error) {
	return w.WriteArticleFn(ctx, name, article)
}

var _ readable.ArticleStore = (*ArticleStore)(nil)

// ArticleStore is a mock implementation of readable.ArticleStore.
type ArticleStore struct {
	WriteArticleFn func(ctx context.Context, name string, article *readable.Article) (string, error)
	FindArticlesFn func(ctx context.Context, filter readable.ArticleFilter) ([]*readable.ArticleRecord, error)
}

func (s *ArticleStore) WriteArticle(ctx context.Context, name string, article *readable.Article) (string, error) {
	return s.WriteArticleFn(ctx, name, article)
}

func (s *ArticleStore) FindArticles(ctx context.Context, filter readable.ArticleFilter) ([]*readable.ArticleRecord, error) {
	return s.FindArticlesFn(ctx, filter)
}
