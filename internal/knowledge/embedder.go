package knowledge

import (
	"context"
	"time"

	"github.com/elecmate/maintenance-planner/pkg/utils"
	"github.com/sirupsen/logrus"
)

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache stores vectors by key. A miss returns (nil, false, nil).
type EmbeddingCache interface {
	GetEmbedding(ctx context.Context, key string) ([]float32, bool, error)
	SetEmbedding(ctx context.Context, key string, embedding []float32, ttl time.Duration) error
}

// CachedEmbedder memoizes embeddings. Cache failures degrade to a direct
// call; they never fail the request.
type CachedEmbedder struct {
	next   Embedder
	cache  EmbeddingCache
	model  string
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCachedEmbedder(next Embedder, cache EmbeddingCache, model string, ttl time.Duration, logger *logrus.Logger) *CachedEmbedder {
	return &CachedEmbedder{next: next, cache: cache, model: model, ttl: ttl, logger: logger}
}

func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.cache == nil {
		return e.next.Embed(ctx, text)
	}

	key := "embedding:" + utils.CacheKey(e.model, text)
	if cached, ok, err := e.cache.GetEmbedding(ctx, key); err != nil {
		e.logger.WithError(err).Warn("Embedding cache read failed")
	} else if ok {
		e.logger.WithField("key", key).Debug("Embedding cache hit")
		return cached, nil
	}

	embedding, err := e.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	if err := e.cache.SetEmbedding(ctx, key, embedding, e.ttl); err != nil {
		e.logger.WithError(err).Warn("Embedding cache write failed")
	}
	return embedding, nil
}
