// Package gateway is the document store gateway: it creates documents under
// fresh short IDs, retrying on collision, and reads them back with lazy
// expiry. Expired documents are deleted on the first read past their
// deadline; nothing sweeps them in the background.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/liskl/lixshare/internal/metrics"
	"github.com/liskl/lixshare/internal/model"
	"github.com/liskl/lixshare/internal/storage"
	"github.com/liskl/lixshare/internal/util"
)

// DefaultMaxRetries is how many collisions a single create tolerates.
const DefaultMaxRetries = 10

var tracer = otel.Tracer("github.com/liskl/lixshare/internal/gateway")

// Renderer converts submitted content into stored HTML.
type Renderer interface {
	Render(docType model.DocType, content string) (string, error)
}

// CreateRequest is a validated-for-shape creation request.
type CreateRequest struct {
	DocType model.DocType
	Title   *string
	Content string
	// Expire is seconds from now, or model.NeverExpire
	Expire int64
}

// Gateway holds no mutable state and is safe for concurrent use.
type Gateway struct {
	store      storage.Storage
	renderer   Renderer
	newID      func() (string, error)
	now        func() time.Time
	maxRetries int
	idLength   int
	logger     *zap.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithIDGenerator replaces the random ID source.
func WithIDGenerator(gen func() (string, error)) Option {
	return func(g *Gateway) { g.newID = gen }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Gateway) { g.now = now }
}

// WithMaxRetries sets the collision budget.
func WithMaxRetries(n int) Option {
	return func(g *Gateway) { g.maxRetries = n }
}

// WithIDLength sets the length of generated IDs. Ignored when
// WithIDGenerator is also given.
func WithIDLength(n int) Option {
	return func(g *Gateway) { g.idLength = n }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// New creates a Gateway over store.
func New(store storage.Storage, renderer Renderer, opts ...Option) *Gateway {
	g := &Gateway{
		store:      store,
		renderer:   renderer,
		now:        time.Now,
		maxRetries: DefaultMaxRetries,
		idLength:   util.DefaultIDLength,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.newID == nil {
		g.newID = util.IDGenerator(g.idLength)
	}
	return g
}

// Create renders and stores a document and returns its ID.
//
// A candidate ID that already exists, or that loses an insert race, counts
// as one collision. Exceeding the retry budget returns
// model.ErrIDSpaceExhausted.
func (g *Gateway) Create(ctx context.Context, req CreateRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "gateway.Create")
	defer span.End()
	span.SetAttributes(attribute.String("doc_type", string(req.DocType)))

	if req.Expire < model.NeverExpire {
		return "", fmt.Errorf("%w: %d", model.ErrInvalidExpiration, req.Expire)
	}
	// The deadline must fit in an int64 Unix timestamp.
	now := g.now()
	if req.Expire > math.MaxInt64-now.Unix() {
		return "", fmt.Errorf("%w: %d", model.ErrInvalidExpiration, req.Expire)
	}

	content, err := g.renderer.Render(req.DocType, req.Content)
	if err != nil {
		return "", err
	}

	retries := 0
	for {
		id, err := g.newID()
		if err != nil {
			span.RecordError(err)
			return "", fmt.Errorf("generating document id: %w", err)
		}

		taken, err := g.store.DocumentExists(ctx, id)
		if err != nil {
			span.RecordError(err)
			return "", fmt.Errorf("checking document id: %w", err)
		}

		if !taken {
			doc := &model.Document{
				ID:       id,
				Title:    req.Title,
				Content:  content,
				ExpireAt: model.ExpireAtFor(req.Expire, now),
			}
			err = g.store.InsertDocument(ctx, doc)
			if err == nil {
				metrics.DocumentsCreated.WithLabelValues(string(req.DocType)).Inc()
				span.SetAttributes(attribute.String("doc_id", id), attribute.Int("retries", retries))
				g.logger.Debug("document created",
					zap.String("doc_id", id),
					zap.String("doc_type", string(req.DocType)),
					zap.Int64("expire_at", doc.ExpireAt),
					zap.Int("retries", retries),
				)
				return id, nil
			}
			if !errors.Is(err, model.ErrDocumentExists) {
				span.RecordError(err)
				return "", fmt.Errorf("storing document: %w", err)
			}
		}

		metrics.IDCollisions.Inc()
		retries++
		if retries > g.maxRetries {
			g.logger.Warn("id space exhausted",
				zap.Int("retries", retries),
				zap.Int("id_length", g.idLength),
			)
			return "", model.ErrIDSpaceExhausted
		}
		g.logger.Debug("document id collision", zap.String("doc_id", id), zap.Int("retries", retries))
	}
}

// Get returns the document stored under id.
//
// An expired document is deleted, every record under its ID, and reported
// as model.ErrDocumentExpired. A document whose deadline equals the current
// second is still readable.
func (g *Gateway) Get(ctx context.Context, id string) (*model.Document, error) {
	ctx, span := tracer.Start(ctx, "gateway.Get")
	defer span.End()
	span.SetAttributes(attribute.String("doc_id", id))

	if !util.ValidateID(id) {
		metrics.DocumentReads.WithLabelValues(metrics.ReadNotFound).Inc()
		return nil, model.ErrInvalidDocumentID
	}

	doc, err := g.store.FindDocument(ctx, id)
	if errors.Is(err, model.ErrDocumentNotFound) {
		metrics.DocumentReads.WithLabelValues(metrics.ReadNotFound).Inc()
		return nil, err
	}
	if err != nil {
		metrics.DocumentReads.WithLabelValues(metrics.ReadError).Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("reading document: %w", err)
	}

	if doc.IsExpiredAt(g.now()) {
		metrics.DocumentReads.WithLabelValues(metrics.ReadExpired).Inc()
		n, err := g.store.DeleteDocuments(ctx, id)
		if err != nil {
			// The read is still answered as expired; the next read retries the delete.
			g.logger.Warn("deleting expired document failed", zap.String("doc_id", id), zap.Error(err))
		} else {
			g.logger.Debug("expired document deleted", zap.String("doc_id", id), zap.Int64("records", n))
		}
		return nil, model.ErrDocumentExpired
	}

	metrics.DocumentReads.WithLabelValues(metrics.ReadFound).Inc()
	return doc, nil
}

// Ping reports whether the backing store is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.store.Ping(ctx)
}
