package ports

import (
	"context"

	"github.com/juliez0727-gif/steam2025/internal/domain"
)

// Relay fetches a target URL through third-party proxy services, trying each
// configured service in order. The result is parsed JSON when the payload
// parses as JSON, otherwise the raw body text. When tolerateNotFound is set, a
// proxied 404 yields an empty payload instead of failing the attempt.
type Relay interface {
	Fetch(ctx context.Context, targetURL string, tolerateNotFound bool) (any, error)
}

// PageScanner extracts discovered-level games from storefront search listings.
// Both methods degrade to an empty slice on failure.
type PageScanner interface {
	ScanPage(ctx context.Context, pageIndex, pageSize int) []domain.Game
	SearchByTerm(ctx context.Context, term string, pageSize int) []domain.Game
}

// DetailSource fetches per-product metadata used for classification and lookup.
type DetailSource interface {
	FetchDetails(ctx context.Context, appID int) (*domain.GameDetails, error)
}

// Classifier decides whether a discovered game is of domestic origin. A nil
// result means rejected or unclassifiable; a non-nil result carries the
// developers, publishers and origin score.
type Classifier interface {
	Classify(ctx context.Context, game domain.Game) *domain.Game
}

// ReviewSource pages through a product's review feed up to a requested count.
type ReviewSource interface {
	FetchReviews(ctx context.Context, appID, limit int) ([]domain.Review, error)
}

// Summarizer turns a bounded review sample into a structured sentiment report.
type Summarizer interface {
	Summarize(ctx context.Context, gameName string, reviews []domain.Review) (domain.Report, error)
}
