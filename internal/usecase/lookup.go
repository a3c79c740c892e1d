package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/juliez0727-gif/steam2025/internal/domain"
)

// SearchByNameOrID resolves a user query to discovered-level games. A numeric
// query is treated as an app id and resolved through the details endpoint;
// anything else runs a free-text storefront search filtered by name match.
func (p *Pipeline) SearchByNameOrID(ctx context.Context, query string) ([]domain.Game, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}

	if appID, err := strconv.Atoi(query); err == nil && appID > 0 {
		return p.lookupByID(ctx, appID)
	}

	games := p.scanner.SearchByTerm(ctx, query, p.pageSize)
	needle := strings.ToLower(query)
	matched := make([]domain.Game, 0, len(games))
	for _, g := range games {
		if strings.Contains(strings.ToLower(g.Name), needle) {
			matched = append(matched, g)
		}
	}
	return matched, nil
}

func (p *Pipeline) lookupByID(ctx context.Context, appID int) ([]domain.Game, error) {
	details, err := p.details.FetchDetails(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("lookup app %d: %w", appID, err)
	}

	return []domain.Game{{
		AppID:         appID,
		Name:          details.Name,
		ReviewSummary: "Unknown",
	}}, nil
}
