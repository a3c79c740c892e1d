package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/juliez0727-gif/steam2025/internal/config"
	"github.com/juliez0727-gif/steam2025/internal/domain"
	"github.com/juliez0727-gif/steam2025/internal/ports"
)

// Deps wires the discovery pipeline collaborators.
type Deps struct {
	Scanner    ports.PageScanner
	Details    ports.DetailSource
	Classifier ports.Classifier
	Logger     *slog.Logger
}

// Pipeline drives the two-phase discovery workflow: paginated search-page
// scanning with dedup, then chunked classification. Concurrency is bounded
// separately per phase because listing pages are cheap while each
// classification does a full detail fetch, and the relay services behind both
// are free infrastructure with unstated rate limits.
type Pipeline struct {
	scanner    ports.PageScanner
	details    ports.DetailSource
	classifier ports.Classifier
	logger     *slog.Logger

	pages          int
	pageSize       int
	discoveryWidth int
	classifyWidth  int
	groupDelay     time.Duration
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps Deps, cfg config.ScanConfig) *Pipeline {
	p := &Pipeline{
		scanner:        deps.Scanner,
		details:        deps.Details,
		classifier:     deps.Classifier,
		logger:         deps.Logger,
		pages:          cfg.Pages,
		pageSize:       cfg.PageSize,
		discoveryWidth: cfg.DiscoveryConcurrency,
		classifyWidth:  cfg.ClassifyConcurrency,
		groupDelay:     time.Duration(cfg.GroupDelayMS) * time.Millisecond,
	}
	if p.pages <= 0 {
		p.pages = 20
	}
	if p.pageSize <= 0 {
		p.pageSize = 50
	}
	if p.discoveryWidth <= 0 {
		p.discoveryWidth = 3
	}
	if p.classifyWidth <= 0 {
		p.classifyWidth = 8
	}
	return p
}

// Scan runs discovery then classification and returns accepted games sorted
// by approximate review count, descending. If a failure interrupts the run
// after some games were already validated, those are returned instead of the
// error.
func (p *Pipeline) Scan(ctx context.Context, progress func(string)) ([]domain.Game, error) {
	report := func(msg string) {
		if progress != nil {
			progress(msg)
		}
		if p.logger != nil {
			p.logger.Info(msg)
		}
	}

	candidates, err := p.discover(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("discovery: %w", err)
	}
	report(fmt.Sprintf("discovered %d unique candidates", len(candidates)))

	accepted, err := p.classifyAll(ctx, candidates, report)
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].ApproxReviewCount > accepted[j].ApproxReviewCount
	})
	if err != nil {
		if len(accepted) > 0 {
			report(fmt.Sprintf("scan interrupted; returning %d validated games", len(accepted)))
			return accepted, nil
		}
		return nil, fmt.Errorf("classification: %w", err)
	}

	report(fmt.Sprintf("scan complete: %d games validated", len(accepted)))
	return accepted, nil
}

// discover scans the fixed page budget in fixed-width groups. Within a group
// every page is issued before any is awaited; groups run strictly one after
// another with a short delay in between.
func (p *Pipeline) discover(ctx context.Context, report func(string)) ([]domain.Game, error) {
	seen := make(map[int]struct{})
	var candidates []domain.Game

	for start := 0; start < p.pages; start += p.discoveryWidth {
		if err := ctx.Err(); err != nil {
			return candidates, err
		}
		end := min(start+p.discoveryWidth, p.pages)
		report(fmt.Sprintf("scanning search pages %d-%d of %d", start+1, end, p.pages))

		results := make([][]domain.Game, end-start)
		var wg sync.WaitGroup
		for page := start; page < end; page++ {
			wg.Add(1)
			go func(slot, page int) {
				defer wg.Done()
				results[slot] = p.scanner.ScanPage(ctx, page, p.pageSize)
			}(page-start, page)
		}
		wg.Wait()

		for _, pageGames := range results {
			for _, g := range pageGames {
				if _, dup := seen[g.AppID]; dup {
					continue
				}
				seen[g.AppID] = struct{}{}
				candidates = append(candidates, g)
			}
		}

		p.pause(ctx)
	}

	return candidates, nil
}

// classifyAll runs the classifier over candidates in fixed-size chunks with
// the same fan-out/join discipline as discovery.
func (p *Pipeline) classifyAll(ctx context.Context, candidates []domain.Game, report func(string)) ([]domain.Game, error) {
	var accepted []domain.Game

	for start := 0; start < len(candidates); start += p.classifyWidth {
		if err := ctx.Err(); err != nil {
			return accepted, err
		}
		end := min(start+p.classifyWidth, len(candidates))
		report(fmt.Sprintf("classifying candidates %d-%d of %d", start+1, end, len(candidates)))

		results := make([]*domain.Game, end-start)
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(slot int, g domain.Game) {
				defer wg.Done()
				results[slot] = p.classifier.Classify(ctx, g)
			}(i-start, candidates[i])
		}
		wg.Wait()

		for _, g := range results {
			if g != nil {
				accepted = append(accepted, *g)
			}
		}

		p.pause(ctx)
	}

	return accepted, nil
}

func (p *Pipeline) pause(ctx context.Context) {
	if p.groupDelay <= 0 {
		return
	}
	timer := time.NewTimer(p.groupDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
