// Package server exposes the discovery pipeline as a small JSON API. The
// browser dashboard is an external consumer; nothing here renders.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/juliez0727-gif/steam2025/internal/domain"
	"github.com/juliez0727-gif/steam2025/internal/ports"
)

const (
	defaultReviewLimit = 100
	reportReviewLimit  = 300
	dateLayout         = "2006-01-02"
)

// GameFinder is the server's view of the discovery pipeline.
type GameFinder interface {
	Scan(ctx context.Context, progress func(string)) ([]domain.Game, error)
	SearchByNameOrID(ctx context.Context, query string) ([]domain.Game, error)
}

// Server handles the consumer-facing API.
type Server struct {
	finder     GameFinder
	reviews    ports.ReviewSource
	summarizer ports.Summarizer
	logger     *slog.Logger
}

// New wires the pipeline and its collaborators into the API surface.
func New(finder GameFinder, reviews ports.ReviewSource, summarizer ports.Summarizer, logger *slog.Logger) *Server {
	return &Server{
		finder:     finder,
		reviews:    reviews,
		summarizer: summarizer,
		logger:     logger,
	}
}

// Router registers all routes and the middleware stack.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/scan", s.handleScan)
		r.Get("/games/search", s.handleSearch)
		r.Get("/games/{appID}/reviews", s.handleReviews)
		r.Post("/games/{appID}/report", s.handleReport)
	})

	return r
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	games, err := s.finder.Scan(r.Context(), func(msg string) {
		s.logger.Info("scan progress", "message", msg)
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(games),
		"games": games,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeErrorMessage(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	games, err := s.finder.SearchByNameOrID(r.Context(), query)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(games),
		"games": games,
	})
}

func (s *Server) handleReviews(w http.ResponseWriter, r *http.Request) {
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}

	limit := defaultReviewLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			writeErrorMessage(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	reviews, err := s.reviews.FetchReviews(r.Context(), appID, limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(reviews),
		"reviews": reviews,
	})
}

type reportRequest struct {
	GameName         string  `json:"gameName"`
	Limit            int     `json:"limit"`
	MinPlaytimeHours float64 `json:"minPlaytimeHours"`
	MaxPlaytimeHours float64 `json:"maxPlaytimeHours"`
	StartDate        string  `json:"startDate"`
	EndDate          string  `json:"endDate"`
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	appID, ok := parseAppID(w, r)
	if !ok {
		return
	}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	filter, err := buildFilter(req)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = reportReviewLimit
	}

	reviews, err := s.reviews.FetchReviews(r.Context(), appID, limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	filtered := make([]domain.Review, 0, len(reviews))
	for _, rev := range reviews {
		if filter.Matches(rev) {
			filtered = append(filtered, rev)
		}
	}
	if len(filtered) == 0 {
		writeErrorMessage(w, http.StatusUnprocessableEntity, "no reviews match the filter")
		return
	}

	report, err := s.summarizer.Summarize(r.Context(), req.GameName, filtered)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"reviewsUsed": len(filtered),
		"report":      report,
	})
}

func buildFilter(req reportRequest) (domain.ReviewFilter, error) {
	filter := domain.ReviewFilter{
		MinPlaytimeHours: req.MinPlaytimeHours,
		MaxPlaytimeHours: req.MaxPlaytimeHours,
	}
	if filter.MaxPlaytimeHours <= 0 {
		filter.MaxPlaytimeHours = 1e9
	}

	// Absent date bounds stay open.
	filter.EndDate = time.Date(2999, time.December, 31, 0, 0, 0, 0, time.UTC)
	if req.StartDate != "" {
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			return domain.ReviewFilter{}, fmt.Errorf("invalid startDate: %w", err)
		}
		filter.StartDate = start
	}
	if req.EndDate != "" {
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			return domain.ReviewFilter{}, fmt.Errorf("invalid endDate: %w", err)
		}
		filter.EndDate = end
	}

	return filter, nil
}

func parseAppID(w http.ResponseWriter, r *http.Request) (int, bool) {
	appID, err := strconv.Atoi(chi.URLParam(r, "appID"))
	if err != nil || appID <= 0 {
		writeErrorMessage(w, http.StatusBadRequest, "invalid app id")
		return 0, false
	}
	return appID, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeErrorMessage(w, status, err.Error())
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(started).Round(time.Millisecond),
		)
	})
}
