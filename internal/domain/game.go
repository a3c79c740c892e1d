package domain

// Game is a storefront product. A discovered game carries the listing fields
// only; Developers, Publishers and OriginScore appear once classification
// accepts it.
type Game struct {
	AppID             int      `json:"appId"`
	Name              string   `json:"name"`
	LogoURL           string   `json:"logoUrl"`
	ReleaseDate       string   `json:"releaseDate"`
	ApproxReviewCount int      `json:"approxReviewCount"`
	ReviewSummary     string   `json:"reviewSummary"`
	Developers        []string `json:"developers,omitempty"`
	Publishers        []string `json:"publishers,omitempty"`
	OriginScore       *int     `json:"originScore,omitempty"`
}

// GameDetails is the per-product metadata the classifier scores. The
// SupportedLanguages field keeps the storefront's raw markup; audio support is
// encoded there as annotations next to each language name.
type GameDetails struct {
	Name               string
	Developers         []string
	Publishers         []string
	SupportEmail       string
	SupportURL         string
	SupportedLanguages string
}

// Report is the structured sentiment summary produced by the LLM backend.
type Report struct {
	Summary         string   `json:"summary"`
	PositivePoints  []string `json:"positivePoints"`
	NegativePoints  []string `json:"negativePoints"`
	TechnicalIssues []string `json:"technicalIssues"`
	Verdict         string   `json:"verdict"`
	SentimentScore  int      `json:"sentimentScore"`
}
