// Package classify scores storefront products for domestic origin. No single
// metadata field is reliable on its own (titles get localized, publishers act
// for several regions), so the verdict is a weighted sum of independent
// signals with a strong veto for known foreign studios.
package classify

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/juliez0727-gif/steam2025/internal/domain"
	"github.com/juliez0727-gif/steam2025/internal/ports"
)

const (
	// AcceptThreshold is the minimum weighted score for acceptance.
	AcceptThreshold = 25
	// VIPScore marks titles accepted through the allow-list.
	VIPScore = 999
)

// Signal weights. Developer fields weigh more than publisher fields because
// publishers frequently operate across regions.
const (
	weightTitleHan        = 15
	weightTitleKeyword    = 25
	weightDeveloperHan    = 60
	weightPublisherHan    = 40
	weightDeveloperKnown  = 50
	weightPublisherKnown  = 35
	weightSupportEmail    = 50
	weightSupportURL      = 40
	weightNativeAudio     = 25
	weightNativeAudioOnly = 25
	vetoForeignDeveloper  = -200
	vetoForeignPublisher  = -100
)

// Full-audio support is marked in the languages markup by an asterisk
// annotation directly after the language name.
var (
	schineseAudioExpr = regexp.MustCompile(`(简体中文|Simplified Chinese)[^,<]*<strong>\*`)
	englishAudioExpr  = regexp.MustCompile(`(英语|English)[^,<]*<strong>\*`)
)

// Classifier annotates discovered games with a domestic-origin score.
type Classifier struct {
	details ports.DetailSource
	logger  *slog.Logger
}

var _ ports.Classifier = (*Classifier)(nil)

// New wires the detail source the classifier fetches metadata from.
func New(details ports.DetailSource, logger *slog.Logger) *Classifier {
	return &Classifier{details: details, logger: logger}
}

// Classify fetches the product's metadata and scores it. A fetch failure or a
// score below the threshold yields nil; the method never fails the caller.
func (c *Classifier) Classify(ctx context.Context, game domain.Game) *domain.Game {
	details, err := c.details.FetchDetails(ctx, game.AppID)
	if err != nil {
		c.debug("details unavailable", "appId", game.AppID, "error", err)
		return nil
	}

	var score int
	if IsVIP(details.Name) {
		score = VIPScore
	} else {
		score = Score(details)
		if score < AcceptThreshold {
			c.debug("rejected", "appId", game.AppID, "name", details.Name, "score", score)
			return nil
		}
	}

	accepted := game
	accepted.Developers = details.Developers
	accepted.Publishers = details.Publishers
	accepted.OriginScore = &score
	return &accepted
}

// IsVIP reports whether the localized name matches the fixed allow-list.
func IsVIP(name string) bool {
	return matchesAny(name, vipTitles)
}

// Score computes the weighted origin score, a pure function of the detail
// payload and the fixed tables.
func Score(d *domain.GameDetails) int {
	score := 0

	if containsHan(d.Name) {
		score += weightTitleHan
	}
	if matchesAny(d.Name, culturalKeywords) {
		score += weightTitleKeyword
	}

	devHan := anyContainsHan(d.Developers)
	if devHan {
		score += weightDeveloperHan
	}
	if anyContainsHan(d.Publishers) {
		score += weightPublisherHan
	}

	devKnown := anyMatches(d.Developers, knownEntities)
	if devKnown {
		score += weightDeveloperKnown
	}
	if anyMatches(d.Publishers, knownEntities) {
		score += weightPublisherKnown
	}

	mailDomestic := isDomesticEmail(d.SupportEmail)
	if mailDomestic {
		score += weightSupportEmail
	}
	if isDomesticURL(d.SupportURL) {
		score += weightSupportURL
	}

	if schineseAudioExpr.MatchString(d.SupportedLanguages) {
		score += weightNativeAudio
		if !englishAudioExpr.MatchString(d.SupportedLanguages) {
			score += weightNativeAudioOnly
		}
	}

	if anyMatches(d.Developers, foreignStudios) {
		score += vetoForeignDeveloper
	}
	if anyMatches(d.Publishers, foreignStudios) && !devHan && !devKnown && !mailDomestic {
		score += vetoForeignPublisher
	}

	return score
}

func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func anyContainsHan(values []string) bool {
	for _, v := range values {
		if containsHan(v) {
			return true
		}
	}
	return false
}

func matchesAny(s string, table []string) bool {
	lower := strings.ToLower(s)
	for _, entry := range table {
		if strings.Contains(lower, entry) {
			return true
		}
	}
	return false
}

func anyMatches(values, table []string) bool {
	for _, v := range values {
		if matchesAny(v, table) {
			return true
		}
	}
	return false
}

func isDomesticEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false
	}
	if strings.HasSuffix(email, ".cn") {
		return true
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domainPart := email[at+1:]
	for _, d := range mailDomains {
		if domainPart == d || strings.HasSuffix(domainPart, "."+d) {
			return true
		}
	}
	return false
}

func isDomesticURL(raw string) bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return false
	}
	host := raw
	if parsed, err := url.Parse(raw); err == nil && parsed.Host != "" {
		host = parsed.Host
	}
	if strings.HasSuffix(host, ".cn") || strings.Contains(host, ".cn:") {
		return true
	}
	for _, marker := range urlMarkers {
		if strings.Contains(host, marker) {
			return true
		}
	}
	return false
}

func (c *Classifier) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
