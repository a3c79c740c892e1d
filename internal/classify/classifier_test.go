package classify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juliez0727-gif/steam2025/internal/domain"
)

type stubDetails struct {
	details *domain.GameDetails
	err     error
	calls   int
}

func (s *stubDetails) FetchDetails(_ context.Context, _ int) (*domain.GameDetails, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.details, nil
}

func TestScoreDomesticDeveloper(t *testing.T) {
	t.Parallel()

	d := &domain.GameDetails{
		Name:       "Sword of the Fallen",
		Developers: []string{"青瓷工作室"},
	}

	score := Score(d)
	assert.GreaterOrEqual(t, score, 60)
	assert.GreaterOrEqual(t, score, AcceptThreshold)
}

func TestScoreForeignDeveloperVeto(t *testing.T) {
	t.Parallel()

	d := &domain.GameDetails{
		Name:       "仙侠 Chronicles",
		Developers: []string{"FromSoftware Inc."},
		Publishers: []string{"FromSoftware Inc."},
	}

	score := Score(d)
	assert.Less(t, score, AcceptThreshold, "foreign studio veto must dominate cultural keywords")
}

func TestScorePublisherPenaltyRequiresNoDomesticSignals(t *testing.T) {
	t.Parallel()

	// Foreign publisher but a domestic developer: no publisher penalty.
	withDomesticDev := &domain.GameDetails{
		Developers: []string{"烛龙"},
		Publishers: []string{"Bandai Namco"},
	}
	assert.GreaterOrEqual(t, Score(withDomesticDev), 60)

	// Foreign publisher and nothing domestic anywhere: penalty applies.
	bare := &domain.GameDetails{
		Developers: []string{"Some Studio"},
		Publishers: []string{"Bandai Namco"},
	}
	assert.Less(t, Score(bare), 0)
}

func TestScoreSupportContacts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 50, Score(&domain.GameDetails{SupportEmail: "help@qq.com"}))
	assert.Equal(t, 50, Score(&domain.GameDetails{SupportEmail: "gm@studio.com.cn"}))
	assert.Equal(t, 40, Score(&domain.GameDetails{SupportURL: "https://game.example.cn/support"}))
	assert.Equal(t, 0, Score(&domain.GameDetails{SupportEmail: "help@gmail.com", SupportURL: "https://example.com"}))
}

func TestScoreAudioSignals(t *testing.T) {
	t.Parallel()

	both := &domain.GameDetails{
		SupportedLanguages: "简体中文<strong>*</strong>, English<strong>*</strong><br><strong>*</strong>languages with full audio support",
	}
	assert.Equal(t, 25, Score(both))

	nativeOnly := &domain.GameDetails{
		SupportedLanguages: "简体中文<strong>*</strong>, English<br><strong>*</strong>languages with full audio support",
	}
	assert.Equal(t, 50, Score(nativeOnly))

	textOnly := &domain.GameDetails{
		SupportedLanguages: "简体中文, English",
	}
	assert.Equal(t, 0, Score(textOnly))
}

func TestScoreIsIdempotent(t *testing.T) {
	t.Parallel()

	d := &domain.GameDetails{
		Name:               "古剑奇谭",
		Developers:         []string{"上海烛龙"},
		Publishers:         []string{"Gamera Games"},
		SupportEmail:       "support@163.com",
		SupportedLanguages: "简体中文<strong>*</strong>",
	}

	first := Score(d)
	second := Score(d)
	assert.Equal(t, first, second)
}

func TestClassifyAnnotatesAcceptedGame(t *testing.T) {
	t.Parallel()

	stub := &stubDetails{details: &domain.GameDetails{
		Name:       "群星战纪",
		Developers: []string{"星辰游戏"},
		Publishers: []string{"Star Publishing"},
	}}

	game := domain.Game{AppID: 77, Name: "Star Saga", ApproxReviewCount: 5000}
	got := New(stub, nil).Classify(context.Background(), game)

	require.NotNil(t, got)
	require.NotNil(t, got.OriginScore)
	assert.GreaterOrEqual(t, *got.OriginScore, AcceptThreshold)
	assert.Equal(t, []string{"星辰游戏"}, got.Developers)
	assert.Equal(t, []string{"Star Publishing"}, got.Publishers)
	assert.Equal(t, 77, got.AppID)
	assert.Equal(t, 5000, got.ApproxReviewCount)
}

func TestClassifyVIPOverride(t *testing.T) {
	t.Parallel()

	stub := &stubDetails{details: &domain.GameDetails{
		Name:       "Black Myth: Wukong",
		Developers: []string{"Unknown Studio"},
	}}

	got := New(stub, nil).Classify(context.Background(), domain.Game{AppID: 1})

	require.NotNil(t, got)
	require.NotNil(t, got.OriginScore)
	assert.Equal(t, VIPScore, *got.OriginScore)
}

func TestClassifyRejectsBelowThreshold(t *testing.T) {
	t.Parallel()

	stub := &stubDetails{details: &domain.GameDetails{
		Name:       "Plain Western Game",
		Developers: []string{"Plain Studio"},
	}}

	assert.Nil(t, New(stub, nil).Classify(context.Background(), domain.Game{AppID: 2}))
}

func TestClassifyNilOnFetchFailure(t *testing.T) {
	t.Parallel()

	stub := &stubDetails{err: errors.New("all relays failed")}
	assert.Nil(t, New(stub, nil).Classify(context.Background(), domain.Game{AppID: 3}))
}
