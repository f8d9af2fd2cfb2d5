package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeChange(t *testing.T) {
	tests := []struct {
		name           string
		winner, loser  int
		k              int
		expectedWinner int
		expectedLoser  int
	}{{
		"equal ratings split the k-factor",
		1200, 1200, 32,
		16, -16,
	}, {
		"favorite wins",
		1400, 1200, 32,
		8, -8,
	}, {
		"underdog wins",
		1200, 1400, 32,
		24, -24,
	}, {
		"zero k-factor falls back to default",
		1200, 1200, 0,
		16, -16,
	}, {
		"custom k-factor",
		1200, 1200, 10,
		5, -5,
	}, {
		"overwhelming favorite gains nothing",
		3000, 1000, 32,
		0, 0,
	}}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			change := ComputeChange(test.winner, test.loser, test.k)
			assert.Equal(t, test.expectedWinner, change.WinnerDelta)
			assert.Equal(t, test.expectedLoser, change.LoserDelta)
		})
	}
}

func TestComputeChangeSigns(t *testing.T) {
	for w := 0; w <= 3000; w += 75 {
		for l := 0; l <= 3000; l += 75 {
			change := ComputeChange(w, l, DefaultKFactor)
			if change.WinnerDelta < 0 {
				t.Errorf("winner delta for %d vs %d is negative: %d", w, l, change.WinnerDelta)
			}
			if change.LoserDelta > 0 {
				t.Errorf("loser delta for %d vs %d is positive: %d", w, l, change.LoserDelta)
			}
		}
	}
}

func TestWinProbability(t *testing.T) {
	assert.Equal(t, 0.5, WinProbability(1200, 1200))
	assert.InDelta(t, 0.7597, WinProbability(1400, 1200), 0.0001)
	assert.InDelta(t, 0.2403, WinProbability(1200, 1400), 0.0001)

	pairs := [][2]int{{1200, 1200}, {1000, 1600}, {1450, 1210}, {0, 2500}, {-300, 300}}
	for _, v := range pairs {
		sum := WinProbability(v[0], v[1]) + WinProbability(v[1], v[0])
		assert.InDelta(t, 1.0, sum, 1e-12, "%d vs %d", v[0], v[1])
	}
}

func TestCompetitiveness(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int
		expected int
	}{
		{"equal", 1200, 1200, 100},
		{"at threshold", 1200, 1400, 0},
		{"past threshold", 1000, 1400, 0},
		{"halfway", 1200, 1300, 50},
		{"halfway reversed", 1300, 1200, 50},
		{"quarter", 1200, 1250, 75},
		{"seventy points", 1340, 1200, 30},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Competitiveness(test.a, test.b))
		})
	}
}

func TestCompetitivenessIsMonotonic(t *testing.T) {
	prev := Competitiveness(1200, 1200)
	for diff := 1; diff <= 250; diff++ {
		cur := Competitiveness(1200, 1200+diff)
		if cur > prev {
			t.Fatalf("competitiveness increased from %d to %d at diff %d", prev, cur, diff)
		}
		prev = cur
	}
}

func TestCompetitivenessLabel(t *testing.T) {
	tests := []struct {
		score    int
		expected Label
	}{
		{100, LabelHighlyCompetitive},
		{80, LabelHighlyCompetitive},
		{79, LabelCompetitive},
		{60, LabelCompetitive},
		{59, LabelSomewhatCompetitive},
		{40, LabelSomewhatCompetitive},
		{39, LabelLessCompetitive},
		{20, LabelLessCompetitive},
		{19, LabelNotCompetitive},
		{0, LabelNotCompetitive},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, CompetitivenessLabel(test.score), "score %d", test.score)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		in       float64
		expected int
	}{
		{7.5, 8},
		{-7.5, -7},
		{7.69, 8},
		{-7.69, -8},
		{2.4, 2},
		{-2.6, -3},
		{0.49, 0},
		{-0.49, 0},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, Round(test.in), "round(%v)", test.in)
	}
}

func TestTeamRating(t *testing.T) {
	assert.Equal(t, 1250, TeamRating(1250))
	assert.Equal(t, 1300, TeamRating(1200, 1400))
	assert.Equal(t, 1251, TeamRating(1200, 1301))
	assert.Equal(t, 0, TeamRating())
}
