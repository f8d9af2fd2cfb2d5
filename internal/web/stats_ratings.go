package web

import (
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"tennistinder/internal/back"

	"github.com/go-chi/chi"
	"github.com/wcharczuk/go-chart"
	"github.com/wcharczuk/go-chart/drawing"
)

// ratingsBinWidth is the width of a histogram bar, in rating points.
const ratingsBinWidth = 50

// statsRatings renders the rating distribution of a group as an SVG bar chart.
func (s *Server) statsRatings(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { log.Printf("debug: computed ratings stats in %s", time.Since(start)) }()

	group, err := back.ParseGroup(chi.URLParam(r, "group"))
	if err != nil {
		s.error(w, err)
		return
	}

	players, err := s.back.ListPlayers(r.Context(), group)
	if err != nil {
		s.error(w, err)
		return
	}

	if len(players) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	bars, maxValue := getRatingsBars(players, chart.Style{
		FontColor:   drawing.ColorBlack,
		FillColor:   drawing.ColorFromHex("2e7d32"),
		StrokeColor: drawing.ColorFromHex("1b5e20"),
		StrokeWidth: 1,
	})

	graph := chart.BarChart{
		Height: 300,
		Width:  600,
		Canvas: chart.Style{FillColor: chart.ColorTransparent},
		Background: chart.Style{
			FillColor: chart.ColorTransparent,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: maxValue},
			Ticks: []chart.Tick{
				{Value: 0},
				{Value: maxValue},
			},
		},
		Bars: bars,
	}
	graph.BarWidth = (graph.Width - (len(bars) * graph.BarSpacing)) / len(bars)

	s.cache(w, "public", 5*time.Minute)
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := graph.Render(chart.SVG, w); err != nil {
		log.Printf("error: unable to render ratings chart: %s", err)
	}
}

// getRatingsBars returns the share of players in each rating bin, empty bins
// between the lowest and highest ones included, and the highest share.
func getRatingsBars(players []back.Player, barStyle chart.Style) ([]chart.Value, float64) {
	bins := make(map[int]int, 20)
	minBin, maxBin := math.MaxInt64, math.MinInt64
	maxCount := 0

	for _, v := range players {
		bin := int(math.Round(float64(v.Rating)/ratingsBinWidth)) * ratingsBinWidth
		bins[bin]++
		if bin < minBin {
			minBin = bin
		}
		if bin > maxBin {
			maxBin = bin
		}

		if bins[bin] > maxCount {
			maxCount = bins[bin]
		}
	}

	total := float64(len(players))
	bars := make([]chart.Value, 0, len(bins))
	for i := minBin; i <= maxBin; i += ratingsBinWidth {
		bars = append(bars, chart.Value{
			Value: float64(bins[i]) / total,
			Label: strconv.Itoa(i),
			Style: barStyle,
		})
	}

	return bars, float64(maxCount) / total
}
