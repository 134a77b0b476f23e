package report

import (
	"math"
	"strconv"
	"strings"

	"github.com/Skufu/harmonycare/internal/backend"
)

// Bar is one bar of the level distribution chart.
type Bar struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`
	// Height is the bar height relative to the tallest bar, in percent.
	Height float64 `json:"height"`
}

// LevelBars builds the patient count per aggressivity level, in the order the backend listed
// the levels. A level listed twice keeps its first position and its last count.
func LevelBars(stats []backend.ClusterStat) []Bar {
	var bars []Bar
	index := map[string]int{}
	for _, s := range stats {
		if i, ok := index[s.Level]; ok {
			bars[i].Count = s.Count
			continue
		}
		index[s.Level] = len(bars)
		bars = append(bars, Bar{Label: s.Level, Count: s.Count, Color: LevelColor(s.Level)})
	}

	peak := 0
	for _, b := range bars {
		if b.Count > peak {
			peak = b.Count
		}
	}
	for i := range bars {
		if peak > 0 {
			bars[i].Height = float64(bars[i].Count) / float64(peak) * 100
		}
	}
	return bars
}

// RadarAxes are the radar chart axes. The first axis is repeated to close the polygon.
var RadarAxes = []string{"Tumor Size", "Histologic Grade", "Lymph Nodes +", "Mutations", "NPI", "Tumor Size"}

// Normalization divisors of the radar axes.
const (
	radarTumorSize = 50
	radarGrade     = 3
	radarNodes     = 10
	radarMutations = 100
	radarNPI       = 8
)

// Radar is the closed average profile of one aggressivity level.
type Radar struct {
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	Values []float64 `json:"values"`
}

// LevelRadars builds one closed polygon per cluster level. Missing averages count as zero.
func LevelRadars(stats []backend.ClusterStat) []Radar {
	out := make([]Radar, 0, len(stats))
	for _, s := range stats {
		size := orZero(s.AvgTumorSize) / radarTumorSize
		out = append(out, Radar{
			Name:  s.Level,
			Color: LevelColor(s.Level),
			Values: []float64{
				size,
				orZero(s.AvgHistologicGrade) / radarGrade,
				orZero(s.AvgLymphNodes) / radarNodes,
				orZero(s.AvgMutationCount) / radarMutations,
				orZero(s.AvgNPI) / radarNPI,
				size,
			},
		})
	}
	return out
}

// Points lays the profile out as SVG polygon points on a chart of the given radius centred at
// (cx, cy). Values are clamped to the [0, 1] radial range. The closing vertex is dropped since
// an SVG polygon closes itself.
func (r Radar) Points(cx, cy, radius float64) string {
	vals := r.Values
	if len(vals) > 1 {
		vals = vals[:len(vals)-1]
	}
	pts := make([]string, 0, len(vals))
	for i, v := range vals {
		x, y := polar(cx, cy, radius*clamp01(v), i, len(vals))
		pts = append(pts, coord(x)+","+coord(y))
	}
	return strings.Join(pts, " ")
}

// AxisEnd returns the outer end of axis i of n.
func AxisEnd(cx, cy, radius float64, i, n int) (float64, float64) {
	return polar(cx, cy, radius, i, n)
}

func polar(cx, cy, r float64, i, n int) (float64, float64) {
	angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
	return cx + r*math.Cos(angle), cy + r*math.Sin(angle)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
