package web

import (
	"bytes"
	"html/template"
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/pages"
	"github.com/Skufu/harmonycare/internal/report"
)

func ptr(v float64) *float64 { return &v }

func TestResultTemplatesRender(t *testing.T) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(assets, "assets/templates/*.html")
	require.NoError(t, err)

	stats := []backend.ClusterStat{
		{Level: "Faible", Count: 120, AvgTumorSize: ptr(18.2), AvgNPI: ptr(3.2)},
		{Level: "Forte", Count: 80, AvgTumorSize: ptr(41.5), AvgNPI: ptr(5.9)},
	}
	cases := []struct {
		page   string
		result any
		want   []string
	}{
		{"detect", pages.NewDetectionResult(backend.DetectionPrediction{Probability: 0.82, ThresholdUsed: 0.5, Prediction: "Malignant"}),
			[]string{"MALIGNANT", "82.00%", "threshold 0.5"}},
		{"image", pages.NewImageResult(backend.ImageResult{Label: backend.LabelNonMRI, Recommendation: "Upload an **MRI**."}),
			[]string{"not recognized as a breast MRI", "<strong>MRI</strong>"}},
		{"recurrence", pages.NewRecurrenceResult(backend.RecurrencePrediction{Prediction: 1, Probability: 0.64}),
			[]string{"Recurrence Detected", "Recommended Next Steps"}},
		{"menopause", pages.NewMenopauseResult(backend.MenopausePrediction{Prediction: 2, Probabilities: []float64{0.1, 0.25, 0.65}}),
			[]string{"Detailed Probability Breakdown", "65.0%"}},
		{"hads", pages.NewHADSResult(backend.HADSResult{HighPred: 1, Probability: 0.731}),
			[]string{"HADS Score (out of 100)", "73.1"}},
		{"aggressivity", pages.AggressivityResult{
			Level:   "Forte",
			Color:   report.LevelColor("Forte"),
			Bars:    report.LevelBars(stats),
			Radars:  report.LevelRadars(stats),
			TopRisk: []pages.PatientRow{{PatientID: "MB-0420", Level: "Forte", Color: report.LevelColor("Forte")}},
			Counts:  []backend.ClusterCount{{CancerType: "Invasive Ductal Carcinoma", Level: "Forte", Count: 61}},
		}, []string{"MB-0420", "<polygon points=", "Mutations", "Invasive Ductal Carcinoma"}},
		{"contact", pages.ContactResult{Message: "Thanks"}, []string{"Thanks"}},
	}
	for _, tc := range cases {
		t.Run(tc.page, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, tmpl.ExecuteTemplate(&buf, "result", card(tc.page, tc.result)))
			for _, w := range tc.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestRadarAxesSkipTheClosingAxis(t *testing.T) {
	axes := radarAxes()
	require.Len(t, axes, len(report.RadarAxes)-1)
	assert.Equal(t, "Tumor Size", axes[0].Label)
	// The first spoke points straight up.
	assert.Equal(t, coord(radarCX), axes[0].X2)
	assert.Equal(t, coord(radarCY-radarRadius), axes[0].Y2)
}

// app.js clears an inline error by walking from the edited control up to its ".field" wrapper
// and removing "has-error" and the ".error" message inside it.
func TestFieldErrorMarkupMatchesScript(t *testing.T) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(assets, "assets/templates/*.html")
	require.NoError(t, err)

	fields := []form.Field{
		{Key: "age", Label: "Age", Kind: form.Numeric, Bounds: &form.Bounds{Min: 18, Max: 100, Step: 1}},
		{Key: "alcohol", Label: "Alcohol", Kind: form.Choice, Options: form.Options("0", "1")},
		{Key: "message", Label: "Message", Kind: form.Text, MaxLength: 500, Rows: 5},
	}
	for _, f := range fields {
		t.Run(f.Key, func(t *testing.T) {
			var buf bytes.Buffer
			data := fieldData{ID: fieldID(f.Key), Field: f, Value: "", Error: form.MsgRequired}
			require.NoError(t, tmpl.ExecuteTemplate(&buf, "field", data))
			out := buf.String()

			require.True(t, strings.HasPrefix(out, `<div class="field has-error">`), out)
			control := strings.Index(out, `id="`+fieldID(f.Key)+`"`)
			msg := strings.Index(out, `<span class="error">`+form.MsgRequired+`</span>`)
			require.Positive(t, control)
			require.Greater(t, msg, control)
			// Both sit inside the one wrapper.
			assert.Equal(t, 1, strings.Count(out, "</div>"))
			assert.True(t, strings.HasSuffix(strings.TrimSpace(out), "</div>"))

			buf.Reset()
			data.Error = ""
			require.NoError(t, tmpl.ExecuteTemplate(&buf, "field", data))
			assert.NotContains(t, buf.String(), "has-error")
			assert.NotContains(t, buf.String(), `class="error"`)
		})
	}

	script, err := fs.ReadFile(assets, "assets/static/app.js")
	require.NoError(t, err)
	for _, hook := range []string{`closest(".field")`, `classList.remove("has-error")`, `querySelector(".error")`, `addEventListener("change", onInput)`} {
		assert.Contains(t, string(script), hook)
	}
}
