package pages

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/report"
)

// DefaultTopRiskN is the number of top-risk patients requested when Env.TopRiskN is unset.
const DefaultTopRiskN = 10

const cancerTypeKey = "cancerType"

// PatientRow is one table row of a patient record, formatted for display. Absent columns are
// empty.
type PatientRow struct {
	PatientID     string `json:"patient_id"`
	CancerType    string `json:"cancer_type"`
	Age           string `json:"age"`
	TumorSize     string `json:"tumor_size"`
	Grade         string `json:"grade"`
	LymphNodes    string `json:"lymph_nodes"`
	MutationCount string `json:"mutation_count"`
	NPI           string `json:"npi"`
	Level         string `json:"level"`
	Color         string `json:"color"`
}

// AggressivityResult is the clustering card with its charts and tables. It only exists when all
// five backend calls succeeded.
type AggressivityResult struct {
	Level      string                 `json:"level"`
	Tone       string                 `json:"tone"`
	Color      string                 `json:"color"`
	Cluster    int                    `json:"cluster"`
	Confidence string                 `json:"confidence"`
	Bars       []report.Bar           `json:"bars"`
	Radars     []report.Radar         `json:"radars"`
	Patients   int                    `json:"patients"`
	TopRisk    []PatientRow           `json:"top_risk"`
	Counts     []backend.ClusterCount `json:"counts"`
}

// Aggressivity clusters a tumor into an aggressivity level and shows where the cohort sits.
var Aggressivity = register(&Definition{
	ID:       "aggressivity",
	Title:    "Tumor Aggressivity Clustering",
	Subtitle: "Advanced clustering analysis to classify tumor aggressivity based on clinical and pathological factors",
	Action:   "Analyze Aggressivity",
	Fields: form.Fields{
		{Key: cancerTypeKey, Label: "Cancer Type", Kind: form.Choice,
			Help: "Select the type of cancer from the available options in the database."},
		{Key: "tumorSize", Label: "Tumor Size (mm)", Kind: form.Numeric, Bounds: &form.Bounds{Min: 0, Max: 300, Step: 0.1},
			Help: "Tumor size measured in millimeters. This is a key factor in determining aggressivity."},
		{Key: "histologicGrade", Label: "Histologic Grade", Kind: form.Numeric, Bounds: &form.Bounds{Min: 1, Max: 3, Step: 1},
			Help: "Histologic grade (1-3) describes how abnormal the cancer cells look. Grade 1 is well-differentiated (less aggressive), Grade 3 is poorly differentiated (more aggressive)."},
		{Key: "lymphNodes", Label: "Positive Lymph Nodes", Kind: form.Numeric, Bounds: &form.Bounds{Min: 0, Max: 50, Step: 1},
			Help: "Number of positive lymph nodes examined. Higher numbers may indicate more advanced disease."},
		{Key: "mutationCount", Label: "Mutation Count", Kind: form.Numeric, Bounds: &form.Bounds{Min: 0, Max: 1000, Step: 1},
			Help: "Total number of genetic mutations identified. Higher mutation counts can correlate with increased tumor aggressivity."},
		{Key: "npi", Label: "Nottingham Prognostic Index (NPI)", Kind: form.Numeric, Bounds: &form.Bounds{Min: 2, Max: 8, Step: 0.01},
			Help: "Nottingham Prognostic Index (NPI) is calculated as: [0.2 × tumor size] + histologic grade + lymph node status. It helps predict prognosis."},
	},
	Mount:  mountAggressivity,
	Submit: submitAggressivity,
})

// mountAggressivity loads the cancer types. The first one becomes the default selection.
func mountAggressivity(ctx context.Context, env Env, fields form.Fields) (form.Fields, error) {
	types, err := env.Backend.CancerTypes(ctx)
	if err != nil {
		return nil, err
	}
	out := fields.WithOptions(cancerTypeKey, form.Options(types...))
	if len(types) > 0 {
		for i := range out {
			if out[i].Key == cancerTypeKey {
				out[i].Default = types[0]
			}
		}
	}
	return out, nil
}

// AggressivityPayload maps the form to /predictAgressivity. Integer fields truncate as
// parseInt does.
func AggressivityPayload(s form.State) (backend.AggressivityRequest, error) {
	req := backend.AggressivityRequest{CancerType: s.Get(cancerTypeKey)}
	var err error
	if req.TumorSize, err = s.Float("tumorSize"); err != nil {
		return req, fmt.Errorf("build aggressivity payload: %w", err)
	}
	if req.Grade, err = s.Int("histologicGrade"); err != nil {
		return req, fmt.Errorf("build aggressivity payload: %w", err)
	}
	if req.LymphNodes, err = s.Int("lymphNodes"); err != nil {
		return req, fmt.Errorf("build aggressivity payload: %w", err)
	}
	if req.MutationCount, err = s.Int("mutationCount"); err != nil {
		return req, fmt.Errorf("build aggressivity payload: %w", err)
	}
	if req.NPI, err = s.Float("npi"); err != nil {
		return req, fmt.Errorf("build aggressivity payload: %w", err)
	}
	return req, nil
}

// submitAggressivity runs the five calls concurrently. The first failure cancels the rest and
// fails the whole analysis.
func submitAggressivity(ctx context.Context, env Env, _ form.Fields, s form.State, _ Submission) (any, error) {
	req, err := AggressivityPayload(s)
	if err != nil {
		return nil, err
	}
	n := env.TopRiskN
	if n <= 0 {
		n = DefaultTopRiskN
	}

	var (
		patients []backend.PatientRecord
		stats    []backend.ClusterStat
		counts   []backend.ClusterCount
		top      []backend.PatientRecord
		pred     *backend.AggressivityResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		patients, err = env.Backend.Patients(gctx)
		return err
	})
	g.Go(func() (err error) {
		stats, err = env.Backend.ClusterStats(gctx)
		return err
	})
	g.Go(func() (err error) {
		counts, err = env.Backend.ClusterCounts(gctx)
		return err
	})
	g.Go(func() (err error) {
		top, err = env.Backend.TopRisk(gctx, n)
		return err
	})
	g.Go(func() (err error) {
		pred, err = env.Backend.PredictAggressivity(gctx, req)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]PatientRow, 0, len(top))
	for _, p := range top {
		rows = append(rows, NewPatientRow(p))
	}
	return AggressivityResult{
		Level:      pred.Level,
		Tone:       strings.ToLower(pred.Level),
		Color:      report.LevelColor(pred.Level),
		Cluster:    pred.Cluster,
		Confidence: report.Percent(pred.Confidence, 1),
		Bars:       report.LevelBars(stats),
		Radars:     report.LevelRadars(stats),
		Patients:   len(patients),
		TopRisk:    rows,
		Counts:     counts,
	}, nil
}

// NewPatientRow formats a patient record for the tables.
func NewPatientRow(p backend.PatientRecord) PatientRow {
	return PatientRow{
		PatientID:     p.PatientID,
		CancerType:    p.CancerType,
		Age:           cell(p.Age),
		TumorSize:     cell(p.TumorSize),
		Grade:         cell(p.Grade),
		LymphNodes:    cell(p.LymphNodes),
		MutationCount: cell(p.MutationCount),
		NPI:           cell(p.NPI),
		Level:         p.Level,
		Color:         report.LevelColor(p.Level),
	}
}

func cell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
