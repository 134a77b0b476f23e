package pages

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/report"
)

// detectionSample is a standardized malignant example the form is prefilled with.
var detectionSample = map[string]float64{
	"radius_mean":             1.0970639814699839,
	"texture_mean":            -2.073335014697587,
	"perimeter_mean":          1.2699336881399386,
	"area_mean":               0.9843749048031144,
	"smoothness_mean":         1.5684663292434209,
	"compactness_mean":        3.2835146709868286,
	"concavity_mean":          2.652873983743169,
	"concave_points_mean":     2.5324752164032427,
	"symmetry_mean":           2.2175150059646422,
	"fractal_dimension_mean":  2.255746885296271,
	"radius_se":               2.489733926737622,
	"texture_se":              -0.565265059068463,
	"perimeter_se":            2.833030865855181,
	"area_se":                 2.4875775569611034,
	"smoothness_se":           -0.21400164666895338,
	"compactness_se":          1.3168615683959486,
	"concavity_se":            0.7240261580803589,
	"concave_points_se":       0.6608199414286064,
	"symmetry_se":             1.1487566671861764,
	"fractal_dimension_se":    0.907083080997336,
	"radius_worst":            1.8866896251792775,
	"texture_worst":           -1.3592934737640852,
	"perimeter_worst":         2.303600623622561,
	"area_worst":              2.0012374893299203,
	"smoothness_worst":        1.3076862710715433,
	"compactness_worst":       2.616665023512604,
	"concavity_worst":         2.1095263465722556,
	"concave_points_worst":    2.29607612756179,
	"symmetry_worst":          2.750622244124958,
	"fractal_dimension_worst": 1.937014612378176,
}

func detectionFields() form.Fields {
	fields := make(form.Fields, 0, len(backend.DetectionFeatures))
	for _, name := range backend.DetectionFeatures {
		fields = append(fields, form.Field{
			Key:     name,
			Label:   form.LabelFromKey(name),
			Kind:    form.Numeric,
			Default: strconv.FormatFloat(detectionSample[name], 'g', -1, 64),
		})
	}
	return fields
}

// DetectionResult is the clinical classification card.
type DetectionResult struct {
	Malignant   bool   `json:"malignant"`
	Verdict     string `json:"verdict"`
	Probability string `json:"probability"`
	Threshold   string `json:"threshold"`
	Advice      string `json:"advice"`
	Color       string `json:"color"`
}

// Detect classifies a tumor from 30 standardized cell-nucleus measurements.
var Detect = register(&Definition{
	ID:       "detect",
	Title:    "Breast Cancer Detection",
	Subtitle: "The form is prefilled with standardized patient values. Modify them to test predictions.",
	Action:   "Predict",
	Fields:   detectionFields(),
	Submit:   submitDetection,
})

// DetectionPayload maps the 30 feature fields to their request body, in registry order.
func DetectionPayload(s form.State) (backend.DetectionRequest, error) {
	features := make(backend.Object, 0, len(backend.DetectionFeatures))
	for _, name := range backend.DetectionFeatures {
		v, err := s.Float(name)
		if err != nil {
			return backend.DetectionRequest{}, fmt.Errorf("build detection payload: %w", err)
		}
		features = append(features, backend.Pair{Key: name, Value: v})
	}
	return backend.DetectionRequest{Features: features}, nil
}

func submitDetection(ctx context.Context, env Env, _ form.Fields, s form.State, _ Submission) (any, error) {
	req, err := DetectionPayload(s)
	if err != nil {
		return nil, err
	}
	pred, err := env.Backend.DetectCancer(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewDetectionResult(*pred), nil
}

// NewDetectionResult renders a /detect-cancer prediction.
func NewDetectionResult(p backend.DetectionPrediction) DetectionResult {
	r := DetectionResult{
		Malignant:   p.Malignant(),
		Probability: report.Percent(p.Probability, 2),
		Threshold:   strconv.FormatFloat(p.ThresholdUsed, 'g', -1, 64),
	}
	if r.Malignant {
		r.Verdict = "MALIGNANT"
		r.Advice = "The model predicts malignant tumor. Please consult with oncology specialists for further evaluation and treatment planning."
		r.Color = report.ColorMalignant
	} else {
		r.Verdict = "BENIGN"
		r.Advice = "The model predicts benign tumor. Continue with standard monitoring protocols."
		r.Color = report.ColorSuccess
	}
	return r
}
