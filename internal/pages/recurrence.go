package pages

import (
	"context"
	"fmt"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/report"
)

// RecurrenceResult is the five-year recurrence card.
type RecurrenceResult struct {
	Recurs      bool     `json:"recurs"`
	Heading     string   `json:"heading"`
	Probability string   `json:"probability"`
	Width       float64  `json:"width"`
	Narrative   string   `json:"narrative"`
	NextSteps   []string `json:"next_steps"`
}

var (
	recurrenceSteps = []string{
		"Schedule a consultation with your oncology team to review these results",
		"Discuss enhanced surveillance and monitoring protocols",
		"Consider additional diagnostic tests or imaging as recommended",
		"Review and potentially adjust your treatment plan with your healthcare provider",
	}
	noRecurrenceSteps = []string{
		"Continue with regular follow-up appointments as scheduled",
		"Maintain your current surveillance and monitoring protocols",
		"Keep all scheduled check-ups and imaging studies",
		"Discuss any concerns or changes in your condition with your healthcare team",
	}
)

// Recurrence predicts cancer recurrence from SEER demographic and staging fields. Keys are the
// backend column names.
var Recurrence = register(&Definition{
	ID:       "recurrence",
	Title:    "Recurrence Prediction",
	Subtitle: "Advanced predictive model to assess cancer recurrence risk based on clinical and pathological factors",
	Action:   "Predict Recurrence",
	Fields: form.Fields{
		{Key: "Age", Label: "Age", Kind: form.Numeric, Bounds: form.AtLeast(0)},
		{Key: "Race ", Label: "Race", Kind: form.Choice, Options: []form.Option{
			{Value: "Black", Label: "Black"},
			{Value: "Other", Label: "Other (American Indian/AK Native, Asian/Pacific Islander)"},
			{Value: "White", Label: "White"},
		}},
		{Key: "Marital Status", Label: "Marital Status", Kind: form.Choice, Options: []form.Option{
			{Value: "Divorced", Label: "Divorced"},
			{Value: "Married", Label: "Married (including common law)"},
			{Value: "Single", Label: "Single (never married)"},
			{Value: "Widowed", Label: "Widowed"},
		}},
		{Key: "T Stage ", Label: "T Stage", Kind: form.Choice, Options: form.Options("T1", "T2", "T3", "T4")},
		{Key: "N Stage", Label: "N Stage", Kind: form.Choice, Options: form.Options("N1", "N2", "N3")},
		{Key: "6th Stage", Label: "6th Stage", Kind: form.Choice, Options: form.Options("IIA", "IIB", "IIIA", "IIIB", "IIIC")},
		{Key: "Grade", Label: "Grade", Kind: form.Choice, Options: form.Options(
			"Moderately differentiated; Grade II",
			"Poorly differentiated; Grade III",
			"Well differentiated; Grade I",
		)},
		{Key: "A Stage", Label: "A Stage", Kind: form.Choice, Options: form.Options("Distant", "Regional")},
		{Key: "Tumor Size", Label: "Tumor Size", Kind: form.Numeric, Bounds: form.AtLeast(0)},
		{Key: "Estrogen Status", Label: "Estrogen Status", Kind: form.Choice, Options: form.Options("Negative", "Positive")},
		{Key: "Progesterone Status", Label: "Progesterone Status", Kind: form.Choice, Options: form.Options("Negative", "Positive")},
		{Key: "Regional Node Examined", Label: "Regional Node Examined", Kind: form.Numeric, Bounds: form.AtLeast(0)},
		{Key: "Reginol Node Positive", Label: "Regional Node Positive", Kind: form.Numeric, Bounds: form.AtLeast(0)},
	},
	Submit: submitRecurrence,
})

// RecurrencePayload copies the form strings into the request unchanged.
func RecurrencePayload(s form.State) backend.RecurrenceRequest {
	return backend.RecurrenceRequest{
		Age:                  s.Get("Age"),
		Race:                 s.Get("Race "),
		MaritalStatus:        s.Get("Marital Status"),
		TStage:               s.Get("T Stage "),
		NStage:               s.Get("N Stage"),
		SixthStage:           s.Get("6th Stage"),
		Grade:                s.Get("Grade"),
		AStage:               s.Get("A Stage"),
		TumorSize:            s.Get("Tumor Size"),
		EstrogenStatus:       s.Get("Estrogen Status"),
		ProgesteroneStatus:   s.Get("Progesterone Status"),
		RegionalNodeExamined: s.Get("Regional Node Examined"),
		RegionalNodePositive: s.Get("Reginol Node Positive"),
	}
}

func submitRecurrence(ctx context.Context, env Env, _ form.Fields, s form.State, _ Submission) (any, error) {
	pred, err := env.Backend.PredictRecurrence(ctx, RecurrencePayload(s))
	if err != nil {
		return nil, err
	}
	return NewRecurrenceResult(*pred), nil
}

// NewRecurrenceResult renders a /predict-recurrence prediction.
func NewRecurrenceResult(p backend.RecurrencePrediction) RecurrenceResult {
	prob := report.Percent(p.Probability, 2)
	r := RecurrenceResult{
		Recurs:      p.Recurs(),
		Probability: prob,
		Width:       report.Width(p.Probability),
	}
	lead := fmt.Sprintf("Based on the clinical and pathological factors provided, the model predicts a %s probability of cancer recurrence.", prob)
	if r.Recurs {
		r.Heading = "Recurrence Detected"
		r.Narrative = lead + " This indicates a higher risk that requires close monitoring and follow-up care. Please discuss these results with your oncology team to develop an appropriate surveillance and treatment plan."
		r.NextSteps = recurrenceSteps
	} else {
		r.Heading = "No Recurrence"
		r.Narrative = lead + " This indicates a lower risk, but regular follow-up appointments and monitoring are still important for your ongoing care. Continue with your scheduled check-ups as recommended by your healthcare team."
		r.NextSteps = noRecurrenceSteps
	}
	return r
}
