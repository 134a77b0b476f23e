package pages

import (
	"context"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/report"
)

// ProbabilityBar is one row of a probability breakdown.
type ProbabilityBar struct {
	Label string  `json:"label"`
	Value string  `json:"value"`
	Width float64 `json:"width"`
	Tone  string  `json:"tone"`
}

// MenopauseResult is the menopause risk card.
type MenopauseResult struct {
	Class       int              `json:"class"`
	Label       string           `json:"label"`
	Tone        string           `json:"tone"`
	Explanation string           `json:"explanation"`
	Breakdown   []ProbabilityBar `json:"breakdown"`
	NextSteps   []string         `json:"next_steps"`
}

var menopauseSteps = []string{
	"Share these results with your healthcare provider during your next appointment",
	"Discuss any concerns or questions you may have about your risk assessment",
	"Follow your healthcare provider's recommendations for monitoring and follow-up care",
	"Remember that this assessment is a tool to guide discussions with your doctor, not a definitive diagnosis",
}

var yesNo = form.Options("Yes", "No")
var posNeg = form.Options("Positive", "Negative")

// Menopause evaluates menopause-related risk. The menopausal state is fixed to "pre".
var Menopause = register(&Definition{
	ID:       "menopause",
	Title:    "Menopause Risk Evaluation",
	Subtitle: "Understand your menopause journey with personalized risk assessment and guidance",
	Action:   "Predict Risk",
	Fields: form.Fields{
		{Key: "Age at Diagnosis", Label: "Age at Diagnosis", Kind: form.Numeric},
		{Key: "Chemotherapy", Label: "Chemotherapy", Kind: form.Choice, Options: yesNo},
		{Key: "Hormone Therapy", Label: "Hormone Therapy", Kind: form.Choice, Options: yesNo},
		{Key: "Radio Therapy", Label: "Radio Therapy", Kind: form.Choice, Options: yesNo},
		{Key: "Inferred Menopausal State", Label: "Inferred Menopausal State", Kind: form.Text, Default: "pre", Fixed: true},
		{Key: "ER Status", Label: "ER Status", Kind: form.Choice, Options: posNeg,
			Help: "ER (Estrogen Receptor) Status indicates whether your cancer cells have receptors for estrogen. Positive means the cancer may respond to hormone-blocking treatments."},
		{Key: "PR Status", Label: "PR Status", Kind: form.Choice, Options: posNeg,
			Help: "PR (Progesterone Receptor) Status indicates whether your cancer cells have receptors for progesterone. Positive means the cancer may respond to hormone-blocking treatments."},
		{Key: "HER2 Status", Label: "HER2 Status", Kind: form.Choice, Options: posNeg,
			Help: "HER2 (Human Epidermal Growth Factor Receptor 2) Status indicates whether your cancer cells produce too much HER2 protein. This helps determine if targeted therapy might be effective."},
		{Key: "Neoplasm Histologic Grade", Label: "Neoplasm Histologic Grade", Kind: form.Numeric,
			Help: "This grade (1-3) describes how abnormal the cancer cells look under a microscope. Grade 1 is less aggressive, Grade 3 is more aggressive."},
		{Key: "Tumor Stage", Label: "Tumor Stage", Kind: form.Text,
			Help: "Tumor stage (often written as T1, T2, T3, or T4) describes the size of the tumor and whether it has spread to nearby tissue. Your doctor can provide your specific stage."},
		{Key: "Tumor Size", Label: "Tumor Size", Kind: form.Numeric},
		{Key: "Lymph nodes examined positive", Label: "Lymph nodes examined positive", Kind: form.Numeric},
		{Key: "Nottingham prognostic index", Label: "Nottingham prognostic index", Kind: form.Numeric,
			Help: "This is a scoring system that combines tumor size, grade, and lymph node status to help predict prognosis. Higher scores may indicate a higher risk of recurrence."},
	},
	Submit: submitMenopause,
})

// MenopausePayload copies the form strings into the request unchanged.
func MenopausePayload(s form.State) backend.MenopauseRequest {
	return backend.MenopauseRequest{
		AgeAtDiagnosis:  s.Get("Age at Diagnosis"),
		Chemotherapy:    s.Get("Chemotherapy"),
		HormoneTherapy:  s.Get("Hormone Therapy"),
		RadioTherapy:    s.Get("Radio Therapy"),
		MenopausalState: s.Get("Inferred Menopausal State"),
		ERStatus:        s.Get("ER Status"),
		PRStatus:        s.Get("PR Status"),
		HER2Status:      s.Get("HER2 Status"),
		Grade:           s.Get("Neoplasm Histologic Grade"),
		TumorStage:      s.Get("Tumor Stage"),
		TumorSize:       s.Get("Tumor Size"),
		LymphNodes:      s.Get("Lymph nodes examined positive"),
		NPI:             s.Get("Nottingham prognostic index"),
	}
}

func submitMenopause(ctx context.Context, env Env, _ form.Fields, s form.State, _ Submission) (any, error) {
	pred, err := env.Backend.PredictMenopause(ctx, MenopausePayload(s))
	if err != nil {
		return nil, err
	}
	return NewMenopauseResult(*pred), nil
}

// NewMenopauseResult renders a /predict-menopause-risk prediction.
func NewMenopauseResult(p backend.MenopausePrediction) MenopauseResult {
	tier := report.MenopauseClass(p.Prediction)
	r := MenopauseResult{
		Class:       p.Prediction,
		Label:       tier.Label,
		Tone:        tier.Tone,
		Explanation: tier.Explanation,
		NextSteps:   menopauseSteps,
	}
	for i, label := range report.MenopauseLabels {
		if i >= len(p.Probabilities) {
			break
		}
		r.Breakdown = append(r.Breakdown, ProbabilityBar{
			Label: label,
			Value: report.Percent(p.Probabilities[i], 1),
			Width: report.Width(p.Probabilities[i]),
			Tone:  report.MenopauseClass(i).Tone,
		})
	}
	return r
}
