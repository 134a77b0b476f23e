package pages

import (
	"context"
	"fmt"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/report"
)

var noYes = []form.Option{{Value: "0", Label: "No"}, {Value: "1", Label: "Yes"}}

// RiskResult is the hereditary risk card.
type RiskResult struct {
	RawScore float64         `json:"risk_score_percent"`
	Display  string          `json:"display"`
	Tier     report.Tier     `json:"tier"`
	Factors  []report.Factor `json:"factors"`
}

// Risk is the breast cancer risk model page.
var Risk = register(&Definition{
	ID:       "risk",
	Title:    "Breast Cancer Risk Assessment",
	Subtitle: "Estimate your hereditary breast cancer risk from lifestyle, reproductive and genetic factors",
	Action:   "Calculate Risk Assessment",
	Fields: form.Fields{
		{Key: "age", Label: "Age (years)", Kind: form.Numeric, Bounds: &form.Bounds{Min: 18, Max: 100, Step: 1}, Default: "35",
			Help: "Your current age in years. Age is a significant risk factor for breast cancer, with risk increasing after 40."},
		{Key: "residence_location", Label: "Residence Location", Kind: form.Choice, Default: "0",
			Options: []form.Option{{Value: "0", Label: "Urban Area"}, {Value: "1", Label: "Rural Area"}},
			Help:    "Your place of residence. Geographic and environmental factors may influence cancer risk assessment."},
		{Key: "alcohol_intake", Label: "Alcohol Intake", Kind: form.Choice, Default: "0", Options: noYes,
			Help: "Regular alcohol consumption. Studies show moderate to high alcohol intake increases breast cancer risk."},
		{Key: "smoking_status", Label: "Smoking Status", Kind: form.Choice, Default: "0",
			Options: []form.Option{{Value: "0", Label: "Non-smoker"}, {Value: "1", Label: "Smoker"}},
			Help:    "Current smoking status. Smoking is a modifiable risk factor affecting overall health and cancer risk."},
		{Key: "family_history_of_breast_cancer", Label: "Family History of Breast Cancer", Kind: form.Choice, Default: "0", Options: noYes,
			Help: "CRITICAL: Family history of breast cancer in first-degree relatives (mother, sister, daughter) is a major risk factor."},
		{Key: "number_of_children", Label: "Number of Children", Kind: form.Numeric, Bounds: &form.Bounds{Min: 0, Max: 20, Step: 1}, Default: "1",
			Help: "Total number of children. Pregnancy and childbearing history affects hormonal and breast cancer risk."},
		{Key: "age_at_menarche", Label: "Age at Menarche", Kind: form.Numeric, Bounds: &form.Bounds{Min: 8, Max: 20, Step: 1}, Default: "13",
			Help: "Age when your first menstrual period occurred. Earlier menarche increases lifetime estrogen exposure."},
		{Key: "menopausal_status", Label: "Menopausal Status", Kind: form.Choice, Default: "0",
			Options: []form.Option{{Value: "0", Label: "Pre-menopausal"}, {Value: "1", Label: "Post-menopausal"}},
			Help:    "Whether you have gone through menopause. Menopausal status affects hormonal profile and risk."},
		{Key: "hormone_replacement_therapy_use", Label: "Hormone Replacement Therapy", Kind: form.Choice, Default: "0", Options: noYes,
			Help: "Current or past use of hormone replacement therapy. HRT use can increase breast cancer risk."},
		{Key: "oral_contraceptive_use", Label: "Oral Contraceptive Use", Kind: form.Choice, Default: "0", Options: noYes,
			Help: "Current or past use of birth control pills. Oral contraceptives may slightly increase risk."},
		{Key: "genetic_mutation", Label: "Known Genetic Mutation", Kind: form.Choice, Default: "NONE", Options: form.Options("NONE", "BRCA1", "BRCA2", "OTHERS"),
			Help: "Known genetic mutations (BRCA1/BRCA2). These mutations significantly increase hereditary cancer risk."},
	},
	Submit: submitRisk,
})

// RiskPayload maps the risk form to its request body.
func RiskPayload(s form.State) (backend.RiskRequest, error) {
	req := backend.RiskRequest{GeneticMutation: s.Get("genetic_mutation")}
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"age", &req.Age},
		{"residence_location", &req.ResidenceLocation},
		{"alcohol_intake", &req.AlcoholIntake},
		{"smoking_status", &req.SmokingStatus},
		{"family_history_of_breast_cancer", &req.FamilyHistory},
		{"number_of_children", &req.NumberOfChildren},
		{"age_at_menarche", &req.AgeAtMenarche},
		{"menopausal_status", &req.MenopausalStatus},
		{"hormone_replacement_therapy_use", &req.HormoneReplacement},
		{"oral_contraceptive_use", &req.OralContraceptive},
	} {
		n, err := s.Int(f.key)
		if err != nil {
			return req, fmt.Errorf("build risk payload: %w", err)
		}
		*f.dst = n
	}
	return req, nil
}

func submitRisk(ctx context.Context, env Env, _ form.Fields, s form.State, _ Submission) (any, error) {
	req, err := RiskPayload(s)
	if err != nil {
		return nil, err
	}
	pred, err := env.Backend.PredictRisk(ctx, req)
	if err != nil {
		return nil, err
	}
	return RiskResult{
		RawScore: pred.RiskScorePercent,
		Display:  report.RiskDisplay(pred.RiskScorePercent),
		Tier:     report.RiskTier(pred.RiskScorePercent),
		Factors:  report.Factors(pred.TopFeatures),
	}, nil
}
