package pages

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/report"
)

var infoQuestions = [backend.InfoQuestions]string{
	"Did you receive clear information about your condition?",
	"Did you receive sufficient information about necessary examinations?",
	"Did you receive information about different possible treatments?",
	"Were you informed about potential side effects?",
	"Did you receive useful written information?",
	"Were the oral information you received sufficient?",
	"Were the explanations provided clear?",
	"Was the level of detail provided satisfactory?",
	"Were you informed about possible symptoms to watch for?",
	"Were you informed about the possible evolution of your condition?",
	"Were you informed about the results of your examinations?",
	"Did you understand the explanations regarding the results?",
	"Did the information meet your expectations?",
	"Were you informed about available support services?",
	"Were you informed about psychological aspects related to the condition?",
	"Did you receive information about your rights as a patient?",
	"Did you receive information on how to manage your treatment?",
	"Were you well informed about the long-term effects of treatment?",
	"Did the information reduce your concerns?",
	"Did the information improve your overall understanding?",
	"Are you satisfied with the general information received?",
	"Was the information adapted to your personal situation?",
	"Did you receive sufficient explanations during your medical visits?",
	"Would you like to receive more information?",
	"Do you think you received too much information?",
}

// InfoKey is the form key of INFO-25 answer i, counted from 1.
func InfoKey(i int) string {
	return "INFO25_" + strconv.Itoa(i)
}

func codeOptions(codes []backend.Code) []form.Option {
	opts := make([]form.Option, 0, len(codes))
	for _, c := range codes {
		opts = append(opts, form.Option{Value: strconv.Itoa(c.Value), Label: c.Label})
	}
	return opts
}

func hadsFields() form.Fields {
	fields := form.Fields{
		{Key: "gender", Label: "Gender", Kind: form.Choice, Options: codeOptions(backend.GenderCodes)},
		{Key: "ageGroup", Label: "Age Group", Kind: form.Choice, Options: codeOptions(backend.AgeGroupCodes)},
		{Key: "ecog", Label: "ECOG Performance Status", Kind: form.Choice, Options: codeOptions(backend.ECOGCodes),
			Help: "ECOG Performance Status measures your ability to perform daily activities. 0 = Fully active, 1 = Restricted in strenuous activity, 2 = Ambulatory but unable to work, 3 = Limited self-care, 4 = Completely disabled."},
		{Key: "clinicalTrial", Label: "Clinical Trial", Kind: form.Choice, Options: codeOptions(backend.ClinicalTrialCodes),
			Help: "A clinical trial is a research study that tests new treatments or procedures. Participating in a clinical trial may affect your care and outcomes."},
		{Key: "extent", Label: "Extent of Disease", Kind: form.Choice, Options: codeOptions(backend.ExtentCodes),
			Help: "Extent of Disease indicates the stage of your breast cancer. Early breast cancer is localized, while advanced disease has spread to other parts of the body."},
		{Key: "treatment", Label: "Treatment", Kind: form.Choice, Options: codeOptions(backend.TreatmentCodes),
			Help: "Treatment type refers to when and how cancer treatment is given. Adjuvant is after surgery, Neoadjuvant is before surgery, and Palliative focuses on symptom management."},
	}
	answers := codeOptions(backend.InfoAnswerCodes)
	for i, q := range infoQuestions {
		fields = append(fields, form.Field{
			Key:     InfoKey(i + 1),
			Label:   fmt.Sprintf("%d. %s", i+1, q),
			Kind:    form.Choice,
			Options: answers,
		})
	}
	return fields
}

func hadsSections() []Section {
	info := make([]string, 0, backend.InfoQuestions)
	for i := 1; i <= backend.InfoQuestions; i++ {
		info = append(info, InfoKey(i))
	}
	return []Section{
		{Title: "Clinical Information", Keys: []string{"gender", "ageGroup", "ecog", "clinicalTrial", "extent", "treatment"}},
		{Title: "Questionnaire INFO-25", Keys: info},
	}
}

// HADSResult is the anxiety/depression card.
type HADSResult struct {
	High    bool   `json:"high"`
	Heading string `json:"heading"`
	Score   string `json:"score"`
	Message string `json:"message"`
}

// HADS screens for anxiety and depression from clinical codes and the INFO-25 questionnaire.
var HADS = register(&Definition{
	ID:       "hads",
	Title:    "HADS & INFO-25 Questionnaire",
	Subtitle: "Evaluate your mental wellbeing with our Hospital Anxiety and Depression Scale assessment tool",
	Action:   "Submit",
	Fields:   hadsFields(),
	Sections: hadsSections(),
	Submit:   submitHADS,
})

// HADSPayload decodes the coded choices and the answers into a request.
func HADSPayload(s form.State) (backend.HADSRequest, error) {
	var req backend.HADSRequest
	codes := []struct {
		key string
		set func(int)
	}{
		{"gender", func(n int) { req.Gender = backend.Gender(n) }},
		{"ageGroup", func(n int) { req.AgeGroup = backend.AgeGroup(n) }},
		{"ecog", func(n int) { req.ECOG = backend.ECOG(n) }},
		{"clinicalTrial", func(n int) { req.ClinicalTrial = backend.ClinicalTrial(n) }},
		{"extent", func(n int) { req.Extent = backend.DiseaseExtent(n) }},
		{"treatment", func(n int) { req.Treatment = backend.Treatment(n) }},
	}
	for _, c := range codes {
		n, err := s.Int(c.key)
		if err != nil {
			return req, fmt.Errorf("build hads payload: %w", err)
		}
		c.set(n)
	}
	for i := range req.Answers {
		n, err := s.Int(InfoKey(i + 1))
		if err != nil {
			return req, fmt.Errorf("build hads payload: %w", err)
		}
		req.Answers[i] = backend.InfoAnswer(n)
	}
	return req, nil
}

func submitHADS(ctx context.Context, env Env, _ form.Fields, s form.State, _ Submission) (any, error) {
	req, err := HADSPayload(s)
	if err != nil {
		return nil, err
	}
	res, err := env.Backend.PredictHADS(ctx, req)
	if err != nil {
		return nil, err
	}
	return NewHADSResult(*res), nil
}

// NewHADSResult renders a /predict_hads response. The score is the probability out of 100.
func NewHADSResult(r backend.HADSResult) HADSResult {
	out := HADSResult{
		High:  r.High(),
		Score: report.Fixed(r.Probability*100, 1),
	}
	if out.High {
		out.Heading = "HIGH Anxiety/Depression Level"
		out.Message = "Psychological support is recommended."
	} else {
		out.Heading = "NORMAL Anxiety/Depression Level"
		out.Message = "No significant signs of anxiety/depression detected."
	}
	return out
}
