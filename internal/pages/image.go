package pages

import (
	"context"
	"html/template"
	"strings"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/report"
)

// ImageField is the multipart field and error key of the upload.
const ImageField = "image"

// MsgNoImage is shown when the image form is submitted without a file.
const MsgNoImage = "Please select a breast MRI image."

// ImageResult is the image analysis card. NotMRI selects the "not recognized" branch; the
// verdict fields are empty in that branch.
type ImageResult struct {
	NotMRI         bool          `json:"not_mri"`
	Malignant      bool          `json:"malignant"`
	Verdict        string        `json:"verdict,omitempty"`
	Classification string        `json:"classification,omitempty"`
	Probability    string        `json:"probability,omitempty"`
	Recommendation template.HTML `json:"recommendation"`
	Warning        template.HTML `json:"warning"`
	Color          string        `json:"color"`
}

// Image classifies an uploaded breast MRI.
var Image = register(&Definition{
	ID:        "image",
	Title:     "Medical Image Analysis",
	Subtitle:  "Upload a breast MRI image for AI-powered classification and diagnostic insights",
	Action:    "Analyze Image",
	Multipart: true,
	Check:     checkImage,
	Submit:    submitImage,
})

func checkImage(_ form.State, sub Submission) form.Errors {
	if sub.Upload == nil || sub.Upload.Body == nil || strings.TrimSpace(sub.Upload.Filename) == "" {
		return form.Errors{ImageField: MsgNoImage}
	}
	return nil
}

func submitImage(ctx context.Context, env Env, _ form.Fields, _ form.State, sub Submission) (any, error) {
	res, err := env.Backend.PredictImage(ctx, *sub.Upload)
	if err != nil {
		return nil, err
	}
	return NewImageResult(*res), nil
}

// NewImageResult renders a /predict response.
func NewImageResult(r backend.ImageResult) ImageResult {
	out := ImageResult{
		Recommendation: report.Narrative(r.Recommendation),
		Warning:        report.Narrative(r.Warning),
	}
	switch r.Label {
	case backend.LabelNonMRI:
		out.NotMRI = true
		out.Color = report.ColorNotMRI
		return out
	case backend.LabelMalignant:
		out.Malignant = true
		out.Verdict = "MALIGNANT"
		out.Classification = "Malignant (Suspicious)"
		out.Color = report.ColorMalignant
	default:
		out.Verdict = "BENIGN"
		out.Classification = "Benign"
		out.Color = report.ColorSuccess
	}
	if r.Probability != nil {
		out.Probability = report.Percent(*r.Probability, 2)
	}
	return out
}
