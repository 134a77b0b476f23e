package report

import "math"

// Clinical palette shared by the risk pages.
const (
	ColorSuccess   = "#2E7D32"
	ColorSecondary = "#F48FB1"
	ColorAccent    = "#AD1457"
	ColorPrimary   = "#D81B60"
	ColorMalignant = "#C62828"
	ColorNotMRI    = "#F57C00"
)

// Tier is a labelled band of a risk scale.
type Tier struct {
	Label string `json:"label"`
	Color string `json:"color"`
	// Tone is the lowercase band name used as a CSS modifier.
	Tone string `json:"tone"`
}

var (
	lowRisk      = Tier{Label: "Low Risk", Color: ColorSuccess, Tone: "low"}
	moderateRisk = Tier{Label: "Moderate Risk", Color: ColorSecondary, Tone: "moderate"}
	highRisk     = Tier{Label: "High Risk", Color: ColorAccent, Tone: "high"}
)

// RiskTier bands a hereditary risk score given in percent: below 5 is low, below 20 moderate,
// anything else high. NaN and negative scores fall in the low band.
func RiskTier(score float64) Tier {
	switch {
	case math.IsNaN(score) || score < 5:
		return lowRisk
	case score < 20:
		return moderateRisk
	default:
		return highRisk
	}
}

// RiskDisplayFactor scales the raw hereditary risk score before it is shown. The tier is
// always computed from the raw score.
const RiskDisplayFactor = 0.7

// RiskDisplay is the headline percentage of the risk page.
func RiskDisplay(score float64) string {
	return Fixed(score*RiskDisplayFactor, 2) + "%"
}

// MenopauseTier describes one menopause risk class.
type MenopauseTier struct {
	Tier
	Explanation string
}

var menopauseTiers = []MenopauseTier{
	{lowRisk, "Based on the information you provided, your risk of experiencing menopause-related complications appears to be relatively low. However, it's important to continue regular check-ups with your healthcare provider."},
	{moderateRisk, "Your assessment indicates a moderate risk level. This means you may benefit from closer monitoring and discussing preventive strategies with your healthcare provider."},
	{highRisk, "Your assessment shows a higher risk level. We strongly recommend discussing these results with your healthcare provider to develop an appropriate monitoring and management plan."},
}

// MenopauseClass returns the tier for a predicted class. Classes past 2 are treated as high.
func MenopauseClass(class int) MenopauseTier {
	switch {
	case class <= 0:
		return menopauseTiers[0]
	case class == 1:
		return menopauseTiers[1]
	default:
		return menopauseTiers[2]
	}
}

// MenopauseLabels names the probability vector entries in order.
var MenopauseLabels = []string{lowRisk.Label, moderateRisk.Label, highRisk.Label}

// Aggressivity levels as the clustering backend names them.
const (
	LevelLow    = "Faible"
	LevelMedium = "Moyenne"
	LevelHigh   = "Forte"
)

// ColorUnknownLevel is used for any level outside the known palette.
const ColorUnknownLevel = "#9E9E9E"

var levelColors = map[string]string{
	LevelLow:    "#4CAF50",
	LevelMedium: "#FF9800",
	LevelHigh:   "#F44336",
}

// LevelColor returns the palette color of an aggressivity level.
func LevelColor(level string) string {
	if c, ok := levelColors[level]; ok {
		return c
	}
	return ColorUnknownLevel
}
