package web

import (
	"github.com/Skufu/harmonycare/internal/pages"
)

// tab is one of several page instances hosted on a single route.
type tab struct {
	Name  string
	Label string
	Def   *pages.Definition
}

// route maps a browser path to its page. A route with tabs hosts one instance per tab, selected
// with ?tab=; the first tab is the default.
type route struct {
	Path string
	Def  *pages.Definition
	Tabs []tab
}

var routes = []route{
	{Path: "/risk", Def: pages.Risk},
	{Path: "/detect", Def: pages.Detect},
	{Path: "/cancer-detection", Tabs: []tab{
		{Name: "clinical", Label: "Clinical Data Analysis", Def: pages.Detect},
		{Name: "image", Label: "Medical Image Analysis", Def: pages.Image},
	}},
	{Path: "/recurrence", Def: pages.Recurrence},
	{Path: "/menopause", Def: pages.Menopause},
	{Path: "/aggressivity", Def: pages.Aggressivity},
	{Path: "/detect-image", Def: pages.Image},
	{Path: "/hads", Def: pages.HADS},
	{Path: "/contact", Def: pages.Contact},
}

// resolve picks the page and the session instance key for the requested tab. Unknown tabs fall
// back to the first one.
func (r route) resolve(tabName string) (*pages.Definition, string, string) {
	if len(r.Tabs) == 0 {
		return r.Def, r.Path, ""
	}
	t := r.Tabs[0]
	for _, candidate := range r.Tabs {
		if candidate.Name == tabName {
			t = candidate
		}
	}
	return t.Def, r.Path + "/" + t.Name, t.Name
}

// url returns the route path with its tab selector.
func (r route) url(tabName string) string {
	if tabName == "" {
		return r.Path
	}
	return r.Path + "?tab=" + tabName
}

// Card links a home page section to a page.
type Card struct {
	Title       string
	Description string
	Path        string
}

var (
	patientCards = []Card{
		{"HADS Psychological Assessment", "Evaluate your mental wellbeing with our Hospital Anxiety and Depression Scale assessment tool", "/hads"},
		{"Menopause Risk Evaluation", "Understand your menopause journey with personalized risk assessment and guidance", "/menopause"},
		{"Breast Cancer Risk Model", "Advanced risk prediction model to help you understand and manage your breast health", "/risk"},
	}
	professionalCards = []Card{
		{"Tumor Classification", "Advanced AI-powered tools for breast cancer classification using clinical data analysis or medical image analysis", "/cancer-detection"},
		{"Recurrence Prediction", "Predictive models for cancer recurrence risk assessment", "/recurrence"},
		{"Tumor Aggressivity Clustering", "Advanced clustering analysis for tumor classification", "/aggressivity"},
	}
)
