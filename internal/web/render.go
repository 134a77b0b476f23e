package web

import (
	"html/template"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/pages"
	"github.com/Skufu/harmonycare/internal/report"
)

// layoutData feeds the shared header and footer.
type layoutData struct {
	Title string
	// Path marks the active navbar entry.
	Path string
}

type homeData struct {
	layoutData
	Patients      []Card
	Professionals []Card
}

type tabLink struct {
	Label  string
	URL    string
	Active bool
}

// pageData is everything the page template needs for one instance.
type pageData struct {
	layoutData
	View   pages.View
	Groups []pages.FieldGroup
	Tabs   []tabLink
	// Action is the form target, ResetAction the "new analysis" target.
	Action      string
	ResetAction string
	Banner      string
}

func (s *Server) renderPage(c *gin.Context, status int, r route, tabName string, v pages.View, banner string) {
	data := pageData{
		layoutData:  layoutData{Title: v.Page.Title, Path: r.Path},
		View:        v,
		Groups:      v.Groups(),
		Action:      r.url(tabName),
		ResetAction: r.Path + "/reset",
		Banner:      banner,
	}
	if tabName != "" {
		data.ResetAction += "?tab=" + tabName
	}
	for _, t := range r.Tabs {
		data.Tabs = append(data.Tabs, tabLink{Label: t.Label, URL: r.url(t.Name), Active: t.Name == tabName})
	}
	c.HTML(status, "page", data)
}

// resultCard pairs a result with the page that produced it, for template dispatch.
type resultCard struct {
	Page   string
	Result any
}

// axisLabel is one labelled spoke of the radar chart.
type axisLabel struct {
	X2, Y2 string
	LX, LY string
	Label  string
}

const (
	radarCX     = 160.0
	radarCY     = 150.0
	radarRadius = 110.0
)

func radarAxes() []axisLabel {
	axes := report.RadarAxes[:len(report.RadarAxes)-1]
	out := make([]axisLabel, 0, len(axes))
	for i, name := range axes {
		x, y := report.AxisEnd(radarCX, radarCY, radarRadius, i, len(axes))
		lx, ly := report.AxisEnd(radarCX, radarCY, radarRadius+22, i, len(axes))
		out = append(out, axisLabel{X2: coord(x), Y2: coord(y), LX: coord(lx), LY: coord(ly), Label: name})
	}
	return out
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fieldData is one control with its current value and error.
type fieldData struct {
	ID    string
	Field form.Field
	Value string
	Error string
}

func control(f form.Field, p pageData) fieldData {
	return fieldData{
		ID:    fieldID(f.Key),
		Field: f,
		Value: p.View.Values[f.Key],
		Error: p.View.Errors[f.Key],
	}
}

// fieldID derives an element id from a field key. Some keys are backend column names with
// spaces in them.
func fieldID(key string) string {
	id := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}, strings.TrimSpace(key))
	return "f-" + id
}

func card(page string, r any) resultCard {
	return resultCard{Page: page, Result: r}
}

func radarPoints(r report.Radar) string {
	return r.Points(radarCX, radarCY, radarRadius)
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"card":        card,
		"control":     control,
		"fieldID":     fieldID,
		"num":         num,
		"inc":         func(i int) int { return i + 1 },
		"runes":       utf8.RuneCountInString,
		"radarAxes":   radarAxes,
		"radarPoints": radarPoints,
		"hasMax":      func(b *form.Bounds) bool { return b != nil && b.HasMax() },
		"isChoice":    func(f form.Field) bool { return f.Kind == form.Choice },
		"isText":      func(f form.Field) bool { return f.Kind == form.Text },
	}
}
