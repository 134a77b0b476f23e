// Package pages defines the Form-Submit-Render pages of the site and the per-session page
// instance that drives one of them through validation, submission and rendering.
package pages

import (
	"context"

	"go.uber.org/zap"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/inbox"
)

// Env carries the collaborators a page needs to submit.
type Env struct {
	Backend  *backend.Client
	Inbox    inbox.Store
	Logger   *zap.Logger
	TopRiskN int
}

func (e Env) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// SubmitFunc maps a validated form to a backend call and returns the page's result view.
type SubmitFunc func(ctx context.Context, env Env, fields form.Fields, state form.State, sub Submission) (any, error)

// MountFunc adjusts the registry when an instance is first shown.
type MountFunc func(ctx context.Context, env Env, fields form.Fields) (form.Fields, error)

// CheckFunc reports errors the field registry cannot express.
type CheckFunc func(state form.State, sub Submission) form.Errors

// Section groups consecutive fields under a heading.
type Section struct {
	Title string
	Keys  []string
}

// Definition is the static description of one page.
type Definition struct {
	ID       string
	Title    string
	Subtitle string
	// Action labels the submit button.
	Action string
	Fields form.Fields
	// Sections is optional; without it the fields render as one block.
	Sections []Section
	// Multipart pages post a file instead of plain fields.
	Multipart bool

	Mount  MountFunc
	Check  CheckFunc
	Submit SubmitFunc
	// Failure overrides the message shown when Submit fails.
	Failure func(error) string
}

func (d *Definition) failureMessage(err error) string {
	if d.Failure != nil {
		return d.Failure(err)
	}
	return backend.UserMessage(err)
}

// FieldGroup is a titled run of fields ready to render.
type FieldGroup struct {
	Title  string
	Fields form.Fields
}

// Groups lays the view's fields out by the page sections.
func (v View) Groups() []FieldGroup {
	if len(v.Page.Sections) == 0 {
		return []FieldGroup{{Fields: v.Fields}}
	}
	groups := make([]FieldGroup, 0, len(v.Page.Sections))
	for _, s := range v.Page.Sections {
		g := FieldGroup{Title: s.Title}
		for _, k := range s.Keys {
			if f, ok := v.Fields.Lookup(k); ok {
				g.Fields = append(g.Fields, f)
			}
		}
		groups = append(groups, g)
	}
	return groups
}

var registry = map[string]*Definition{}

func register(d *Definition) *Definition {
	registry[d.ID] = d
	return d
}

// Lookup returns the page registered under id.
func Lookup(id string) (*Definition, bool) {
	d, ok := registry[id]
	return d, ok
}
