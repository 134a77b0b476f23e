package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/form"
	"github.com/Skufu/harmonycare/internal/pages"
)

const (
	msgInFlight     = "An analysis is already running. Please wait for it to finish."
	msgTooLarge     = "The upload is too large."
	msgBadSubmitted = "The submitted form could not be read."
)

var errUploadTooLarge = errors.New("upload exceeds the size limit")

// statusFor maps the outcome of a submit to its HTTP status.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, pages.ErrInvalid), backend.IsKind(err, backend.Domain):
		return http.StatusUnprocessableEntity
	case errors.Is(err, pages.ErrInFlight):
		return http.StatusConflict
	case errors.As(err, &tooLarge), errors.Is(err, errUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case backend.IsKind(err, backend.Transport), backend.IsKind(err, backend.Status), backend.IsKind(err, backend.Malformed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// readFailure maps a request parsing failure to its status and banner.
func readFailure(err error) (int, string) {
	if statusFor(err) == http.StatusRequestEntityTooLarge {
		return http.StatusRequestEntityTooLarge, msgTooLarge
	}
	return http.StatusBadRequest, msgBadSubmitted
}

// instance returns the session's instance for the requested tab of r, mounted.
func (s *Server) instance(c *gin.Context, r route) (*pages.Instance, string) {
	def, key, tabName := r.resolve(c.Query("tab"))
	in := sessionOf(c).Instance(key, def)
	in.Mount(c.Request.Context(), s.env)
	return in, tabName
}

// readSubmission reads the posted values, from JSON or from a url-encoded or multipart form.
// The returned cleanup releases any uploaded file and must be called once the submit is done.
func (s *Server) readSubmission(c *gin.Context) (pages.Submission, func(), error) {
	noop := func() {}
	if c.ContentType() == gin.MIMEJSON {
		values, err := decodeValues(c.Request.Body)
		return pages.Submission{Values: values}, noop, err
	}

	req := c.Request
	if err := req.ParseMultipartForm(s.maxUpload); err != nil {
		if !errors.Is(err, http.ErrNotMultipart) {
			return pages.Submission{}, noop, err
		}
		if err := req.ParseForm(); err != nil {
			return pages.Submission{}, noop, err
		}
		return pages.Submission{Values: firstValues(req.PostForm)}, noop, nil
	}

	sub := pages.Submission{Values: firstValues(req.PostForm)}
	cleanup := func() {
		if err := req.MultipartForm.RemoveAll(); err != nil {
			s.logger.Warn("remove multipart files", zap.Error(err))
		}
	}
	file, header, err := req.FormFile(pages.ImageField)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return sub, cleanup, nil
	case err != nil:
		return sub, cleanup, err
	case header.Size > s.maxUpload:
		file.Close()
		return sub, cleanup, fmt.Errorf("%s: %d bytes: %w", header.Filename, header.Size, errUploadTooLarge)
	}
	sub.Upload = &backend.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	}
	return sub, func() {
		file.Close()
		cleanup()
	}, nil
}

func firstValues(vals url.Values) map[string]string {
	out := make(map[string]string, len(vals))
	for k, v := range vals {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}

// decodeValues reads a flat JSON object. Numbers keep their literal text so that they are
// validated exactly like form input; booleans become "true" or "false" and null is empty.
func decodeValues(body io.Reader) (map[string]string, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("decode values: %w", err)
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = v
		case json.Number:
			out[k] = v.String()
		case bool:
			out[k] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("decode values: field %q is not a scalar", k)
		}
	}
	return out, nil
}

func (s *Server) handleHome(c *gin.Context) {
	c.HTML(http.StatusOK, "home", homeData{
		layoutData:    layoutData{Title: "Home", Path: "/"},
		Patients:      patientCards,
		Professionals: professionalCards,
	})
}

func (s *Server) handlePage(c *gin.Context, r route) {
	in, tabName := s.instance(c, r)
	s.renderPage(c, http.StatusOK, r, tabName, in.View(), "")
}

func (s *Server) handleSubmit(c *gin.Context, r route) {
	in, tabName := s.instance(c, r)
	sub, cleanup, err := s.readSubmission(c)
	defer cleanup()
	if err != nil {
		s.logger.Info("unreadable submission", zap.String("path", r.Path), zap.Error(err))
		status, banner := readFailure(err)
		s.renderPage(c, status, r, tabName, in.View(), banner)
		return
	}

	err = in.Submit(c.Request.Context(), s.env, sub)
	banner := ""
	if errors.Is(err, pages.ErrInFlight) {
		banner = msgInFlight
	}
	s.renderPage(c, statusFor(err), r, tabName, in.View(), banner)
}

func (s *Server) handleReset(c *gin.Context, r route) {
	in, tabName := s.instance(c, r)
	if err := in.Reset(); err != nil {
		s.renderPage(c, statusFor(err), r, tabName, in.View(), msgInFlight)
		return
	}
	c.Redirect(http.StatusSeeOther, r.url(tabName))
}

// apiState is the JSON rendition of a page instance.
type apiState struct {
	Page     string      `json:"page"`
	Tab      string      `json:"tab,omitempty"`
	Phase    string      `json:"phase"`
	Values   form.State  `json:"values"`
	Errors   form.Errors `json:"errors,omitempty"`
	Result   any         `json:"result,omitempty"`
	Previous any         `json:"previous,omitempty"`
	Failure  string      `json:"failure,omitempty"`
	Error    string      `json:"error,omitempty"`
	Changed  []string    `json:"changed,omitempty"`
}

func newAPIState(v pages.View, tabName string) apiState {
	return apiState{
		Page:     v.Page.ID,
		Tab:      tabName,
		Phase:    v.Phase.String(),
		Values:   v.Values,
		Errors:   v.Errors,
		Result:   v.Result,
		Previous: v.Previous,
		Failure:  v.Failure,
	}
}

func (s *Server) apiView(c *gin.Context, r route) {
	in, tabName := s.instance(c, r)
	c.JSON(http.StatusOK, newAPIState(in.View(), tabName))
}

func (s *Server) apiSubmit(c *gin.Context, r route) {
	in, tabName := s.instance(c, r)
	sub, cleanup, err := s.readSubmission(c)
	defer cleanup()
	if err != nil {
		status, msg := readFailure(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	err = in.Submit(c.Request.Context(), s.env, sub)
	state := newAPIState(in.View(), tabName)
	if errors.Is(err, pages.ErrInFlight) {
		state.Error = msgInFlight
	}
	c.JSON(statusFor(err), state)
}

func (s *Server) apiEdit(c *gin.Context, r route) {
	in, tabName := s.instance(c, r)
	values, err := decodeValues(c.Request.Body)
	if err != nil {
		status, msg := readFailure(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	changed := in.Edit(values)
	state := newAPIState(in.View(), tabName)
	state.Changed = changed
	c.JSON(http.StatusOK, state)
}

func (s *Server) apiReset(c *gin.Context, r route) {
	in, tabName := s.instance(c, r)
	if err := in.Reset(); err != nil {
		state := newAPIState(in.View(), tabName)
		state.Error = msgInFlight
		c.JSON(statusFor(err), state)
		return
	}
	c.JSON(http.StatusOK, newAPIState(in.View(), tabName))
}
