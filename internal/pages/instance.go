package pages

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Skufu/harmonycare/internal/backend"
	"github.com/Skufu/harmonycare/internal/form"
)

// Phase is the lifecycle state of a page instance.
type Phase int

const (
	Idle Phase = iota
	Validating
	Submitting
	Success
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Validating:
		return "validating"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

var (
	// ErrInFlight is returned when a submit or reset arrives while a submit is still running.
	ErrInFlight = errors.New("a submission is already in progress")
	// ErrInvalid is returned when the form fails validation. The field errors are in the view.
	ErrInvalid = errors.New("the form has invalid fields")
)

// Submission is one submit of a page: the posted field values and, for the image page, the
// uploaded file.
type Submission struct {
	Values map[string]string
	Upload *backend.ImageUpload
}

// View is a point-in-time copy of an instance, safe to render without holding its lock.
type View struct {
	Page    *Definition
	Phase   Phase
	Fields  form.Fields
	Values  form.State
	Errors  form.Errors
	Result  any
	Failure string
	// Previous is the last successful result, kept visible after a failed submit.
	Previous any
}

// Busy reports whether a submit is running.
func (v View) Busy() bool {
	return v.Phase == Submitting || v.Phase == Validating
}

// Instance is one page as seen by one session. All methods are safe for concurrent use; the
// backend call runs outside the lock.
type Instance struct {
	def *Definition

	mu       sync.Mutex
	mounted  bool
	fields   form.Fields
	defaults form.State
	state    form.State
	errs     form.Errors
	phase    Phase
	result   any
	last     any
	failure  string
	seq      uint64
}

// NewInstance creates an idle instance holding the page defaults.
func NewInstance(def *Definition) *Instance {
	return &Instance{
		def:      def,
		fields:   def.Fields,
		defaults: def.Fields.Defaults(),
		state:    def.Fields.Defaults(),
		errs:     form.Errors{},
	}
}

// Definition returns the page the instance renders.
func (in *Instance) Definition() *Definition {
	return in.def
}

// Mount runs the page's mount hook, such as loading backend option lists. Once the hook has
// succeeded later calls are no-ops. A failing hook leaves the static registry in place and the
// next call tries again.
func (in *Instance) Mount(ctx context.Context, env Env) {
	in.mu.Lock()
	if in.mounted || in.def.Mount == nil {
		in.mounted = true
		in.mu.Unlock()
		return
	}
	in.mounted = true
	in.mu.Unlock()

	fields, err := in.def.Mount(ctx, env, in.def.Fields)
	if err != nil {
		env.logger().Warn("page mount failed", zap.String("page", in.def.ID), zap.Error(err))
		in.mu.Lock()
		in.mounted = false
		in.mu.Unlock()
		return
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	in.fields = fields
	in.defaults = fields.Defaults()
	if in.phase == Idle && in.result == nil && in.last == nil {
		for k, v := range in.defaults {
			if in.state[k] == "" {
				in.state[k] = v
			}
		}
	}
}

// View returns a snapshot of the instance.
func (in *Instance) View() View {
	in.mu.Lock()
	defer in.mu.Unlock()
	v := View{
		Page:    in.def,
		Phase:   in.phase,
		Fields:  in.fields,
		Values:  in.state.Clone(),
		Errors:  make(form.Errors, len(in.errs)),
		Result:  in.result,
		Failure: in.failure,
	}
	for k, msg := range in.errs {
		v.Errors[k] = msg
	}
	if in.phase == Failed {
		v.Previous = in.last
	}
	return v
}

// Edit records changed field values without submitting. Each changed field loses its error.
func (in *Instance) Edit(values map[string]string) []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return form.Apply(in.fields, in.state, in.errs, values)
}

// Submit validates the submission and, when it is valid, calls the backend and records the
// outcome. The backend call is detached from ctx's cancellation so that a request already sent
// always completes and lands in the instance.
func (in *Instance) Submit(ctx context.Context, env Env, sub Submission) error {
	in.mu.Lock()
	if in.phase == Submitting || in.phase == Validating {
		in.mu.Unlock()
		return ErrInFlight
	}
	in.phase = Validating
	form.Apply(in.fields, in.state, in.errs, sub.Values)
	errs := form.Validate(in.fields, in.state)
	if in.def.Check != nil {
		for k, msg := range in.def.Check(in.state, sub) {
			if _, ok := errs[k]; !ok {
				errs[k] = msg
			}
		}
	}
	in.errs = errs
	if !errs.OK() {
		in.phase = Idle
		in.mu.Unlock()
		return ErrInvalid
	}

	in.phase = Submitting
	in.result = nil
	in.failure = ""
	in.seq++
	seq := in.seq
	fields, state := in.fields, in.state.Clone()
	in.mu.Unlock()

	res, err := in.def.Submit(context.WithoutCancel(ctx), env, fields, state, sub)

	in.mu.Lock()
	defer in.mu.Unlock()
	if seq != in.seq {
		return nil
	}
	if err != nil {
		in.phase = Failed
		in.failure = in.def.failureMessage(err)
		env.logger().Warn("page submit failed", zap.String("page", in.def.ID), zap.Error(err))
		return fmt.Errorf("%s: %w", in.def.ID, err)
	}
	in.phase = Success
	in.result = res
	in.last = res
	return nil
}

// Reset starts a new analysis: defaults come back, errors and results are cleared. It is
// refused while a submit is running.
func (in *Instance) Reset() error {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.phase == Submitting || in.phase == Validating {
		return ErrInFlight
	}
	in.state = in.defaults.Clone()
	in.errs = form.Errors{}
	in.phase = Idle
	in.result = nil
	in.last = nil
	in.failure = ""
	in.seq++
	return nil
}
