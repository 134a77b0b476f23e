package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tumorFields() Fields {
	return Fields{
		{Key: "tumorSize", Label: "Tumor Size (mm)", Kind: Numeric, Bounds: &Bounds{Min: 0, Max: 300, Step: 0.1}},
		{Key: "grade", Label: "Histologic Grade", Kind: Numeric, Bounds: &Bounds{Min: 1, Max: 3, Step: 1}},
		{Key: "status", Label: "ER Status", Kind: Choice, Options: Options("Positive", "Negative")},
		{Key: "stage", Label: "Tumor Stage", Kind: Text},
	}
}

func validState() State {
	return State{"tumorSize": "25", "grade": "2", "status": "Positive", "stage": "2"}
}

func TestValidateAcceptsInclusiveBounds(t *testing.T) {
	fields := tumorFields()
	for _, v := range []string{"0", "300", "150.5"} {
		s := validState()
		s["tumorSize"] = v
		assert.Empty(t, Validate(fields, s), "value %s", v)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	fields := tumorFields()
	for _, v := range []string{"-0.1", "300.01", "abc", "NaN"} {
		s := validState()
		s["tumorSize"] = v
		errs := Validate(fields, s)
		assert.Equal(t, "Value must be between 0 and 300", errs["tumorSize"], "value %s", v)
		assert.Len(t, errs, 1)
	}
}

func TestValidateRequiredRegardlessOfKind(t *testing.T) {
	fields := tumorFields()
	errs := Validate(fields, State{"tumorSize": " ", "grade": "", "status": "", "stage": ""})
	require.Len(t, errs, 4)
	for _, k := range fields.Keys() {
		assert.Equal(t, MsgRequired, errs[k])
	}
}

func TestValidateZeroIsPresent(t *testing.T) {
	s := validState()
	s["tumorSize"] = "0"
	assert.True(t, Validate(tumorFields(), s).OK())
}

func TestValidateUnknownChoice(t *testing.T) {
	s := validState()
	s["status"] = "Maybe"
	assert.Equal(t, Errors{"status": MsgInvalidChoice}, Validate(tumorFields(), s))
}

func TestValidateIsDeterministic(t *testing.T) {
	s := State{"tumorSize": "999", "grade": "", "status": "Positive", "stage": "x"}
	first := Validate(tumorFields(), s)
	second := Validate(tumorFields(), s)
	assert.Equal(t, first, second)
	assert.Equal(t, State{"tumorSize": "999", "grade": "", "status": "Positive", "stage": "x"}, s)
}

func TestApplyClearsOnlyChangedFieldErrors(t *testing.T) {
	fields := tumorFields()
	state := State{"tumorSize": "999", "grade": "", "status": "Positive", "stage": ""}
	errs := Validate(fields, state)
	require.Len(t, errs, 3)

	changed := Apply(fields, state, errs, map[string]string{"tumorSize": "20", "grade": "", "status": "Positive"})

	assert.Equal(t, []string{"tumorSize"}, changed)
	assert.NotContains(t, errs, "tumorSize")
	assert.Equal(t, MsgRequired, errs["grade"])
	assert.Equal(t, MsgRequired, errs["stage"])
	assert.Equal(t, "20", state["tumorSize"])
}

func TestApplyKeepsFixedDefault(t *testing.T) {
	fields := Fields{{Key: "state", Kind: Text, Default: "pre", Fixed: true}}
	state := fields.Defaults()
	Apply(fields, state, Errors{}, map[string]string{"state": "post"})
	assert.Equal(t, "pre", state["state"])
}

func TestDefaultsAreIndependent(t *testing.T) {
	fields := Fields{{Key: "age", Kind: Numeric, Default: "35"}}
	a := fields.Defaults()
	a["age"] = "40"
	assert.Equal(t, "35", fields.Defaults()["age"])
}

func TestStateInt(t *testing.T) {
	s := State{"a": "3", "b": "2.9", "c": "x", "d": "1e3", "e": "-7.5", "f": "+12abc", "g": "-"}
	cases := map[string]int{"a": 3, "b": 2, "d": 1, "e": -7, "f": 12}
	for key, want := range cases {
		n, err := s.Int(key)
		require.NoError(t, err, key)
		assert.Equal(t, want, n, key)
	}
	for _, key := range []string{"c", "g", "missing"} {
		_, err := s.Int(key)
		assert.Error(t, err, key)
	}
}

func TestLabelFromKey(t *testing.T) {
	assert.Equal(t, "Radius Mean", LabelFromKey("radius_mean"))
	assert.Equal(t, "Concave Points Worst", LabelFromKey("concave_points_worst"))
}

func TestWithOptionsDoesNotMutateRegistry(t *testing.T) {
	fields := Fields{{Key: "cancerType", Kind: Choice}}
	dyn := fields.WithOptions("cancerType", Options("A", "B"))
	assert.Len(t, dyn[0].Options, 2)
	assert.Empty(t, fields[0].Options)
}

func TestValidateOpenUpperBound(t *testing.T) {
	fields := Fields{{Key: "age", Kind: Numeric, Bounds: AtLeast(0)}}
	assert.True(t, Validate(fields, State{"age": "120"}).OK())
	assert.Equal(t, "Value must be at least 0", Validate(fields, State{"age": "-1"})["age"])
}

func TestValidateUnboundedNumericMustParse(t *testing.T) {
	fields := Fields{{Key: "npi", Kind: Numeric}}
	assert.True(t, Validate(fields, State{"npi": "4.2"}).OK())
	assert.Equal(t, MsgNotNumber, Validate(fields, State{"npi": "high"})["npi"])
}

func TestValidateTextMaxLength(t *testing.T) {
	fields := Fields{{Key: "message", Kind: Text, MaxLength: 5}}
	assert.True(t, Validate(fields, State{"message": "héllo"}).OK())
	assert.Equal(t, LengthMessage(5), Validate(fields, State{"message": "hello!"})["message"])
}
