package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/")
}

func TestDetectCancerSendsArrayOfOneObject(t *testing.T) {
	var got []map[string]float64
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, pathDetectCancer, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		io.WriteString(w, `{"predictions":[{"patient_index":0,"probability":0.4521,"threshold_used":0.5,"prediction":"Benign"}]}`)
	})

	features := Object{}
	for i, name := range DetectionFeatures {
		features = append(features, Pair{name, float64(i)})
	}
	res, err := c.DetectCancer(context.Background(), DetectionRequest{Features: features})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Len(t, got[0], 30)
	assert.Equal(t, 2.0, got[0]["perimeter_mean"])
	assert.InDelta(t, 0.4521, res.Probability, 1e-9)
	assert.False(t, res.Malignant())
}

func TestObjectKeepsMemberOrder(t *testing.T) {
	b, err := json.Marshal(Object{{"b", 1}, {"a", "x"}})
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":"x"}`, string(b))
}

func TestRecurrenceKeysKeepStraySpaces(t *testing.T) {
	var raw map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		io.WriteString(w, `{"predictions":[{"prediction":1,"probability":0.83}]}`)
	})

	res, err := c.PredictRecurrence(context.Background(), RecurrenceRequest{Race: "White", TStage: "T2", RegionalNodePositive: "3"})
	require.NoError(t, err)
	assert.True(t, res.Recurs())
	assert.Equal(t, "White", raw["Race "])
	assert.Equal(t, "T2", raw["T Stage "])
	assert.Equal(t, "3", raw["Reginol Node Positive"])
}

func TestHADSPayloadCarriesCodedKeysAndExtraInfoColumns(t *testing.T) {
	var raw map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		io.WriteString(w, `{"HADS_high_pred":1,"probability_HADS_high":0.731}`)
	})

	req := HADSRequest{Gender: Female, AgeGroup: Age40to49, ECOG: ECOGRestricted, ClinicalTrial: TrialNo, Extent: EarlyBreastCancer, Treatment: SecondLine}
	for i := range req.Answers {
		req.Answers[i] = ALittle
	}
	req.Answers[23] = Extremely
	req.Answers[24] = 0

	res, err := c.PredictHADS(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.High())

	assert.EqualValues(t, 1, raw[KeyGender])
	assert.EqualValues(t, 3, raw[KeyAgeGroup])
	assert.EqualValues(t, 1, raw[KeyECOG])
	assert.EqualValues(t, 2, raw[KeyClinicalTrial])
	assert.EqualValues(t, 32, raw[KeyTreatment])
	assert.EqualValues(t, 2, raw["INFO25_1"])
	assert.EqualValues(t, 4, raw[KeyInfoMoreTopics])
	assert.EqualValues(t, 1, raw[KeyInfoLessInfo])
	assert.Len(t, raw, 6+InfoQuestions+2)
}

func TestPredictImageUsesMultipartImageField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseMultipartForm(1<<20))
		f, hdr, err := r.FormFile("image")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		body, _ := io.ReadAll(f)
		assert.Equal(t, "scan.png", hdr.Filename)
		assert.Equal(t, "PNGDATA", string(body))
		io.WriteString(w, `{"label":"malignant","probability":0.91,"recommendation":"See a specialist.","warning":"Not a diagnosis."}`)
	})

	res, err := c.PredictImage(context.Background(), ImageUpload{Filename: "scan.png", ContentType: "image/png", Body: strings.NewReader("PNGDATA")})
	require.NoError(t, err)
	assert.Equal(t, LabelMalignant, res.Label)
	require.NotNil(t, res.Probability)
	assert.InDelta(t, 0.91, *res.Probability, 1e-9)
}

func TestAggressivityDomainErrorIsVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"Unknown cancer type: Foo"}`)
	})

	_, err := c.PredictAggressivity(context.Background(), AggressivityRequest{CancerType: "Foo"})
	require.Error(t, err)
	assert.True(t, IsKind(err, Domain))
	assert.Equal(t, "Unknown cancer type: Foo", UserMessage(err))
}

func TestAggressivitySuccess(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.EqualValues(t, 22.5, raw["Tumor Size"])
		assert.EqualValues(t, 2, raw["Neoplasm Histologic Grade"])
		io.WriteString(w, `{"aggressivity_level":"Forte","cluster":2,"confidence":0.876}`)
	})

	res, err := c.PredictAggressivity(context.Background(), AggressivityRequest{TumorSize: 22.5, Grade: 2, CancerType: "Breast Invasive Ductal Carcinoma"})
	require.NoError(t, err)
	assert.Equal(t, "Forte", res.Level)
	assert.Equal(t, 2, res.Cluster)
}

func TestTopRiskSendsN(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathTopRisk, r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("n"))
		io.WriteString(w, `[{"Patient ID":"MB-0001","Aggressivity Level":"Forte","Nottingham prognostic index":6.1}]`)
	})

	rows, err := c.TopRisk(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "MB-0001", rows[0].PatientID)
	require.NotNil(t, rows[0].NPI)
	assert.Nil(t, rows[0].TumorSize)
}

func TestClientErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    Kind
	}{
		{
			name: "server error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				io.WriteString(w, `{"error":"boom"}`)
			},
			kind: Status,
		},
		{
			name: "not json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `<html>oops</html>`)
			},
			kind: Malformed,
		},
		{
			name: "missing result fields",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"predictions":[{"patient_index":0}]}`)
			},
			kind: Malformed,
		},
		{
			name: "empty predictions",
			handler: func(w http.ResponseWriter, r *http.Request) {
				io.WriteString(w, `{"predictions":[]}`)
			},
			kind: Malformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			_, err := c.PredictRisk(context.Background(), RiskRequest{Age: 35, GeneticMutation: "NONE"})
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
			assert.Equal(t, GenericMessage, UserMessage(err))
		})
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).CancerTypes(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, Transport))
	assert.Equal(t, GenericMessage, UserMessage(err))
}

func TestStatusErrorKeepsBackendMessageOutOfUserText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"bad field"}`)
	})

	_, err := c.PredictMenopause(context.Background(), MenopauseRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad field")
	assert.Equal(t, GenericMessage, UserMessage(err))
}

func TestExtraFieldsAreIgnored(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"predictions":[{"prediction":2,"probabilities":[0.1,0.2,0.7],"model":"v3"}],"took_ms":12}`)
	})

	res, err := c.PredictMenopause(context.Background(), MenopauseRequest{MenopausalState: "pre"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Prediction)
	assert.Equal(t, []float64{0.1, 0.2, 0.7}, res.Probabilities)
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathHealth, r.URL.Path)
		io.WriteString(w, `{"status":"healthy","message":"ok"}`)
	})
	assert.NoError(t, c.Ping(context.Background()))
}

func TestPredictImageRejectionIsVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"error":"No image uploaded"}`)
	})

	_, err := c.PredictImage(context.Background(), ImageUpload{Filename: "a.png", Body: strings.NewReader("x")})
	require.Error(t, err)
	assert.True(t, IsKind(err, Domain))
	assert.Equal(t, "No image uploaded", UserMessage(err))
}

func TestListEndpointsReturnDecodedBodies(t *testing.T) {
	bodies := map[string]string{
		pathCancerTypes:   `["Invasive Ductal Carcinoma","Mucinous Carcinoma"]`,
		pathPatients:      `[{"Patient ID":"MB-0001","Aggressivity Level":"Faible"},{"Patient ID":"MB-0002","Aggressivity Level":null}]`,
		pathClusterStats:  `[{"level":"Faible","count":3,"avg_npi":3.1},{"level":"Forte","count":2}]`,
		pathClusterCounts: `[{"cancer_type":"Invasive Ductal Carcinoma","aggressivity_level":"Forte","count":7}]`,
		pathTopRisk:       `[{"Patient ID":"MB-0420","Aggressivity Level":"Forte"}]`,
	}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, ok := bodies[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, body)
	})
	ctx := context.Background()

	types, err := c.CancerTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Invasive Ductal Carcinoma", "Mucinous Carcinoma"}, types)

	patients, err := c.Patients(ctx)
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "MB-0002", patients[1].PatientID)
	assert.Empty(t, patients[1].Level)

	stats, err := c.ClusterStats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	require.NotNil(t, stats[0].AvgNPI)
	assert.InDelta(t, 3.1, *stats[0].AvgNPI, 1e-9)
	assert.Nil(t, stats[1].AvgNPI)

	counts, err := c.ClusterCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ClusterCount{{CancerType: "Invasive Ductal Carcinoma", Level: "Forte", Count: 7}}, counts)

	top, err := c.TopRisk(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "MB-0420", top[0].PatientID)
}
