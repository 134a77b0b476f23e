package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Pair is one member of an ordered JSON object.
type Pair struct {
	Key   string
	Value any
}

// Object marshals as a JSON object whose members keep their declared order.
type Object []Pair

func (o Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", p.Key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// DetectionFeatures lists the 30 tumor features /detect-cancer expects, in form order.
var DetectionFeatures = []string{
	"radius_mean", "texture_mean", "perimeter_mean", "area_mean", "smoothness_mean",
	"compactness_mean", "concavity_mean", "concave_points_mean", "symmetry_mean", "fractal_dimension_mean",
	"radius_se", "texture_se", "perimeter_se", "area_se", "smoothness_se",
	"compactness_se", "concavity_se", "concave_points_se", "symmetry_se", "fractal_dimension_se",
	"radius_worst", "texture_worst", "perimeter_worst", "area_worst", "smoothness_worst",
	"compactness_worst", "concavity_worst", "concave_points_worst", "symmetry_worst", "fractal_dimension_worst",
}

// DetectionRequest is one patient's standardized features. It is sent as a one-element array.
type DetectionRequest struct {
	Features Object
}

func (r DetectionRequest) MarshalJSON() ([]byte, error) {
	return json.Marshal([]Object{r.Features})
}

type DetectionPrediction struct {
	PatientIndex  int      `json:"patient_index"`
	RawScore      *float64 `json:"raw_score,omitempty"`
	Probability   float64  `json:"probability"`
	ThresholdUsed float64  `json:"threshold_used"`
	Prediction    string   `json:"prediction"`
}

// Malignant reports whether the model classified the tumor as malignant.
func (p DetectionPrediction) Malignant() bool {
	return p.Prediction == "Malignant"
}

type detectionResponse struct {
	Predictions []DetectionPrediction `json:"predictions"`
}

// ImageLabel is the class returned by /predict.
type ImageLabel string

const (
	LabelMalignant ImageLabel = "malignant"
	LabelBenign    ImageLabel = "benign"
	LabelNonMRI    ImageLabel = "non_mri_breast"
)

// ImageUpload is the file posted as the multipart "image" field.
type ImageUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type ImageResult struct {
	Label          ImageLabel `json:"label"`
	Probability    *float64   `json:"probability,omitempty"`
	Recommendation string     `json:"recommendation"`
	Warning        string     `json:"warning"`
}

// AggressivityRequest is the body of /predictAgressivity; field order follows the form.
type AggressivityRequest struct {
	TumorSize     float64 `json:"Tumor Size"`
	Grade         int     `json:"Neoplasm Histologic Grade"`
	LymphNodes    int     `json:"Lymph nodes examined positive"`
	MutationCount int     `json:"Mutation Count"`
	NPI           float64 `json:"Nottingham prognostic index"`
	CancerType    string  `json:"Cancer Type"`
}

type AggressivityResult struct {
	Level      string  `json:"aggressivity_level"`
	Cluster    int     `json:"cluster"`
	Confidence float64 `json:"confidence"`
	CancerType string  `json:"cancer_type,omitempty"`
}

// AggressivityOutcome is the tagged response of /predictAgressivity: exactly one of Result and
// Err is set.
type AggressivityOutcome struct {
	Result *AggressivityResult
	Err    string
}

func (o *AggressivityOutcome) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	if envelope.Error != nil {
		o.Err = *envelope.Error
		if o.Err == "" {
			o.Err = "unknown error"
		}
		return nil
	}
	var res AggressivityResult
	if err := json.Unmarshal(data, &res); err != nil {
		return err
	}
	o.Result = &res
	return nil
}

// PatientRecord is a row of /patients or /top-risk. Absent columns stay nil.
type PatientRecord struct {
	PatientID     string   `json:"Patient ID"`
	CancerType    string   `json:"Cancer Type Detailed"`
	Level         string   `json:"Aggressivity Level"`
	Cluster       *int     `json:"Aggressivity Cluster,omitempty"`
	Age           *float64 `json:"Age at Diagnosis,omitempty"`
	TumorSize     *float64 `json:"Tumor Size,omitempty"`
	Grade         *float64 `json:"Neoplasm Histologic Grade,omitempty"`
	LymphNodes    *float64 `json:"Lymph nodes examined positive,omitempty"`
	MutationCount *float64 `json:"Mutation Count,omitempty"`
	NPI           *float64 `json:"Nottingham prognostic index,omitempty"`
	HER2Status    *string  `json:"HER2 Status,omitempty"`
	ERStatus      *string  `json:"ER Status,omitempty"`
	PRStatus      *string  `json:"PR Status,omitempty"`
}

// ClusterStat holds per-level averages from /cluster-stats.
type ClusterStat struct {
	Level              string   `json:"level"`
	Count              int      `json:"count"`
	AvgTumorSize       *float64 `json:"avg_tumor_size"`
	AvgHistologicGrade *float64 `json:"avg_histologic_grade"`
	AvgLymphNodes      *float64 `json:"avg_lymph_nodes"`
	AvgMutationCount   *float64 `json:"avg_mutation_count"`
	AvgNPI             *float64 `json:"avg_npi"`
}

// ClusterCount is a (cancer type, level) patient count from /cluster-counts.
type ClusterCount struct {
	CancerType string `json:"cancer_type"`
	Level      string `json:"aggressivity_level"`
	Count      int    `json:"count"`
}

// HADSRequest carries the coded demographics and the INFO-25 answers (index 0 is INFO25_1).
type HADSRequest struct {
	Gender        Gender
	AgeGroup      AgeGroup
	ECOG          ECOG
	ClinicalTrial ClinicalTrial
	Extent        DiseaseExtent
	Treatment     Treatment
	Answers       [InfoQuestions]InfoAnswer
}

// Object lays the request out the way /predict_hads reads it. The two named INFO25 columns
// repeat answers 24 and 25, falling back to 1 when unanswered.
func (r HADSRequest) Object() Object {
	obj := Object{
		{KeyGender, int(r.Gender)},
		{KeyAgeGroup, int(r.AgeGroup)},
		{KeyECOG, int(r.ECOG)},
		{KeyClinicalTrial, int(r.ClinicalTrial)},
		{KeyExtent, int(r.Extent)},
		{KeyTreatment, int(r.Treatment)},
	}
	for i, a := range r.Answers {
		obj = append(obj, Pair{"INFO25_" + strconv.Itoa(i+1), int(a)})
	}
	obj = append(obj,
		Pair{KeyInfoMoreTopics, answerOrOne(r.Answers[23])},
		Pair{KeyInfoLessInfo, answerOrOne(r.Answers[24])},
	)
	return obj
}

func (r HADSRequest) MarshalJSON() ([]byte, error) {
	return r.Object().MarshalJSON()
}

func answerOrOne(a InfoAnswer) int {
	if a == 0 {
		return 1
	}
	return int(a)
}

type HADSResult struct {
	HighPred    int     `json:"HADS_high_pred"`
	Probability float64 `json:"probability_HADS_high"`
}

// High reports whether the model predicts a high anxiety/depression level.
func (r HADSResult) High() bool {
	return r.HighPred == 1
}

// MenopauseRequest is posted with the string values the form holds.
type MenopauseRequest struct {
	AgeAtDiagnosis  string `json:"Age at Diagnosis"`
	Chemotherapy    string `json:"Chemotherapy"`
	HormoneTherapy  string `json:"Hormone Therapy"`
	RadioTherapy    string `json:"Radio Therapy"`
	MenopausalState string `json:"Inferred Menopausal State"`
	ERStatus        string `json:"ER Status"`
	PRStatus        string `json:"PR Status"`
	HER2Status      string `json:"HER2 Status"`
	Grade           string `json:"Neoplasm Histologic Grade"`
	TumorStage      string `json:"Tumor Stage"`
	TumorSize       string `json:"Tumor Size"`
	LymphNodes      string `json:"Lymph nodes examined positive"`
	NPI             string `json:"Nottingham prognostic index"`
}

type MenopausePrediction struct {
	PatientIndex  int       `json:"patient_index"`
	Prediction    int       `json:"prediction"`
	Probabilities []float64 `json:"probabilities"`
}

type menopauseResponse struct {
	Predictions []MenopausePrediction `json:"predictions"`
}

// RecurrenceRequest uses the SEER column names, including their stray spaces and misspellings.
type RecurrenceRequest struct {
	Age                  string `json:"Age"`
	Race                 string `json:"Race "`
	MaritalStatus        string `json:"Marital Status"`
	TStage               string `json:"T Stage "`
	NStage               string `json:"N Stage"`
	SixthStage           string `json:"6th Stage"`
	Grade                string `json:"Grade"`
	AStage               string `json:"A Stage"`
	TumorSize            string `json:"Tumor Size"`
	EstrogenStatus       string `json:"Estrogen Status"`
	ProgesteroneStatus   string `json:"Progesterone Status"`
	RegionalNodeExamined string `json:"Regional Node Examined"`
	RegionalNodePositive string `json:"Reginol Node Positive"`
}

type RecurrencePrediction struct {
	PatientIndex  int      `json:"patient_index"`
	Prediction    int      `json:"prediction"`
	Probability   float64  `json:"probability"`
	ThresholdUsed *float64 `json:"threshold_used,omitempty"`
}

// Recurs reports whether a 5-year recurrence is predicted.
func (p RecurrencePrediction) Recurs() bool {
	return p.Prediction == 1
}

type recurrenceResponse struct {
	Predictions []RecurrencePrediction `json:"predictions"`
}

type RiskRequest struct {
	Age                int    `json:"age"`
	ResidenceLocation  int    `json:"residence_location"`
	AlcoholIntake      int    `json:"alcohol_intake"`
	SmokingStatus      int    `json:"smoking_status"`
	FamilyHistory      int    `json:"family_history_of_breast_cancer"`
	NumberOfChildren   int    `json:"number_of_children"`
	AgeAtMenarche      int    `json:"age_at_menarche"`
	MenopausalStatus   int    `json:"menopausal_status"`
	HormoneReplacement int    `json:"hormone_replacement_therapy_use"`
	OralContraceptive  int    `json:"oral_contraceptive_use"`
	GeneticMutation    string `json:"genetic_mutation"`
}

type RiskPrediction struct {
	PatientIndex     int      `json:"patient_index"`
	RiskScorePercent float64  `json:"risk_score_percent"`
	TopFeatures      []string `json:"top_features"`
}

type riskResponse struct {
	Predictions []RiskPrediction `json:"predictions"`
}
