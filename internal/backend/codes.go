package backend

// The HADS model was trained on columns whose names spell out their integer coding. The key
// constants keep those names byte-for-byte; the code tables below document the encodings.
const (
	KeyGender        = "Gender (female -1; male-2)"
	KeyAgeGroup      = "Age group [18-29 >1; 30-39 >2; 40-49 >3; 50-59 >4; 60-69 >5; 70-79 >6; 80-89 >7]"
	KeyECOG          = "ECOG_PS"
	KeyClinicalTrial = "Clinical trial (1-yes; 2 -No)"
	KeyExtent        = "Extent of Disease (1- early breast cancer; 2-advanced disease)"
	KeyTreatment     = "Treatment (1- adjuvant/ 2- Neoadjuvant/ 3- Palliative; 31 First line; 32 Second line; 33 Third line)"

	KeyInfoMoreTopics = "INFO25_More topics"
	KeyInfoLessInfo   = "INFO25_Less information"
)

// InfoQuestions is the number of INFO-25 answers.
const InfoQuestions = 25

// Code is one integer-coded categorical value.
type Code struct {
	Value int
	Label string
}

type (
	Gender        int
	AgeGroup      int
	ECOG          int
	ClinicalTrial int
	DiseaseExtent int
	Treatment     int
	InfoAnswer    int
)

const (
	Female Gender = 1
	Male   Gender = 2
)

const (
	Age18to29 AgeGroup = iota + 1
	Age30to39
	Age40to49
	Age50to59
	Age60to69
	Age70to79
	Age80to89
)

const (
	ECOGFullyActive ECOG = iota
	ECOGRestricted
	ECOGAmbulatory
	ECOGLimitedSelfCare
	ECOGDisabled
)

const (
	TrialYes ClinicalTrial = 1
	TrialNo  ClinicalTrial = 2
)

const (
	EarlyBreastCancer DiseaseExtent = 1
	AdvancedDisease   DiseaseExtent = 2
)

const (
	Adjuvant    Treatment = 1
	Neoadjuvant Treatment = 2
	Palliative  Treatment = 3
	FirstLine   Treatment = 31
	SecondLine  Treatment = 32
	ThirdLine   Treatment = 33
)

const (
	NotAtAll InfoAnswer = iota + 1
	ALittle
	ALot
	Extremely
)

var (
	GenderCodes = []Code{{int(Female), "Female"}, {int(Male), "Male"}}

	AgeGroupCodes = []Code{
		{int(Age18to29), "18-29"},
		{int(Age30to39), "30-39"},
		{int(Age40to49), "40-49"},
		{int(Age50to59), "50-59"},
		{int(Age60to69), "60-69"},
		{int(Age70to79), "70-79"},
		{int(Age80to89), "80-89"},
	}

	ECOGCodes = []Code{
		{int(ECOGFullyActive), "0 - Fully Active"},
		{int(ECOGRestricted), "1 - Restricted"},
		{int(ECOGAmbulatory), "2 - Ambulatory"},
		{int(ECOGLimitedSelfCare), "3 - Limited self-care"},
		{int(ECOGDisabled), "4 - Completely disabled"},
	}

	ClinicalTrialCodes = []Code{{int(TrialYes), "Yes"}, {int(TrialNo), "No"}}

	ExtentCodes = []Code{{int(EarlyBreastCancer), "Early breast cancer"}, {int(AdvancedDisease), "Advanced disease"}}

	TreatmentCodes = []Code{
		{int(Adjuvant), "Adjuvant"},
		{int(Neoadjuvant), "Neoadjuvant"},
		{int(Palliative), "Palliative"},
		{int(FirstLine), "First line"},
		{int(SecondLine), "Second line"},
		{int(ThirdLine), "Third line"},
	}

	InfoAnswerCodes = []Code{
		{int(NotAtAll), "Not at all"},
		{int(ALittle), "A little"},
		{int(ALot), "A lot"},
		{int(Extremely), "Extremely"},
	}
)
