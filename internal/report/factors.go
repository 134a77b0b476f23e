package report

import "strings"

// DefaultFactorExplanation is shown for features with no dedicated explanation.
const DefaultFactorExplanation = "This factor was identified by our AI model as having an important influence on your risk assessment. Your healthcare provider can help you understand how this relates to your personal health situation and what steps you can take."

var factorExplanations = map[string]string{
	"age":                             "Your age plays a significant role in breast cancer risk. As you get older, especially after 40, your risk naturally increases. This is because cells have more time to accumulate genetic changes.",
	"family_history_of_breast_cancer": "Having a close family member (mother, sister, or daughter) with breast cancer can indicate a genetic predisposition. This is one of the strongest risk factors and may suggest the need for genetic counseling.",
	"genetic_mutation":                "Certain genetic mutations like BRCA1 and BRCA2 significantly increase your risk. If you have these mutations, you may benefit from more frequent screening and preventive measures.",
	"hormone_replacement_therapy_use": "Hormone replacement therapy (HRT) can increase breast cancer risk, especially with long-term use. The risk typically decreases after stopping HRT.",
	"menopausal_status":               "Your menopausal status affects your hormonal profile. Post-menopausal women may have different risk patterns due to changes in hormone levels.",
	"age_at_menarche":                 "Starting your period at an earlier age means longer lifetime exposure to estrogen, which can slightly increase breast cancer risk.",
	"number_of_children":              "Pregnancy and childbirth affect your hormonal balance. Having children, especially at a younger age, can provide some protective effect.",
	"oral_contraceptive_use":          "Birth control pills may slightly increase risk, but the effect is usually small and decreases after stopping use.",
	"alcohol_intake":                  "Regular alcohol consumption increases breast cancer risk. The more you drink, the higher the risk. Limiting alcohol can help reduce this risk.",
	"smoking_status":                  "Smoking affects overall health and can contribute to cancer risk. Quitting smoking is one of the best things you can do for your health.",
	"residence_location":              "Where you live can influence risk through environmental factors, access to healthcare, and lifestyle patterns.",
}

// Factor is one contributing feature of a risk prediction with its explanation.
type Factor struct {
	Rank        int    `json:"rank"`
	Name        string `json:"name"`
	Explanation string `json:"explanation"`
}

// Factors pairs the model's top features with their explanations, keeping the model's order.
func Factors(features []string) []Factor {
	out := make([]Factor, 0, len(features))
	for i, f := range features {
		out = append(out, Factor{Rank: i + 1, Name: f, Explanation: FactorExplanation(f)})
	}
	return out
}

// FactorExplanation matches a feature name case-insensitively against the known factors. An
// exact key wins, then the longest key contained in the name (so "age_at_menarche_encoded" is not
// explained as "age"), then the shortest key containing the name.
func FactorExplanation(feature string) string {
	name := strings.ToLower(strings.TrimSpace(feature))
	if name == "" {
		return DefaultFactorExplanation
	}
	if text, ok := factorExplanations[name]; ok {
		return text
	}

	var within, around string
	for key := range factorExplanations {
		switch {
		case strings.Contains(name, key):
			if len(key) > len(within) || (len(key) == len(within) && key < within) {
				within = key
			}
		case strings.Contains(key, name):
			if around == "" || len(key) < len(around) || (len(key) == len(around) && key < around) {
				around = key
			}
		}
	}
	switch {
	case within != "":
		return factorExplanations[within]
	case around != "":
		return factorExplanations[around]
	default:
		return DefaultFactorExplanation
	}
}
