// Package answer decides whether a free-text reply names the expected verb
// forms or translation. All checks are pure.
package answer

import (
	"fmt"
	"strings"

	"github.com/example/verbbot/pkg/models"
)

// Verdict is the outcome of one check
type Verdict struct {
	Correct   bool
	Canonical string // Correct answer, for display
}

// modalPhrases are accepted for "can" whatever the catalogue lists, since its
// missing forms are usually written as a periphrasis.
var modalPhrases = []string{"could be able", "be able to", "been able to", "be able"}

const modalInfinitive = "can"

// Check applies the rule of a drill mode. Modes other than Forms and
// Translation fall back to the forms rule.
func Check(mode models.Mode, verb *models.Verb, input string) Verdict {
	if mode == models.ModeTranslation {
		return CheckTranslation(verb, input)
	}
	return CheckForms(verb, input)
}

// FormsText renders "inf — past, participle"
func FormsText(verb *models.Verb) string {
	return fmt.Sprintf("%s — %s, %s", verb.Infinitive, verb.PastText(), verb.ParticipleText())
}

// TranslationText renders "inf — translation"
func TranslationText(verb *models.Verb) string {
	return fmt.Sprintf("%s — %s", verb.Infinitive, verb.Translation)
}

// CheckTranslation accepts the input when it equals one of the listed
// translations or when either one contains the other.
//
// Containment is lenient on purpose: "идти пешком" and "ид" both pass for
// "идти". Use TranslationRule with MinContainment to restrict it.
func CheckTranslation(verb *models.Verb, input string) Verdict {
	return TranslationRule{}.Check(verb, input)
}

// TranslationRule configures translation matching
type TranslationRule struct {
	// MinContainment is the shortest input or candidate that may match by
	// containment; shorter strings must match exactly. Zero allows any length.
	MinContainment int
}

// Check runs the translation rule
func (r TranslationRule) Check(verb *models.Verb, input string) Verdict {
	verdict := Verdict{Canonical: TranslationText(verb)}

	given := strings.ToLower(strings.TrimSpace(input))
	if given == "" {
		return verdict
	}

	for _, candidate := range translationCandidates(verb.Translation) {
		if given == candidate {
			verdict.Correct = true
			return verdict
		}
		if r.MinContainment > 0 && (runeLen(given) < r.MinContainment || runeLen(candidate) < r.MinContainment) {
			continue
		}
		if strings.Contains(candidate, given) || strings.Contains(given, candidate) {
			verdict.Correct = true
			return verdict
		}
	}
	return verdict
}

func translationCandidates(translation string) []string {
	fields := strings.FieldsFunc(strings.ToLower(translation), func(r rune) bool {
		return r == ',' || r == '/'
	})

	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// CheckForms accepts "past participle" answers. Tokens are split on commas
// when the input has any, otherwise on whitespace. With three or more tokens
// everything before the last one is the past claim, so "was were been"
// works. Every word of the past claim must be a listed past
// form and the participle claim must equal a listed participle.
func CheckForms(verb *models.Verb, input string) Verdict {
	verdict := Verdict{Canonical: FormsText(verb)}

	lowered := strings.ToLower(input)
	if verb.Infinitive == modalInfinitive {
		verdict.Correct = containsModalPhrase(lowered)
		return verdict
	}

	tokens := tokenize(lowered)
	if len(tokens) < 2 {
		return verdict
	}

	pastClaim := strings.Join(tokens[:len(tokens)-1], " ")
	participleClaim := tokens[len(tokens)-1]

	if !contains(verb.ParticipleForms, participleClaim) {
		return verdict
	}
	for _, word := range strings.Fields(pastClaim) {
		if !contains(verb.PastForms, word) {
			return verdict
		}
	}

	verdict.Correct = true
	return verdict
}

// CheckSpeed is the timed-round rule: exactly the first two tokens are read
// as past and participle. Multi-word past claims are not accepted here.
func CheckSpeed(verb *models.Verb, input string) Verdict {
	verdict := Verdict{Canonical: FormsText(verb)}

	tokens := SpeedTokens(input)
	if len(tokens) < 2 {
		return verdict
	}

	verdict.Correct = contains(verb.PastForms, tokens[0]) && contains(verb.ParticipleForms, tokens[1])
	return verdict
}

// SpeedTokens lowercases the input and splits it on commas and whitespace
func SpeedTokens(input string) []string {
	return strings.Fields(strings.ReplaceAll(strings.ToLower(input), ",", " "))
}

func tokenize(input string) []string {
	var raw []string
	if strings.Contains(input, ",") {
		raw = strings.Split(input, ",")
	} else {
		raw = strings.Fields(input)
	}

	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		// Collapse inner whitespace of comma-separated claims
		if t = strings.Join(strings.Fields(t), " "); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func containsModalPhrase(input string) bool {
	normalized := strings.Join(strings.Fields(strings.ReplaceAll(input, ",", " ")), " ")
	for _, phrase := range modalPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

func contains(forms []string, claim string) bool {
	for _, f := range forms {
		if strings.ToLower(f) == claim {
			return true
		}
	}
	return false
}

func runeLen(s string) int {
	return len([]rune(s))
}
