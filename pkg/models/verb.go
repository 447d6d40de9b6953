package models

import "strings"

// Verb is one irregular verb from the catalogue
type Verb struct {
	Infinitive      string   `json:"infinitive"`
	PastForms       []string `json:"past_forms"`       // Alternates, e.g. ["was", "were"]
	ParticipleForms []string `json:"participle_forms"` // Alternates, e.g. ["got", "gotten"]
	Translation     string   `json:"translation"`      // May list several renderings separated by "," or "/"
	Tier            int      `json:"tier"`             // 1-3 scale of difficulty
}

// PastText returns the past forms joined the way the catalogue writes them
func (v *Verb) PastText() string {
	return strings.Join(v.PastForms, "/")
}

// ParticipleText returns the participle forms joined the way the catalogue writes them
func (v *Verb) ParticipleText() string {
	return strings.Join(v.ParticipleForms, "/")
}

// SplitForms splits a "/" separated list of alternates, dropping blanks
func SplitForms(raw string) []string {
	var forms []string
	for _, part := range strings.Split(raw, "/") {
		part = strings.TrimSpace(part)
		if part != "" {
			forms = append(forms, part)
		}
	}
	return forms
}
