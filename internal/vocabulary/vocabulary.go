// Package vocabulary loads the irregular-verb catalogue once at startup and
// serves read-only views of it.
package vocabulary

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/verbbot/internal/excel"
	"github.com/example/verbbot/pkg/models"
)

//go:embed verbs.json
var embeddedVerbs []byte

// ErrConfiguration marks a missing or malformed catalogue
var ErrConfiguration = errors.New("invalid verb catalogue")

// ConfigurationError describes why the catalogue could not be loaded
type ConfigurationError struct {
	Source string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("verb catalogue %s: %s", e.Source, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConfiguration, e.Err}
	}
	return []error{ErrConfiguration}
}

// entry is one record of the JSON catalogue
type entry struct {
	Infinitive  string `json:"inf"`
	Past        string `json:"past"`
	Participle  string `json:"part"`
	Translation string `json:"ru"`
	Level       int    `json:"level"`
}

// Catalogue is the immutable verb list
type Catalogue struct {
	verbs []*models.Verb
	byInf map[string]*models.Verb
}

// Load reads the catalogue at path. An empty path loads the built-in list.
func Load(path string) (*Catalogue, error) {
	if path == "" {
		return parseJSON("embedded verbs.json", embeddedVerbs)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".csv":
		return loadSpreadsheet(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &ConfigurationError{Source: path, Reason: "cannot read file", Err: err}
		}
		return parseJSON(path, data)
	}
}

// New builds a catalogue from already parsed verbs
func New(verbs []models.Verb) (*Catalogue, error) {
	return build("verb list", verbs)
}

func parseJSON(source string, data []byte) (*Catalogue, error) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &ConfigurationError{Source: source, Reason: "not valid JSON", Err: err}
	}

	verbs := make([]models.Verb, 0, len(entries))
	for _, e := range entries {
		verbs = append(verbs, models.Verb{
			Infinitive:      strings.ToLower(strings.TrimSpace(e.Infinitive)),
			PastForms:       models.SplitForms(strings.ToLower(e.Past)),
			ParticipleForms: models.SplitForms(strings.ToLower(e.Participle)),
			Translation:     strings.TrimSpace(e.Translation),
			Tier:            e.Level,
		})
	}
	return build(source, verbs)
}

func loadSpreadsheet(path string) (*Catalogue, error) {
	config := excel.DefaultImportConfig()
	config.FilePath = path

	verbs, result, err := excel.ImportVerbs(config)
	if err != nil {
		return nil, &ConfigurationError{Source: path, Reason: "cannot import spreadsheet", Err: err}
	}
	if len(result.Errors) > 0 {
		return nil, &ConfigurationError{Source: path, Reason: strings.Join(result.Errors, "; ")}
	}
	return build(path, verbs)
}

func build(source string, verbs []models.Verb) (*Catalogue, error) {
	if len(verbs) == 0 {
		return nil, &ConfigurationError{Source: source, Reason: "no verbs"}
	}

	c := &Catalogue{
		verbs: make([]*models.Verb, 0, len(verbs)),
		byInf: make(map[string]*models.Verb, len(verbs)),
	}
	for i := range verbs {
		v := verbs[i]
		switch {
		case v.Infinitive == "":
			return nil, &ConfigurationError{Source: source, Reason: fmt.Sprintf("entry %d has no infinitive", i+1)}
		case len(v.PastForms) == 0:
			return nil, &ConfigurationError{Source: source, Reason: fmt.Sprintf("%q has no past forms", v.Infinitive)}
		case len(v.ParticipleForms) == 0:
			return nil, &ConfigurationError{Source: source, Reason: fmt.Sprintf("%q has no participle forms", v.Infinitive)}
		case v.Tier < 0 || v.Tier > models.MaxTier:
			return nil, &ConfigurationError{Source: source, Reason: fmt.Sprintf("%q has tier %d", v.Infinitive, v.Tier)}
		}
		if _, dup := c.byInf[v.Infinitive]; dup {
			return nil, &ConfigurationError{Source: source, Reason: fmt.Sprintf("%q is listed twice", v.Infinitive)}
		}
		if v.Tier == 0 {
			v.Tier = defaultTier(v.Infinitive)
		}

		verb := &v
		c.verbs = append(c.verbs, verb)
		c.byInf[verb.Infinitive] = verb
	}
	return c, nil
}

// ByTier returns every verb whose tier is at most the requested one.
// Tier 3 (or higher) is the whole catalogue.
func (c *Catalogue) ByTier(tier int) []*models.Verb {
	tier = models.ClampTier(tier)
	if tier == models.MaxTier {
		return c.All()
	}

	out := make([]*models.Verb, 0, len(c.verbs))
	for _, v := range c.verbs {
		if v.Tier <= tier {
			out = append(out, v)
		}
	}
	return out
}

// All returns the catalogue in load order
func (c *Catalogue) All() []*models.Verb {
	out := make([]*models.Verb, len(c.verbs))
	copy(out, c.verbs)
	return out
}

// Lookup finds a verb by infinitive
func (c *Catalogue) Lookup(infinitive string) (*models.Verb, bool) {
	v, ok := c.byInf[strings.ToLower(infinitive)]
	return v, ok
}

// Len returns the number of verbs
func (c *Catalogue) Len() int {
	return len(c.verbs)
}

// CountByTier returns how many verbs carry each tier
func (c *Catalogue) CountByTier() map[int]int {
	counts := make(map[int]int, models.MaxTier)
	for _, v := range c.verbs {
		counts[v.Tier]++
	}
	return counts
}
