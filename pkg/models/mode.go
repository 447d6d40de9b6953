package models

// Mode is an exercise type. Idle means no training is active.
type Mode string

const (
	ModeIdle        Mode = "idle"
	ModeForms       Mode = "forms"
	ModeTranslation Mode = "translation"
	ModeMix         Mode = "mix"
	ModeSpeed       Mode = "speed"
	ModeRepeat      Mode = "repeat"
)

// IsDrill reports whether the mode names an answer rule that can be recorded as a mistake
func (m Mode) IsDrill() bool {
	return m == ModeForms || m == ModeTranslation
}

// Opposite returns the other drill of the Forms/Translation pair
func (m Mode) Opposite() Mode {
	if m == ModeForms {
		return ModeTranslation
	}
	return ModeForms
}
