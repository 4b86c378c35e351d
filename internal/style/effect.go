package style

import "fmt"

// Effect is a visual effect applied when a text item is rendered.
type Effect uint8

const (
	// EffectNormal renders text without an effect.
	EffectNormal Effect = iota

	// EffectAntique renders text with an aged, faded look.
	EffectAntique

	// EffectMetal renders text with a metallic sheen.
	EffectMetal

	// EffectManga renders text with comic-style outlining.
	EffectManga

	// EffectMotionBlur renders text with a motion blur trail.
	EffectMotionBlur

	// effectCount is the number of effects.
	effectCount
)

// Effects returns every effect in display order.
func Effects() []Effect {
	out := make([]Effect, 0, effectCount)
	for e := EffectNormal; e < effectCount; e++ {
		out = append(out, e)
	}
	return out
}

// String returns the string representation of the effect.
func (e Effect) String() string {
	switch e {
	case EffectNormal:
		return "normal"
	case EffectAntique:
		return "antique"
	case EffectMetal:
		return "metal"
	case EffectManga:
		return "manga"
	case EffectMotionBlur:
		return "motionBlur"
	default:
		return "unknown"
	}
}

// Valid reports whether e is a known effect.
func (e Effect) Valid() bool {
	return e < effectCount
}

// ParseEffect parses an effect name.
func ParseEffect(s string) (Effect, error) {
	switch s {
	case "normal", "":
		return EffectNormal, nil
	case "antique":
		return EffectAntique, nil
	case "metal":
		return EffectMetal, nil
	case "manga":
		return EffectManga, nil
	case "motionBlur", "motion-blur", "motion_blur":
		return EffectMotionBlur, nil
	default:
		return EffectNormal, fmt.Errorf("unknown effect %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (e Effect) MarshalText() ([]byte, error) {
	if !e.Valid() {
		return nil, fmt.Errorf("invalid effect %d", e)
	}
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Effect) UnmarshalText(text []byte) error {
	parsed, err := ParseEffect(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
