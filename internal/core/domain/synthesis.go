package domain

import "strings"

// Voice is a text-to-speech voice.
type Voice string

// Available voices.
const (
	VoiceAlloy   Voice = "alloy"
	VoiceVerse   Voice = "verse"
	VoiceCharlie Voice = "charlie"
	VoiceSage    Voice = "sage"
	VoiceNova    Voice = "nova"
	VoiceAtticus Voice = "atticus"
)

// AllVoices returns the voices in display order.
func AllVoices() []Voice {
	return []Voice{VoiceAlloy, VoiceVerse, VoiceCharlie, VoiceSage, VoiceNova, VoiceAtticus}
}

// IsValid returns true if the voice is recognised.
func (v Voice) IsValid() bool {
	for _, known := range AllVoices() {
		if v == known {
			return true
		}
	}
	return false
}

// OrDefault returns v, or alloy when v is not recognised.
func (v Voice) OrDefault() Voice {
	if v.IsValid() {
		return v
	}
	return VoiceAlloy
}

// String returns the string representation.
func (v Voice) String() string {
	return string(v)
}

// Description returns a one-line description of the voice.
func (v Voice) Description() string {
	switch v {
	case VoiceAlloy:
		return "Balanced, warm, neutral narrator; clean and clear for most content."
	case VoiceVerse:
		return "Lighter, friendly and expressive; great for casual or upbeat tones."
	case VoiceCharlie:
		return "Softer, intimate, slightly breathy; nice for reflective passages."
	case VoiceSage:
		return "Calm, measured, confident; good for factual or instructional text."
	case VoiceNova:
		return "Bright and energetic; adds a touch of enthusiasm."
	case VoiceAtticus:
		return "Deeper baritone; authoritative and steady."
	default:
		return unknownDescription
	}
}

// ImageStyle is an artistic style for generated covers.
type ImageStyle string

// Available image styles.
const (
	ImageStyleDefault     ImageStyle = "Default"
	ImageStyleWatercolor  ImageStyle = "Watercolor"
	ImageStyleDarkFantasy ImageStyle = "Dark fantasy"
	ImageStyleWhimsical   ImageStyle = "Whimsical"
	ImageStyleSciFiNeon   ImageStyle = "Sci-fi neon"
	ImageStyleMinimalist  ImageStyle = "Minimalist"
)

// AllImageStyles returns the styles in display order.
func AllImageStyles() []ImageStyle {
	return []ImageStyle{
		ImageStyleDefault,
		ImageStyleWatercolor,
		ImageStyleDarkFantasy,
		ImageStyleWhimsical,
		ImageStyleSciFiNeon,
		ImageStyleMinimalist,
	}
}

// ParseImageStyle matches a style name case-insensitively.
// Unknown names map to the default style.
func ParseImageStyle(name string) ImageStyle {
	for _, s := range AllImageStyles() {
		if strings.EqualFold(string(s), strings.TrimSpace(name)) {
			return s
		}
	}
	return ImageStyleDefault
}

// Phrase returns the prompt fragment describing the style.
func (s ImageStyle) Phrase() string {
	switch s {
	case ImageStyleWatercolor:
		return "in a soft watercolor illustration style"
	case ImageStyleDarkFantasy:
		return "in a dark fantasy cinematic concept-art style"
	case ImageStyleWhimsical:
		return "in a cozy whimsical storybook illustration style"
	case ImageStyleSciFiNeon:
		return "as retro-futuristic sci-fi with neon lighting and glossy materials"
	case ImageStyleMinimalist:
		return "as minimalist vector art with simple geometric shapes"
	default:
		return ""
	}
}

// String returns the string representation.
func (s ImageStyle) String() string {
	return string(s)
}
