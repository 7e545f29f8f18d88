package convention

import "strings"

// GenderGlyph maps a gender token to its Chinese glyph.
// Anything other than "female" maps to the male glyph.
func GenderGlyph(gender string) string {
	if strings.EqualFold(gender, "female") {
		return "女"
	}
	return "男"
}

// SpeedGlyph maps a speed token to its Chinese label.
// Anything other than "slower" is native speed.
func SpeedGlyph(speed string) string {
	if strings.EqualFold(speed, "slower") {
		return "慢话"
	}
	return "对话"
}
