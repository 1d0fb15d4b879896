package transform

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultPrompt is used when the caller does not supply one.
const DefaultPrompt = "Transform this drawing into a polished, professional 3D artwork with vibrant colors, refined lines, and artistic details. " +
	"Use dramatic lighting, shadows, and textures to create a dimensional effect while maintaining the original concept. " +
	"Make it visually striking with professional artistic techniques."

const logPromptLimit = 80

// normalizePrompt puts prompt text into NFC so visually identical input is
// sent byte-identical to the edit service.
func normalizePrompt(prompt string) string {
	return strings.TrimSpace(norm.NFC.String(prompt))
}

func truncateForLog(s string) string {
	r := []rune(s)
	if len(r) <= logPromptLimit {
		return s
	}
	return string(r[:logPromptLimit]) + "..."
}

// maskKey keeps only the last four characters of a credential.
func maskKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
