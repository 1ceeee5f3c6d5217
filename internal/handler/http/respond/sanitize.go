package respond

import (
	"regexp"
)

// Patterns are applied from the most specific to the least specific.
var (
	anthropicKeyPattern = regexp.MustCompile(`sk-ant-[a-zA-Z0-9\-_]+`)
	// Does not match already masked keys, which contain '*'.
	openaiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9\-_]{10,}`)
	googleKeyPattern = regexp.MustCompile(`AIza[0-9A-Za-z\-_]{20,}`)
	// API keys passed as query parameters, e.g. ?key=... in Gemini REST URLs.
	queryKeyPattern = regexp.MustCompile(`([?&](?:key|api_key)=)[^&\s"]+`)
	bearerPattern   = regexp.MustCompile(`(?i)(bearer\s+)[a-zA-Z0-9\-_.=]+`)
)

// SanitizeError returns err's message with API keys and bearer tokens masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = anthropicKeyPattern.ReplaceAllString(msg, "sk-ant-****")
	msg = openaiKeyPattern.ReplaceAllString(msg, "sk-****")
	msg = googleKeyPattern.ReplaceAllString(msg, "AIza****")
	msg = queryKeyPattern.ReplaceAllString(msg, "${1}****")
	msg = bearerPattern.ReplaceAllString(msg, "${1}****")
	return msg
}
