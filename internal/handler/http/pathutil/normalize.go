package pathutil

import (
	"regexp"
	"strings"
)

// UnmatchedPath is the label used for requests that hit no registered route.
const UnmatchedPath = "/unmatched"

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// staticPaths are registered routes without path parameters.
var staticPaths = map[string]struct{}{
	"/summaries": {},
	"/health":    {},
	"/ready":     {},
	"/live":      {},
	"/metrics":   {},
}

// pathPatterns defines the list of patterns for prefix routes.
// Patterns are evaluated in order from most specific to least specific.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/swagger(/.*)?$`), Template: "/swagger/*"},
}

// NormalizePath maps a request path to a bounded set of metric labels.
// Registered routes keep their path, swagger assets collapse into one label
// and anything else (scanners, typos) becomes UnmatchedPath.
//
// Examples:
//
//	NormalizePath("/summaries")             // "/summaries"
//	NormalizePath("/summaries/")            // "/summaries"
//	NormalizePath("/health?verbose=1")      // "/health"
//	NormalizePath("/swagger/index.html")    // "/swagger/*"
//	NormalizePath("/wp-login.php")          // "/unmatched"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}

	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}

	if _, ok := staticPaths[path]; ok {
		return path
	}

	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			return p.Template
		}
	}

	return UnmatchedPath
}

// GetExpectedCardinality returns the number of distinct path labels
// NormalizePath can produce.
func GetExpectedCardinality() int {
	return len(staticPaths) + len(pathPatterns) + 1
}
