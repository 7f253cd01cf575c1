package html

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	helperPolicyOnce sync.Once
	helperPolicy     *bluemonday.Policy
)

// sanitizeHelperText keeps the small set of inline elements authors use in
// helper copy and strips everything else.
func sanitizeHelperText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(helperSanitizer().Sanitize(trimmed))
}

func helperSanitizer() *bluemonday.Policy {
	helperPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("b", "strong", "i", "em", "code", "br", "small")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowURLSchemes("https", "http", "mailto")
		policy.RequireNoFollowOnLinks(true)
		policy.AddTargetBlankToFullyQualifiedLinks(true)
		helperPolicy = policy
	})
	return helperPolicy
}
