package services

import "github.com/microcosm-cc/bluemonday"

// Sanitizer cleans user supplied HTML before it is stored.
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

type descriptionSanitizer struct {
	policy *bluemonday.Policy
}

// NewDescriptionSanitizer allows basic formatting and https links in product descriptions.
// Scripts, styles, iframes and event attributes are dropped.
func NewDescriptionSanitizer() Sanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "br", "ul", "ol", "li", "strong", "em", "b", "i", "h3", "h4")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("https")
	p.AllowRelativeURLs(false)
	p.RequireNoReferrerOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return &descriptionSanitizer{policy: p}
}

func (s *descriptionSanitizer) Sanitize(rawHTML string) string {
	return s.policy.Sanitize(rawHTML)
}
