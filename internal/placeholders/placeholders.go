// Package placeholders substitutes site information into template text.
package placeholders

import (
	"regexp"

	"github.com/deCybercop/wp-calypso/internal/models"
)

// KnownTokens are the placeholder names every site is expected to provide
var KnownTokens = []string{
	"site_title",
	"site_tagline",
	"site_description",
	"site_url",
	"site_email",
	"site_phone",
	"site_address",
}

var tokenPattern = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_]+)\s*\}\}`)

// Replace substitutes every {{token}} whose name appears in info. Tokens
// without a value are left exactly as written.
func Replace(text string, info models.SiteInformation) string {
	if text == "" || len(info) == 0 {
		return text
	}
	return tokenPattern.ReplaceAllStringFunc(text, func(match string) string {
		name := tokenPattern.FindStringSubmatch(match)[1]
		if value, ok := info[name]; ok {
			return value
		}
		return match
	})
}

// Missing returns the known tokens that info does not provide
func Missing(info models.SiteInformation) []string {
	var missing []string
	for _, token := range KnownTokens {
		if _, ok := info[token]; !ok {
			missing = append(missing, token)
		}
	}
	return missing
}
