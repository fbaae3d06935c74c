package m3u

import (
	"regexp"
	"strings"

	"github.com/samber/mo"
)

// Recognized directive attributes.
const (
	AttrLogo  = "tvg-logo"
	AttrID    = "tvg-id"
	AttrGroup = "group-title"
)

var (
	logoRegex  = attributeRegex(AttrLogo)
	idRegex    = attributeRegex(AttrID)
	groupRegex = attributeRegex(AttrGroup)
)

// attributeRegex matches name="value" with a case-insensitive name. The name
// must not be glued to a preceding word or hyphen, so x-tvg-id does not match.
func attributeRegex(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\w-])` + regexp.QuoteMeta(name) + `="([^"]*)"`)
}

// Directive holds the metadata carried by one #EXTINF line.
type Directive struct {
	Title string
	Logo  mo.Option[string]
	ID    mo.Option[string]
	Group mo.Option[string]
}

// ExtractDirective extracts the title and the recognized attributes from the
// payload of an #EXTINF line (the text after the directive prefix).
//
// The title is the trimmed text after the last comma, or empty when there is
// no comma. Attributes are matched independently of each other; a missing or
// malformed attribute is absent. It never fails.
func ExtractDirective(payload string) Directive {
	d := Directive{
		Logo:  extractAttribute(logoRegex, payload),
		ID:    extractAttribute(idRegex, payload),
		Group: extractAttribute(groupRegex, payload),
	}

	if idx := strings.LastIndex(payload, ","); idx >= 0 {
		d.Title = strings.TrimSpace(payload[idx+1:])
	}

	return d
}

func extractAttribute(re *regexp.Regexp, payload string) mo.Option[string] {
	matches := re.FindStringSubmatch(payload)
	if len(matches) < 2 {
		return mo.None[string]()
	}
	return mo.Some(matches[1])
}

// directivePayload returns the text after the #EXTINF prefix. The delimiter
// that follows the prefix is kept; it cannot be mistaken for an attribute.
func directivePayload(line string) string {
	return strings.TrimPrefix(line, DirectivePrefix)
}
