package extraction

import (
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// nuxtLookahead is how many entries after a matching key are inspected.
const nuxtLookahead = 4

// nuxtMinLength is the shortest string accepted as a field value.
const nuxtMinLength = 4

// loadNuxt parses the page's embedded __NUXT_DATA__ payload once. The payload
// is a flat JSON array where a key string is followed closely by its value.
func (p *page) loadNuxt() []gjson.Result {
	if p.nuxtLoaded {
		return p.nuxt
	}
	p.nuxtLoaded = true

	raw := p.doc.Find("script#__NUXT_DATA__").First().Text()
	if raw == "" || !gjson.Valid(raw) {
		return nil
	}
	root := gjson.Parse(raw)
	if !root.IsArray() {
		return nil
	}
	p.nuxt = root.Array()
	return p.nuxt
}

// nuxtField returns the first plausible string value following field in the
// embedded data, or "" if there is none.
func nuxtField(field string) Strategy {
	return func(p *page) string {
		data := p.loadNuxt()
		for i, item := range data {
			if item.Type != gjson.String || item.Str != field {
				continue
			}
			end := min(i+1+nuxtLookahead, len(data))
			for _, candidate := range data[i+1 : end] {
				if candidate.Type == gjson.String && utf8.RuneCountInString(candidate.Str) >= nuxtMinLength {
					return candidate.Str
				}
			}
		}
		return ""
	}
}
