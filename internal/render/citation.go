package render

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var urlPattern = regexp.MustCompile(`https?://[^\s)\]>"]+`)

// Citation is a citation string split into its readable text and embedded link
type Citation struct {
	Text string // Citation without the URL
	URL  string // First http(s) URL in the citation, if any
	Host string // Registrable domain of URL, e.g. "who.int"
}

// ParseCitation splits a free-text citation such as
// "Climate Change 2023. IPCC, 2023. https://www.ipcc.ch/report/ar6/syr/"
func ParseCitation(s string) Citation {
	s = strings.TrimSpace(s)

	loc := urlPattern.FindStringIndex(s)
	if loc == nil {
		return Citation{Text: s}
	}

	raw := strings.TrimRight(s[loc[0]:loc[1]], ".,;:!?")
	text := strings.TrimSpace(s[:loc[0]] + s[loc[0]+len(raw):])
	text = strings.TrimSpace(strings.TrimRight(text, ".,;:- "))
	if text == "" {
		text = raw
	}

	return Citation{
		Text: text,
		URL:  raw,
		Host: hostLabel(raw),
	}
}

// ParseCitations parses every citation, keeping order
func ParseCitations(list []string) []Citation {
	out := make([]Citation, 0, len(list))
	for _, c := range list {
		out = append(out, ParseCitation(c))
	}
	return out
}

// hostLabel returns the registrable domain of rawURL, falling back to the
// bare hostname for IPs, localhost and unknown suffixes
func hostLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	if host == "" {
		return ""
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld1
	}
	return strings.TrimPrefix(host, "www.")
}
