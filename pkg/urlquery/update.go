package urlquery

import (
	"net/url"
	"strings"
)

// Update returns rawURL with the query parameter name set to value.
//
// An existing parameter is replaced in place, keeping its position among the
// other parameters; a new one is appended. An empty value removes every
// occurrence of the parameter. Names match case-insensitively. The fragment
// is kept verbatim and the result never ends in a bare "?".
//
// Update never fails: malformed input produces best-effort output, and
// applying the same update twice yields the same URL as applying it once.
func Update(rawURL, name, value string) string {
	base, query, hasQuery, fragment := split(rawURL)
	if name == "" {
		return join(base, segments(query, hasQuery), fragment)
	}

	segs := segments(query, hasQuery)
	out := make([]string, 0, len(segs)+1)
	replaced := false

	for _, seg := range segs {
		if !matches(seg, name) {
			out = append(out, seg)
			continue
		}
		if value == "" || replaced {
			continue
		}
		out = append(out, param(name, value))
		replaced = true
	}

	if value != "" && !replaced {
		out = append(out, param(name, value))
	}

	return join(base, out, fragment)
}

// ReplaceQuery returns rawURL with its whole query section replaced by
// query. A leading "?" on query is ignored; an empty query removes the
// section. The fragment is kept.
func ReplaceQuery(rawURL, query string) string {
	base, _, _, fragment := split(rawURL)
	query = strings.TrimPrefix(query, "?")
	if query == "" {
		return base + fragment
	}
	return base + "?" + query + fragment
}

// Get returns the decoded value of the first parameter matching name, and
// whether it was present.
func Get(rawURL, name string) (string, bool) {
	_, query, hasQuery, _ := split(rawURL)
	for _, seg := range segments(query, hasQuery) {
		if !matches(seg, name) {
			continue
		}
		_, v, _ := strings.Cut(seg, "=")
		return unescape(v), true
	}
	return "", false
}

// Values returns the decoded first value of each of names present in the
// query of rawURL, keyed by the name as given. Names match the way Update
// matches them, so "SORT=x" is returned under "sort". Values that do not
// decode are skipped.
func Values(rawURL string, names ...string) url.Values {
	_, query, hasQuery, _ := split(rawURL)
	segs := segments(query, hasQuery)
	out := url.Values{}
	for _, name := range names {
		if name == "" || out.Has(name) {
			continue
		}
		for _, seg := range segs {
			if !matches(seg, name) {
				continue
			}
			_, raw, _ := strings.Cut(seg, "=")
			if v, err := url.QueryUnescape(raw); err == nil {
				out.Set(name, v)
				break
			}
		}
	}
	return out
}

// split cuts rawURL into the part before the query, the raw query, whether
// a query section was present, and the fragment including its "#". Without
// a "?", a stray "&" starts the query.
func split(rawURL string) (base, query string, hasQuery bool, fragment string) {
	rest := rawURL
	if i := strings.IndexByte(rest, '#'); i >= 0 {
		rest, fragment = rest[:i], rest[i:]
	}
	base, query, hasQuery = strings.Cut(rest, "?")
	if !hasQuery {
		base, query, hasQuery = strings.Cut(rest, "&")
	}
	return base, query, hasQuery, fragment
}

// segments returns the non-empty "key=value" parts of query.
func segments(query string, hasQuery bool) []string {
	if !hasQuery || query == "" {
		return nil
	}
	segs := strings.Split(query, "&")
	out := segs[:0]
	for _, seg := range segs {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

func join(base string, segs []string, fragment string) string {
	if len(segs) == 0 {
		return base + fragment
	}
	return base + "?" + strings.Join(segs, "&") + fragment
}

// matches reports whether a raw "key=value" segment carries name.
func matches(seg, name string) bool {
	key, _, _ := strings.Cut(seg, "=")
	if key == "" {
		return false
	}
	return strings.EqualFold(unescape(key), name)
}

func param(name, value string) string {
	return Escape(name) + "=" + Escape(value)
}

func unescape(s string) string {
	if u, err := url.QueryUnescape(s); err == nil {
		return u
	}
	return s
}

var componentUnescaper = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// Escape encodes s for use as a query key or value, the way browsers encode
// a URI component: spaces become "%20" and !'()* are left as is.
func Escape(s string) string {
	return componentUnescaper.Replace(url.QueryEscape(s))
}
