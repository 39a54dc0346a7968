package urlquery

import (
	"testing"
)

func TestUpdate(t *testing.T) {
	tests := []struct {
		name  string
		url   string
		param string
		value string
		want  string
	}{
		{"replace existing", "https://x/y?a=1&b=2", "b", "3", "https://x/y?a=1&b=3"},
		{"append new", "https://x/y?a=1&b=2", "c", "3", "https://x/y?a=1&b=2&c=3"},
		{"remove first", "https://x/y?a=1&b=2", "a", "", "https://x/y?b=2"},
		{"remove last", "https://x/y?a=1&b=2", "b", "", "https://x/y?a=1"},
		{"remove only", "https://x/y?a=1", "a", "", "https://x/y"},
		{"add to fragment url", "https://x/y#frag", "z", "q", "https://x/y?z=q#frag"},
		{"add without query", "https://x/y", "z", "q", "https://x/y?z=q"},
		{"replace keeps fragment", "https://x/y?a=1#top", "a", "2", "https://x/y?a=2#top"},
		{"remove keeps fragment", "https://x/y?a=1#top", "a", "", "https://x/y#top"},
		{"remove missing", "https://x/y?a=1", "b", "", "https://x/y?a=1"},
		{"remove missing no query", "https://x/y", "b", "", "https://x/y"},
		{"bare question mark", "https://x/y?", "a", "", "https://x/y"},
		{"bare question mark add", "https://x/y?", "a", "1", "https://x/y?a=1"},
		{"case insensitive", "https://x/y?Sort=name", "sort", "-name", "https://x/y?sort=-name"},
		{"replace middle", "https://x/y?a=1&b=2&c=3", "b", "x", "https://x/y?a=1&b=x&c=3"},
		{"encode value", "https://x/y", "q", "a b&c=d", "https://x/y?q=a%20b%26c%3Dd"},
		{"replace encoded value", "https://x/y?q=a%26b&p=1", "q", "z", "https://x/y?q=z&p=1"},
		{"name is not a substring", "https://x/y?aa=1&a=2", "a", "3", "https://x/y?aa=1&a=3"},
		{"name with regex chars", "https://x/y?a.b=1&axb=2", "a.b", "", "https://x/y?axb=2"},
		{"duplicates collapse", "https://x/y?a=1&b=2&a=3", "a", "9", "https://x/y?a=9&b=2"},
		{"duplicates removed", "https://x/y?a=1&b=2&a=3", "a", "", "https://x/y?b=2"},
		{"key without value", "https://x/y?flag&a=1", "flag", "", "https://x/y?a=1"},
		{"relative url", "/items?page=2", "q", "go", "/items?page=2&q=go"},
		{"empty name", "https://x/y?a=1", "", "v", "https://x/y?a=1"},
		{"remove before trailing ampersand", "https://x/y?a=1&", "a", "", "https://x/y"},
		{"remove after leading ampersand", "https://x/y?&a=1", "a", "", "https://x/y"},
		{"empty segments dropped", "https://x/y?a=1&&b=2", "c", "3", "https://x/y?a=1&b=2&c=3"},
		{"stray ampersand becomes question mark", "https://x/y&b=2", "c", "3", "https://x/y?b=2&c=3"},
		{"stray ampersand remove", "https://x/y&b=2", "b", "", "https://x/y"},
		{"stray ampersand keeps fragment", "https://x/y&b=2#f", "b", "5", "https://x/y?b=5#f"},
		{"component characters kept", "https://x/y", "q", "x(y)!*'", "https://x/y?q=x(y)!*'"},
		{"plus encoded", "https://x/y", "q", "1+1", "https://x/y?q=1%2B1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Update(tt.url, tt.param, tt.value); got != tt.want {
				t.Errorf("Update(%q, %q, %q) = %q, want %q", tt.url, tt.param, tt.value, got, tt.want)
			}
		})
	}
}

func TestUpdateIdempotent(t *testing.T) {
	urls := []string{
		"https://x/y",
		"https://x/y?",
		"https://x/y?a=1&b=2",
		"https://x/y?a=1&a=2#f",
		"https://x/y#frag",
		"/rel?q=a%20b",
		"https://x/y?&&a=1",
		"https://x/y?a=1&",
		"https://x/y?&a=1",
		"https://x/y&b=2",
		"https://x/y&a=1&b=2#f",
		"not a url at all",
	}
	names := []string{"a", "b", "q", "A"}
	values := []string{"", "1", "a b", "x&y=z", "f(x)"}

	for _, u := range urls {
		for _, n := range names {
			for _, v := range values {
				once := Update(u, n, v)
				twice := Update(once, n, v)
				if once != twice {
					t.Errorf("Update not idempotent for (%q, %q, %q): %q then %q", u, n, v, once, twice)
				}
			}
		}
	}
}

func TestReplaceQuery(t *testing.T) {
	tests := []struct {
		url   string
		query string
		want  string
	}{
		{"https://x/y?a=1&b=2", "q=go", "https://x/y?q=go"},
		{"https://x/y?a=1", "", "https://x/y"},
		{"https://x/y", "?q=go", "https://x/y?q=go"},
		{"https://x/y#frag", "q=go", "https://x/y?q=go#frag"},
		{"https://x/y?a=1#frag", "", "https://x/y#frag"},
	}

	for _, tt := range tests {
		if got := ReplaceQuery(tt.url, tt.query); got != tt.want {
			t.Errorf("ReplaceQuery(%q, %q) = %q, want %q", tt.url, tt.query, got, tt.want)
		}
	}
}

func TestGet(t *testing.T) {
	v, ok := Get("https://x/y?q=a%20b&sort=-name#f", "Q")
	if !ok || v != "a b" {
		t.Errorf("Get q = %q, %v", v, ok)
	}
	if _, ok := Get("https://x/y?q=1", "sort"); ok {
		t.Error("Get sort should be absent")
	}
}
