package filter

import (
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/schema"

	"github.com/vango-dev/tablesync/pkg/sortstate"
	"github.com/vango-dev/tablesync/pkg/urlquery"
)

// Names are the query parameter names a table owns besides its column
// filters, which use the column's field name.
type Names struct {
	Search string
	Sort   string
}

// DefaultNames is q and sort.
var DefaultNames = Names{Search: "q", Sort: "sort"}

func (n Names) withDefaults() Names {
	if n.Search == "" {
		n.Search = DefaultNames.Search
	}
	if n.Sort == "" {
		n.Sort = DefaultNames.Sort
	}
	return n
}

// State is the filter state of one table: the global search term and one
// value per filtered field. Values are trimmed and an empty value means
// absent.
type State struct {
	global  string
	columns map[string]string
}

// Global returns the global search term.
func (s *State) Global() string {
	return s.global
}

// SetGlobal sets the global search term and reports whether it changed.
func (s *State) SetGlobal(v string) bool {
	v = strings.TrimSpace(v)
	if v == s.global {
		return false
	}
	s.global = v
	return true
}

// Column returns the filter value of field.
func (s *State) Column(field string) string {
	return s.columns[field]
}

// SetColumn sets the filter value of field and reports whether it changed.
func (s *State) SetColumn(field, v string) bool {
	if field == "" {
		return false
	}
	v = strings.TrimSpace(v)
	if v == s.columns[field] {
		return false
	}
	if v == "" {
		delete(s.columns, field)
		return true
	}
	if s.columns == nil {
		s.columns = make(map[string]string)
	}
	s.columns[field] = v
	return true
}

// Columns returns a copy of the per-field filters.
func (s *State) Columns() map[string]string {
	return maps.Clone(s.columns)
}

// Empty reports whether neither a filter nor a search term is set.
func (s *State) Empty() bool {
	return s.global == "" && len(s.columns) == 0
}

// Remap computes the filters the data source receives. Every field in
// filterable gets its own filter value, or the global term when it has
// none. matchAll is true when there is no global term: the remaining
// filters must then all match, otherwise any may.
func (s *State) Remap(filterable []string) (filters map[string]string, matchAll bool) {
	filters = make(map[string]string, len(filterable))
	for k, v := range s.columns {
		filters[k] = v
	}
	for _, field := range filterable {
		if v := s.columns[field]; v != "" {
			continue
		}
		if s.global != "" {
			filters[field] = s.global
		}
	}
	return filters, s.global == ""
}

// Params returns the URL assignments for this state. Fields listed in
// filterable but not filtered are returned with an empty value so stale
// parameters are removed from the URL.
func (s *State) Params(names Names, filterable []string) []urlquery.Param {
	names = names.withDefaults()
	params := []urlquery.Param{{Name: names.Search, Value: s.global}}
	seen := make(map[string]bool, len(filterable))
	for _, field := range s.fields(filterable) {
		if seen[field] {
			continue
		}
		seen[field] = true
		params = append(params, urlquery.Param{Name: field, Value: s.columns[field]})
	}
	return params
}

// QueryString serializes the state as a query string without the leading
// "?": the global term first, then the field filters sorted by field.
func (s *State) QueryString(names Names) string {
	names = names.withDefaults()
	var parts []string
	if s.global != "" {
		parts = append(parts, urlquery.Escape(names.Search)+"="+urlquery.Escape(s.global))
	}
	for _, field := range slices.Sorted(maps.Keys(s.columns)) {
		parts = append(parts, urlquery.Escape(field)+"="+urlquery.Escape(s.columns[field]))
	}
	return strings.Join(parts, "&")
}

// fields returns filterable followed by any other filtered field, sorted.
func (s *State) fields(filterable []string) []string {
	fields := slices.Clone(filterable)
	extra := make([]string, 0, len(s.columns))
	for k := range s.columns {
		if !slices.Contains(filterable, k) {
			extra = append(extra, k)
		}
	}
	slices.Sort(extra)
	return append(fields, extra...)
}

// Initial is what a page URL says about a table when it is first rendered.
type Initial struct {
	State State
	Sort  sortstate.Meta
}

type fixedParams struct {
	Q    string `schema:"q"`
	Sort string `schema:"sort"`
}

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// FromValues hydrates the initial table state from the query of the page
// URL. Only fields in filterable are read as column filters.
func FromValues(values url.Values, names Names, filterable []string) (Initial, error) {
	names = names.withDefaults()

	// Configured names are moved onto the fixed schema keys.
	fixed := url.Values{}
	for key, name := range map[string]string{"q": names.Search, "sort": names.Sort} {
		if v := lookup(values, name); v != "" {
			fixed.Set(key, v)
		}
	}

	var p fixedParams
	if err := decoder.Decode(&p, fixed); err != nil {
		return Initial{}, err
	}

	var in Initial
	in.State.SetGlobal(p.Q)
	in.Sort = sortstate.ParseMeta(p.Sort)
	for _, field := range filterable {
		in.State.SetColumn(field, lookup(values, field))
	}
	return in, nil
}

// Parse is FromValues over the query of rawURL. Parameter names are read
// the way urlquery.Update writes them, ignoring case.
func Parse(rawURL string, names Names, filterable []string) (Initial, error) {
	names = names.withDefaults()
	keys := append([]string{names.Search, names.Sort}, filterable...)
	return FromValues(urlquery.Values(rawURL, keys...), names, filterable)
}

// lookup returns the first value of name, preferring an exact key and
// falling back to a case-insensitive match.
func lookup(values url.Values, name string) string {
	if v, ok := values[name]; ok && len(v) > 0 {
		return v[0]
	}
	for key, v := range values {
		if len(v) > 0 && strings.EqualFold(key, name) {
			return v[0]
		}
	}
	return ""
}
