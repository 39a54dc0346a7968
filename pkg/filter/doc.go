// Package filter holds the filtering side of a table: the global search box
// and the filter state that is mirrored into the page URL.
//
// A State is trimmed on every write, so "  foo " and "foo" are the same
// filter and an all-blank value removes it. Remap turns it into what the
// data source sees: fields without their own filter inherit the global
// term, and a global term switches matching from all-of to any-of.
//
// GlobalSearch follows the usual search box behaviour: typing only updates
// the visible input, and the table is filtered when the user presses Enter,
// clicks the search button or fires the input's search event, and then only
// if the trimmed term differs from the committed one.
package filter
