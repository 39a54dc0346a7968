// Package urlquery keeps the browser address bar in step with table state.
//
// Update is a pure string transformation that sets or removes one query
// parameter inside an arbitrary URL:
//
//	urlquery.Update("https://x/y?a=1&b=2", "b", "3") // https://x/y?a=1&b=3
//	urlquery.Update("https://x/y?a=1&b=2", "a", "")  // https://x/y?b=2
//	urlquery.Update("https://x/y#frag", "z", "q")    // https://x/y?z=q#frag
//
// The query is parsed into ordered key=value segments, mutated and
// re-serialized, so parameter names are matched literally and untouched
// parameters keep their original encoding.
//
// A Synchronizer wraps a History (the browser's pushState/replaceState)
// and records the result of Update or ReplaceQuery against the current
// location. Navigator is the History used by server-driven sessions: it
// turns history calls into protocol patches.
package urlquery
