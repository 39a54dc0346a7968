// Package errors provides structured, actionable errors for tablesync.
//
// Each error has a registered code (e.g. "E101") that maps to a category,
// a short message, an optional explanation and a hint:
//
//	err := errors.New("E103").
//	    WithDetailf("got %q", cfg.Table.History)
//
//	fmt.Print(err.Format())
//	// ERROR E103: Invalid history mode
//	//
//	//   got "back"
//	//
//	//   Hint: Set table.history to "push" or "replace"
//
// TableError implements Unwrap, and Is compares codes, so errors.Is and
// errors.As work across wrapping.
//
// Codes are grouped by category:
//   - E100-E119: config
//   - E200-E219: protocol
//   - E300-E319: runtime
//   - E400-E419: cli
package errors
