package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (E100-E119)
	// ============================================

	"E100": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create tablesync.json or pass --config",
	},
	"E101": {
		Category:   CategoryConfig,
		Message:    "Invalid configuration file",
		Suggestion: "Check that tablesync.json is valid JSON",
	},
	"E102": {
		Category:   CategoryConfig,
		Message:    "Invalid server address",
		Detail:     "server.addr must be host:port.",
		Suggestion: `Use a value like ":8080" or "localhost:8080"`,
	},
	"E103": {
		Category:   CategoryConfig,
		Message:    "Invalid history mode",
		Suggestion: `Set table.history to "push" or "replace"`,
	},
	"E104": {
		Category:   CategoryConfig,
		Message:    "Invalid log setting",
		Suggestion: `log.level is one of debug, info, warn, error; log.format is "text" or "json"`,
	},
	"E105": {
		Category:   CategoryConfig,
		Message:    "Conflicting query parameter names",
		Detail:     "table.sortParam and table.searchParam must differ.",
		Suggestion: `Keep the defaults "sort" and "q" unless they clash with your page`,
	},
	"E106": {
		Category: CategoryConfig,
		Message:  "Invalid buffer size",
		Detail:   "server.readBufferSize and server.writeBufferSize must not be negative.",
	},
	"E107": {
		Category:   CategoryValidation,
		Message:    "Invalid table column",
		Suggestion: "Give every column a unique, non-empty id",
	},

	// ============================================
	// Protocol Errors (E200-E219)
	// ============================================

	"E200": {
		Category: CategoryProtocol,
		Message:  "Malformed handshake",
		Detail:   "The first websocket message was not a valid ClientHello frame.",
	},
	"E201": {
		Category:   CategoryProtocol,
		Message:    "Protocol version mismatch",
		Suggestion: "Reload the page to pick up the current client runtime",
	},
	"E202": {
		Category: CategoryProtocol,
		Message:  "Unknown table",
		Detail:   "The client asked for a table that is not registered on this server.",
	},
	"E203": {
		Category: CategoryProtocol,
		Message:  "Malformed event",
	},

	// ============================================
	// Runtime Errors (E300-E319)
	// ============================================

	"E300": {
		Category: CategoryRuntime,
		Message:  "Data fetch failed",
		Detail:   "The table keeps showing the previous page.",
	},
	"E301": {
		Category: CategoryRuntime,
		Message:  "Render failed",
	},
	"E302": {
		Category: CategoryRuntime,
		Message:  "Duplicate table registration",
	},

	// ============================================
	// CLI Errors (E400-E419)
	// ============================================

	"E400": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
	},
	"E401": {
		Category: CategoryCLI,
		Message:  "Server failed",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
// It is not safe to call concurrently with New.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
