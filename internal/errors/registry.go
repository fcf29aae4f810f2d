package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Invariant Violations (E100-E119)
	// ============================================

	"E100": {
		Category: CategoryInvariant,
		Message:  "Diff called without an old or a new node",
		Detail:   "The differ was asked to reconcile a tree position where both the previous and the next node are absent. This is a bug in the caller: positions with no node on either side must never be visited.",
		DocURL:   "https://retain.vango.dev/docs/errors/E100",
	},
	"E101": {
		Category: CategoryInvariant,
		Message:  "Unsupported node kind",
		Detail:   "Build accepts a tag name (string) or a Component. Any other kind cannot be turned into a node.",
		DocURL:   "https://retain.vango.dev/docs/errors/E101",
	},
	"E102": {
		Category: CategoryInvariant,
		Message:  "Component chain too deep",
		Detail:   "A component kept returning another component instead of a node. This usually means two components chain to each other.",
		DocURL:   "https://retain.vango.dev/docs/errors/E102",
	},
	"E103": {
		Category: CategoryInvariant,
		Message:  "Update on a node that was never mounted",
		Detail:   "Update needs a node that already owns a canvas handle. Pass the node returned by Mount, or a node from a rendered tree.",
		DocURL:   "https://retain.vango.dev/docs/errors/E103",
	},
	"E104": {
		Category: CategoryInvariant,
		Message:  "Component produced no node",
		Detail:   "Mount and Update need the component to return a node. Return an element or text node instead of nil.",
		DocURL:   "https://retain.vango.dev/docs/errors/E104",
	},

	// ============================================
	// Canvas Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryCanvas,
		Message:  "Canvas operation failed",
		Detail:   "The Canvas Adapter returned an error. The render pass was aborted and the canvas may be left partially updated.",
		DocURL:   "https://retain.vango.dev/docs/errors/E120",
	},
	"E121": {
		Category: CategoryCanvas,
		Message:  "Handle has no parent",
		Detail:   "The node being updated is no longer attached to the canvas, so there is no parent to render into.",
		DocURL:   "https://retain.vango.dev/docs/errors/E121",
	},

	// ============================================
	// Runtime Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryRuntime,
		Message:  "Deferred task panicked",
		Detail:   "A lifecycle hook or listener application panicked while the deferred queue was drained. The remaining tasks still ran.",
		DocURL:   "https://retain.vango.dev/docs/errors/E130",
	},
	"E131": {
		Category: CategoryRuntime,
		Message:  "Deferred task failed",
		Detail:   "A deferred task returned an error while the queue was drained. The remaining tasks still ran.",
		DocURL:   "https://retain.vango.dev/docs/errors/E131",
	},

	// ============================================
	// Hydration Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryHydration,
		Message:  "Canvas cannot be hydrated",
		Detail:   "Hydration was requested but the Canvas Adapter does not implement canvas.Hydrator, so existing content cannot be enumerated.",
		DocURL:   "https://retain.vango.dev/docs/errors/E140",
	},

	// ============================================
	// Config Errors (E200-E219)
	// ============================================

	"E200": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "retain.json contains a value that is out of range or not recognized.",
		DocURL:   "https://retain.vango.dev/docs/errors/E200",
	},
	"E201": {
		Category: CategoryConfig,
		Message:  "Configuration file could not be read",
		Detail:   "retain.json exists but could not be read or is not valid JSON.",
		DocURL:   "https://retain.vango.dev/docs/errors/E201",
	},

	// ============================================
	// CLI Errors (E220-E239)
	// ============================================

	"E220": {
		Category: CategoryCLI,
		Message:  "Snapshot store unavailable",
		Detail:   "A snapshot was requested but neither a directory nor an S3 bucket is configured.",
		DocURL:   "https://retain.vango.dev/docs/errors/E220",
	},
}

// Lookup returns the template for a code.
func Lookup(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Codes returns all registered codes.
func Codes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}
