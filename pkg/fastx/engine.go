package fastx

// Engine is the divisor-extraction pass consumed by [Run]. It is treated
// as a black box: given the original covers and fanin lists in the
// Context, it may populate NewCovers and NewFanins for any identifier in
// the extended domain. For an existing identifier that means "replace
// this node's function and wiring"; for an identifier at or beyond
// Context.OldMax it means "instantiate a new node with this function and
// wiring".
//
// Engines guarantee that every fanin list they emit references only
// identifiers that are either original live nodes or strictly less than
// OldMax plus the returned count - an engine never forward-references a
// node beyond what it is itself introducing.
type Engine interface {
	// Extract runs the pass and returns the number of nodes it
	// introduced. A return of zero or less signals that no beneficial
	// extraction was found; the updated collections must then be treated
	// as not applicable and no reconstruction happens.
	Extract(c *Context) int
}

// NopEngine is an Engine that always declines. It is useful for exercising
// the orchestration without changing any network, and as the conformance
// baseline: any pipeline built on fastx must behave identically with
// NopEngine and with an engine that finds nothing.
type NopEngine struct{}

// Extract reports that no beneficial extraction was found.
func (NopEngine) Extract(*Context) int { return 0 }
