package ui

// Unicode symbols for status indicators.
const (
	SymbolSuccess  = "✓" // Fresh data, check passed
	SymbolFail     = "✗" // Fetch or check failed
	SymbolPending  = "○" // Nothing fetched yet
	SymbolComplete = "●" // Doctor result marker
)
