package util

import "runtime"

// GetOptimalPoolSize returns a parser pool size for the current machine.
//
// Formula: min(max(runtime.NumCPU(), 2), 8)
//
// Snippet checks are short and mostly sequential, so the pool only needs a
// few parsers for concurrent MCP tool calls or parallel tests.
func GetOptimalPoolSize() int {
	size := runtime.NumCPU()
	if size < 2 {
		size = 2
	}
	if size > 8 {
		size = 8
	}
	return size
}

// GetOptimalPoolSizeWithOverride returns override when positive, otherwise
// GetOptimalPoolSize().
func GetOptimalPoolSizeWithOverride(override int) int {
	if override > 0 {
		return override
	}
	return GetOptimalPoolSize()
}
