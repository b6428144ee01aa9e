// Package core holds the small numeric, buffer and configuration helpers
// shared by the filter runtime, the equalizer and the tooling around it.
package core
