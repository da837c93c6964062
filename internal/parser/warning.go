package parser

import "fmt"

// WarningKind classifies a non-fatal problem found while building.
type WarningKind string

const (
	WarnUnknownGaiji    WarningKind = "unknown_gaiji"
	WarnUnmatchedTarget WarningKind = "unmatched_target"
	WarnStrayBlockEnd   WarningKind = "stray_block_end"
	WarnStrayEnd        WarningKind = "stray_end"
	WarnUnclosedBlock   WarningKind = "unclosed_block"
	WarnUnrecognized    WarningKind = "unrecognized_command"
)

// Warning records where and why markup was dropped or degraded.
type Warning struct {
	Line   int         `json:"line"`
	Kind   WarningKind `json:"kind"`
	Detail string      `json:"detail,omitempty"`
}

func (w Warning) String() string {
	if w.Detail == "" {
		return fmt.Sprintf("line %d: %s", w.Line, w.Kind)
	}
	return fmt.Sprintf("line %d: %s: %s", w.Line, w.Kind, w.Detail)
}
