// Package artifact models the diagram payload currently on screen: its
// format tag, its content, and the normalization applied to raw model
// output before it becomes an artifact.
package artifact

import "strings"

// Format tags the artifact with the family that produced it. The zero
// value marks content of unknown provenance (e.g. supplied by an older
// client); for those the format has to be guessed by Sniff.
type Format string

const (
	FormatUnknown Format = ""
	FormatNone    Format = "none"
	FormatMindmap Format = "mindmap-markdown"
	FormatFlow    Format = "flow-json"
	FormatChart   Format = "chart-json"
	FormatMermaid Format = "mermaid-text"
	FormatDrawio  Format = "drawio-xml"
)

// State is the artifact owned by one dispatch cycle. It is replaced
// wholesale on each successful agent turn, never merged.
type State struct {
	Format  Format
	Content string
}

func (s State) Empty() bool {
	return strings.TrimSpace(s.Content) == ""
}

// Context labels shown to the router as the "current visual context".
const (
	LabelNone      = "None"
	LabelFlowchart = "Flowchart (Mermaid)"
	LabelChart     = "Chart (ECharts)"
	LabelMindmap   = "Mindmap (Markdown)"
	LabelFlow      = "Flowchart (React Flow)"
	LabelDrawio    = "Architecture Diagram (Draw.io)"
)

// ContextLabel resolves the active visual context. Tagged formats map
// directly; unknown-provenance content falls back to fingerprint
// sniffing. Empty content is always "None".
func (s State) ContextLabel() string {
	if s.Empty() {
		return LabelNone
	}
	switch s.Format {
	case FormatNone:
		return LabelNone
	case FormatMindmap:
		return LabelMindmap
	case FormatFlow:
		return LabelFlow
	case FormatChart:
		return LabelChart
	case FormatMermaid:
		return LabelFlowchart
	case FormatDrawio:
		return LabelDrawio
	}
	return Sniff(s.Content)
}

// Sniff guesses the context label from family-specific syntax
// fingerprints. The checks run in fixed precedence order: a chart spec
// could incidentally contain substrings matched by a laxer rule, so the
// order is a deliberate tie-break.
func Sniff(content string) string {
	if strings.TrimSpace(content) == "" {
		return LabelNone
	}
	if strings.Contains(content, "mermaid") ||
		strings.Contains(content, "graph TD") ||
		strings.Contains(content, "flowchart") {
		return LabelFlowchart
	}
	if strings.Contains(content, "series") && strings.Contains(content, "type") {
		return LabelChart
	}
	if strings.Contains(content, "# ") &&
		(strings.Contains(content, "- ") || strings.Contains(content, "##")) {
		return LabelMindmap
	}
	return LabelNone
}
