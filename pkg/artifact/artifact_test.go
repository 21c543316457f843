package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSniff(t *testing.T) {
	for _, tc := range []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "   ", LabelNone},
		{"mermaid keyword", "```mermaid\ngraph LR", LabelFlowchart},
		{"graph TD", "graph TD\nA-->B", LabelFlowchart},
		{"flowchart keyword", "flowchart LR\nA-->B", LabelFlowchart},
		{"echarts option", `{"series": [{"type": "pie"}]}`, LabelChart},
		{"markdown outline", "# Plan\n- step one\n- step two", LabelMindmap},
		{"heading levels", "# Plan\n## Details", LabelMindmap},
		{"plain prose", "hello there", LabelNone},
		// A chart whose label text mentions a flowchart still counts as
		// a flowchart; the first matching rule wins.
		{"mermaid beats chart", `{"series": [{"type": "bar", "name": "flowchart"}]}`, LabelFlowchart},
		{"chart beats mindmap", `{"title": "# sales", "series": [{"type": "line"}], "items": "- a"}`, LabelChart},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Sniff(tc.content))
		})
	}
}

func TestContextLabel(t *testing.T) {
	for _, tc := range []struct {
		name  string
		state State
		want  string
	}{
		{"empty content always none", State{Format: FormatChart, Content: "  "}, LabelNone},
		{"tagged mindmap", State{Format: FormatMindmap, Content: "# a\n- b"}, LabelMindmap},
		{"tagged flow", State{Format: FormatFlow, Content: `{"nodes": []}`}, LabelFlow},
		{"tagged chart", State{Format: FormatChart, Content: `{"series": []}`}, LabelChart},
		{"tagged mermaid", State{Format: FormatMermaid, Content: "graph TD"}, LabelFlowchart},
		{"tagged drawio", State{Format: FormatDrawio, Content: "<mxfile/>"}, LabelDrawio},
		{"tagged none", State{Format: FormatNone, Content: "whatever"}, LabelNone},
		// The tag wins over what the content looks like.
		{"tag beats fingerprint", State{Format: FormatMindmap, Content: "graph TD\nA-->B"}, LabelMindmap},
		// Unknown provenance falls back to sniffing.
		{"untagged chart", State{Content: `{"series": [{"type": "bar"}]}`}, LabelChart},
		{"untagged prose", State{Content: "just words"}, LabelNone},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.state.ContextLabel())
		})
	}
}
