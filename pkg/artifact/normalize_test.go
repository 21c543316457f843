package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare content untouched",
			raw:  "# Roadmap\n- Phase 1\n- Phase 2",
			want: "# Roadmap\n- Phase 1\n- Phase 2",
		},
		{
			name: "fenced with language tag",
			raw:  "```json\n{\"nodes\": []}\n```",
			want: "{\"nodes\": []}",
		},
		{
			name: "fenced without language tag",
			raw:  "```\ngraph TD\nA-->B\n```",
			want: "graph TD\nA-->B",
		},
		{
			name: "surrounding whitespace",
			raw:  "  \n```xml\n<mxGraphModel/>\n```\n  ",
			want: "<mxGraphModel/>",
		},
		{
			name: "embedded fences survive",
			raw:  "```markdown\n# Notes\n```python\nprint(1)\n```\n- done\n```",
			want: "# Notes\n```python\nprint(1)\n```\n- done",
		},
		{
			name: "leading fence only",
			raw:  "```mermaid\nflowchart LR\nA-->B",
			want: "flowchart LR\nA-->B",
		},
		{
			name: "empty input",
			raw:  "   \n",
			want: "",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.raw))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"```json\n{\"series\": [{\"type\": \"pie\"}]}\n```",
		"# Mindmap\n- a\n- b",
		"```\n<mxfile/>\n```",
	}
	for _, raw := range inputs {
		once := Normalize(raw)
		assert.Equal(t, once, Normalize(once), "input %q", raw)
	}
}
