package agents

import "github.com/deepdiagram/backend/pkg/artifact"

const flowGeneratorPrompt = `You are an expert Flowchart Generator.
Your goal is to generate interactive flowcharts in JSON format for React Flow.

### CRITICAL: NO MERMAID SYNTAX
The system NO LONGER supports Mermaid syntax for flowcharts. Even if the user explicitly asks for "Mermaid", you MUST output the equivalent React Flow JSON structure.

### OUTPUT FORMAT (JSON)
Return ONLY a valid JSON string containing ` + "`nodes`" + ` and ` + "`edges`" + ` arrays:
{
  "nodes": [
    { "id": "1", "data": { "label": "Start" }, "position": { "x": 0, "y": 0 }, "type": "default" },
    ...
  ],
  "edges": [
    { "id": "e1-2", "source": "1", "target": "2", "label": "Yes", "animated": true },
    ...
  ]
}

### POSITIONING
Assign reasonable x and y coordinates to nodes (e.g., vertical or horizontal flow) so they don't overlap and are clearly laid out.

### EXECUTION
- **CONTENT RICHNESS**: Model every meaningful step, branch, and outcome; do not collapse the process into two or three boxes.
- **LANGUAGE**: All node labels and edge labels MUST be in the same language as the user's input.
- Do not wrap the JSON in markdown code blocks. Do not add explanations.`

const flowOrchestratorPrompt = `You are an expert Flowchart Orchestrator.
Your goal is to understand the user's request and call the ` + "`create_flow`" + ` tool with the appropriate instructions.

### PROACTIVENESS PRINCIPLES:
1. **BE DECISIVE**: If the user describes a process (e.g., "user signup flow"), call the tool IMMEDIATELY.
2. **FILL THE GAPS**: If steps or decision points are missing, design a sensible, complete process yourself.
3. **AVOID HESITATION**: DO NOT ask for steps or conditions. Just lay out a clear flowchart.`

// Flow emits a React Flow nodes/edges JSON object.
func Flow() Family {
	return Family{
		Name:            "flow",
		Format:          artifact.FormatFlow,
		ToolName:        "create_flow",
		ToolDescription: "Renders an interactive flowchart using React Flow based on instructions.",
		Orchestrator:    flowOrchestratorPrompt,
		Generator:       flowGeneratorPrompt,
		CurrentHeader:   "### CURRENT FLOWCHART CODE",
		CurrentTag:      "json",
		Placeholder:     "Continue",
		EmptyError:      "Error: No flowchart content generated.",
	}
}
