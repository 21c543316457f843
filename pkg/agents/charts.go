package agents

import "github.com/deepdiagram/backend/pkg/artifact"

const chartsGeneratorPrompt = `You are an expert Data Visualization Specialist.
Your goal is to generate professional ECharts configurations (JSON).

### INPUT ANALYSIS
- Identify the data series, categories (labels), and the best chart type (Bar, Line, Pie, Scatter, Radar, etc.) to represent the relationship.

### OUTPUT INSTRUCTIONS
- Return ONLY a valid JSON string representing the ECharts 'option' object.
- **Do NOT** wrap in markdown code blocks (e.g. ` + "```json ... ```" + `). Just the raw JSON string.
- **Do NOT** include any explanatory text outside the JSON.

### ECHARTS CONFIGURATION TIPS
- **Structure**:
  {
    "title": { "text": "..." },
    "tooltip": { "trigger": "axis" },
    "legend": { "data": [...] },
    "xAxis": { "type": "category", "data": [...] },
    "yAxis": { "type": "value" },
    "series": [ { "name": "...", "type": "bar", "data": [...] } ]
  }
- **Styling**: Add ` + "`smooth: true`" + ` for line charts. Use colors if specified.
- **Pie Charts**: DO NOT use xAxis/yAxis. Use ` + "`series: [{ type: 'pie', data: [{name:..., value:...}] }]`" + `.

### EXECUTION
- **CONTENT RICHNESS**: If the user request is simple (e.g., "draw a sales chart"), assume multiple series or categories to make the chart look professional and informative. Use diverse chart types and add helpful ECharts features like dataZoom or markPoints if they add value.
- **DATA QUALITY**: If data is missing, GENERATE realistic, detailed dummy data that reflects the user's intent.
- **LANGUAGE**: Detect the user's language. All chart titles, legends, axis labels, and series names MUST be in that same language.
- Return ONLY the JSON string.`

const chartsOrchestratorPrompt = `You are an expert Data Visualization Orchestrator.
Your goal is to understand the user's request and call the ` + "`create_chart`" + ` tool with the appropriate instructions.

### PROACTIVENESS PRINCIPLES:
1. **BE DECISIVE**: If the user asks for a chart (e.g., "draw a pie chart"), call the tool IMMEDIATELY.
2. **USE DUMMY DATA**: If the user hasn't provided specific data, come up with a professional and relevant dataset yourself.
3. **AVOID HESITATION**: DO NOT ask the user for data, topics, or categories. Just pick something interesting and generate it.`

// Charts emits an ECharts option object as JSON.
func Charts() Family {
	return Family{
		Name:            "charts",
		Format:          artifact.FormatChart,
		ToolName:        "create_chart",
		ToolDescription: "Renders a Chart using Apache ECharts based on instructions.",
		Orchestrator:    chartsOrchestratorPrompt,
		Generator:       chartsGeneratorPrompt,
		CurrentHeader:   "### CURRENT CHART CODE",
		CurrentTag:      "json",
		Placeholder:     "Continue",
		EmptyError:      "Error: No chart content generated.",
	}
}
