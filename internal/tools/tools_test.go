package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucasreb/healthflow/internal/agent"
	"github.com/lucasreb/healthflow/internal/config"
	"github.com/lucasreb/healthflow/internal/store"
	"github.com/lucasreb/healthflow/internal/workflow"
)

// --- Test helpers ---

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// newTestEngine wires a simulation-mode pipeline over a temp store.
func newTestEngine(t *testing.T, st *store.Store) *workflow.Engine {
	t.Helper()
	cfg := config.Default()
	log := zap.NewNop()
	return workflow.New(
		agent.NewResearchAgent(cfg.AI.Research, nil, log),
		agent.NewWriterAgent(cfg.AI.Writing, nil, log),
		agent.NewImageAgent(cfg.AI.Image, nil, log),
		st, log,
	)
}

func callTool(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error),
	args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}

// decodeResult unmarshals the JSON text payload of a successful result.
func decodeResult(t *testing.T, result *mcp.CallToolResult, v any) {
	t.Helper()
	require.False(t, result.IsError, "unexpected tool error: %s", getResultText(t, result))
	require.NoError(t, json.Unmarshal([]byte(getResultText(t, result)), v))
}

// --- calculate_bmi ---

func TestCalculateBMITool(t *testing.T) {
	tool := NewCalculateBMITool()

	assert.Equal(t, "calculate_bmi", tool.Definition().Name)

	result := callTool(t, tool.Handle, map[string]interface{}{
		"weight_kg": 70.0,
		"height_m":  1.75,
	})

	var out struct {
		BMI        float64 `json:"bmi"`
		Assessment string  `json:"assessment"`
	}
	decodeResult(t, result, &out)
	assert.Equal(t, 22.86, out.BMI)
	assert.Equal(t, "Normal weight", out.Assessment)
}

func TestCalculateBMIToolInvalid(t *testing.T) {
	tool := NewCalculateBMITool()

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantMsg string
	}{
		{"zero weight", map[string]interface{}{"weight_kg": 0.0, "height_m": 1.75}, "weight_kg"},
		{"negative height", map[string]interface{}{"weight_kg": 70.0, "height_m": -1.0}, "height_m"},
		{"missing arguments", map[string]interface{}{}, "weight_kg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callTool(t, tool.Handle, tt.args)
			assert.True(t, result.IsError)
			assert.Contains(t, getResultText(t, result), tt.wantMsg)
		})
	}
}

// --- create_content ---

func TestCreateContentTool(t *testing.T) {
	st := newTestStore(t)
	tool := NewCreateContentTool(newTestEngine(t, st))

	result := callTool(t, tool.Handle, map[string]interface{}{
		"topic":          "machine learning in healthcare",
		"depth":          2.0,
		"tone":           "technical",
		"generate_image": true,
		"image_style":    "modern",
	})

	var out workflow.Result
	decodeResult(t, result, &out)
	assert.NotEmpty(t, out.RunID)
	assert.NotEmpty(t, out.Brief.Title)
	assert.Equal(t, "technical", out.Article.Style)
	require.NotNil(t, out.Image)
	assert.Equal(t, "modern", out.Image.StyleUsed)

	// The run landed in the store.
	run, err := st.GetRun(out.RunID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusCompleted, run.Status)
}

func TestCreateContentToolMissingTopic(t *testing.T) {
	tool := NewCreateContentTool(newTestEngine(t, newTestStore(t)))

	result := callTool(t, tool.Handle, map[string]interface{}{})
	assert.True(t, result.IsError)
	assert.Contains(t, getResultText(t, result), "topic")
}

// --- research_topic ---

func TestResearchTopicTool(t *testing.T) {
	cfg := config.Default()
	tool := NewResearchTopicTool(agent.NewResearchAgent(cfg.AI.Research, nil, zap.NewNop()))

	result := callTool(t, tool.Handle, map[string]interface{}{
		"topic": "automation in manufacturing",
		"depth": 3.0,
	})

	var brief agent.ResearchBrief
	decodeResult(t, result, &brief)
	assert.NotEmpty(t, brief.Title)
	assert.GreaterOrEqual(t, len(brief.KeyPoints), 3)
	assert.Equal(t, agent.SimulationModel, brief.ModelUsed)
}

func TestResearchTopicToolMissingTopic(t *testing.T) {
	cfg := config.Default()
	tool := NewResearchTopicTool(agent.NewResearchAgent(cfg.AI.Research, nil, zap.NewNop()))

	result := callTool(t, tool.Handle, map[string]interface{}{"topic": "   "})
	assert.True(t, result.IsError)
}

// --- list_content_runs / get_content_run / search_content ---

func seedRuns(t *testing.T, st *store.Store, topics ...string) []string {
	t.Helper()
	eng := newTestEngine(t, st)
	ids := make([]string, 0, len(topics))
	for _, topic := range topics {
		res, err := eng.Run(context.Background(), workflow.Request{Topic: topic})
		require.NoError(t, err)
		ids = append(ids, res.RunID)
	}
	return ids
}

func TestListContentRunsTool(t *testing.T) {
	st := newTestStore(t)
	seedRuns(t, st, "solar panels", "wind turbines")

	tool := NewListContentRunsTool(st)
	result := callTool(t, tool.Handle, map[string]interface{}{"limit": 10.0})

	var out struct {
		Count int             `json:"count"`
		Runs  []store.Summary `json:"runs"`
	}
	decodeResult(t, result, &out)
	assert.Equal(t, 2, out.Count)
	require.Len(t, out.Runs, 2)
	assert.Equal(t, "wind turbines", out.Runs[0].Topic)
}

func TestGetContentRunTool(t *testing.T) {
	st := newTestStore(t)
	ids := seedRuns(t, st, "container orchestration")

	tool := NewGetContentRunTool(st)
	result := callTool(t, tool.Handle, map[string]interface{}{"run_id": ids[0]})

	var run store.Run
	decodeResult(t, result, &run)
	assert.Equal(t, ids[0], run.ID)
	assert.Equal(t, "container orchestration", run.Topic)
	require.NotNil(t, run.Article)
}

func TestGetContentRunToolNotFound(t *testing.T) {
	tool := NewGetContentRunTool(newTestStore(t))

	result := callTool(t, tool.Handle, map[string]interface{}{"run_id": "no-such-run"})
	assert.True(t, result.IsError)
	assert.Contains(t, getResultText(t, result), "no-such-run")
}

func TestSearchContentTool(t *testing.T) {
	st := newTestStore(t)
	seedRuns(t, st, "kubernetes networking", "sourdough baking")

	tool := NewSearchContentTool(st)
	result := callTool(t, tool.Handle, map[string]interface{}{"query": "kubernetes"})

	var out struct {
		Count   int                  `json:"count"`
		Results []store.SearchResult `json:"results"`
	}
	decodeResult(t, result, &out)
	assert.Equal(t, 1, out.Count)
	require.Len(t, out.Results, 1)
	assert.Equal(t, "kubernetes networking", out.Results[0].Topic)
}

func TestSearchContentToolEmptyQuery(t *testing.T) {
	tool := NewSearchContentTool(newTestStore(t))

	result := callTool(t, tool.Handle, map[string]interface{}{"query": ""})
	assert.True(t, result.IsError)
}
