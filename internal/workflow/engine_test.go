package workflow

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lucasreb/healthflow/internal/agent"
	"github.com/lucasreb/healthflow/internal/config"
	"github.com/lucasreb/healthflow/internal/store"
)

func newTestEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()

	st, err := store.New(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	cfg := config.Default()
	log := zap.NewNop()
	research := agent.NewResearchAgent(cfg.AI.Research, nil, log)
	writer := agent.NewWriterAgent(cfg.AI.Writing, nil, log)
	image := agent.NewImageAgent(cfg.AI.Image, nil, log)

	return New(research, writer, image, st, log), st
}

func TestEngineRun(t *testing.T) {
	eng, st := newTestEngine(t)

	res, err := eng.Run(context.Background(), Request{
		Topic: "AI in supply chains",
		Depth: 2,
		Tone:  "conversational",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, "AI in supply chains", res.Topic)
	assert.NotEmpty(t, res.Brief.Title)
	assert.NotEmpty(t, res.Article.HTML)
	assert.Equal(t, "conversational", res.Article.Style)
	assert.Nil(t, res.Image)

	run, err := st.GetRun(res.RunID)
	require.NoError(t, err)
	assert.Equal(t, store.StatusCompleted, run.Status)
	assert.Equal(t, "AI in supply chains", run.Topic)
	require.NotNil(t, run.Brief)
	assert.Equal(t, res.Brief.Title, run.Brief.Title)
	require.NotNil(t, run.Article)
	assert.Nil(t, run.Image)
}

func TestEngineRunWithImage(t *testing.T) {
	eng, st := newTestEngine(t)

	res, err := eng.Run(context.Background(), Request{
		Topic:         "renewable energy storage",
		Depth:         1,
		GenerateImage: true,
		ImageStyle:    "minimalist",
	})
	require.NoError(t, err)

	require.NotNil(t, res.Image)
	assert.Equal(t, "minimalist", res.Image.StyleUsed)
	assert.NotEmpty(t, res.Image.Data)

	run, err := st.GetRun(res.RunID)
	require.NoError(t, err)
	require.NotNil(t, run.Image)
	assert.Equal(t, res.Image.Data, run.Image.Data)
}

func TestEngineRunInvalidTopic(t *testing.T) {
	eng, st := newTestEngine(t)

	_, err := eng.Run(context.Background(), Request{Topic: "   "})
	require.Error(t, err)
	assert.ErrorIs(t, err, agent.ErrInvalidRequest)

	// The failed run is still recorded.
	runs, err := st.ListRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, store.StatusFailed, runs[0].Status)
}

func TestEngineRunUnknownImageStyle(t *testing.T) {
	eng, _ := newTestEngine(t)

	// Unknown styles are kept; only prompt enhancement falls back.
	res, err := eng.Run(context.Background(), Request{
		Topic:         "urban gardening",
		GenerateImage: true,
		ImageStyle:    "baroque",
	})
	require.NoError(t, err)
	require.NotNil(t, res.Image)
	assert.Equal(t, "baroque", res.Image.StyleUsed)
}

func TestEngineRunsAreDistinct(t *testing.T) {
	eng, st := newTestEngine(t)

	first, err := eng.Run(context.Background(), Request{Topic: "tea cultivation"})
	require.NoError(t, err)
	second, err := eng.Run(context.Background(), Request{Topic: "tea cultivation"})
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)

	runs, err := st.ListRuns(10)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
