// internal/workers/extraction/extract-chart/handler_test.go
package extractchart

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "survey-workers/internal/common/errors"
	"survey-workers/internal/common/logger"
	"survey-workers/internal/content/chart"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig() *Config {
	return LoadConfig()
}

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(createTestConfig(), logger.NewTestLogger(t))
}

func textInput(t *testing.T, text string) *Input {
	raw, err := json.Marshal(text)
	require.NoError(t, err)
	return &Input{Content: raw}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_MarkedChart(t *testing.T) {
	content := "Here you go:\nCHART_START\n" +
		`{"type":"pie","data":[{"name":"Yes","value":7},{"name":"No","value":3}],"title":"Would recommend"}` +
		"\nCHART_END\nAnything else?"

	output, err := newTestHandler(t).Execute(context.Background(), textInput(t, content))
	require.NoError(t, err)

	assert.True(t, output.ChartFound)
	assert.Equal(t, chart.StrategyMarkers, output.Strategy)
	require.NotNil(t, output.Chart)
	assert.Equal(t, chart.Type("pie"), output.Chart.Type)
	assert.Equal(t, "Would recommend", output.Chart.Title)
	assert.Len(t, output.Chart.Data, 2)
}

func TestHandler_Execute_StructuredRows(t *testing.T) {
	input := &Input{Content: json.RawMessage(`[{"name":"Q1","value":10},{"name":"Q2","value":14}]`)}

	output, err := newTestHandler(t).Execute(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, output.ChartFound)
	assert.Equal(t, chart.StrategyStructured, output.Strategy)
	assert.Equal(t, chart.Type("pie"), output.Chart.Type)
}

func TestHandler_Execute_NoChart(t *testing.T) {
	output, err := newTestHandler(t).Execute(context.Background(), textInput(t, "Sales grew steadily this quarter."))
	require.NoError(t, err)

	assert.False(t, output.ChartFound)
	assert.Nil(t, output.Chart)
	assert.Empty(t, output.Strategy)
}

func TestHandler_Execute_MalformedPayloadIsNotAnError(t *testing.T) {
	output, err := newTestHandler(t).Execute(context.Background(), textInput(t, "CHART_START {not json CHART_END"))
	require.NoError(t, err)
	assert.False(t, output.ChartFound)
}

func TestHandler_Execute_MissingContent(t *testing.T) {
	h := newTestHandler(t)

	for _, raw := range []string{"", "null", "   "} {
		_, err := h.Execute(context.Background(), &Input{Content: json.RawMessage(raw)})
		assert.ErrorIs(t, err, ErrMissingContent, "content %q", raw)
	}
}

func TestHandler_Execute_BadStringEncoding(t *testing.T) {
	_, err := newTestHandler(t).Execute(context.Background(), &Input{Content: json.RawMessage(`"unterminated`)})
	require.Error(t, err)

	stdErr := apperrors.Normalize(err)
	assert.Equal(t, apperrors.ErrCodeParseError, stdErr.Code)
}

func TestOutput_SerializesChartInFieldOrder(t *testing.T) {
	output, err := newTestHandler(t).Execute(context.Background(), textInput(t,
		`{"type":"bar","data":[{"month":"Jan","sales":5}],"xAxisKey":"month","dataKeys":["sales"]}`))
	require.NoError(t, err)

	raw, err := json.Marshal(output)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"chartFound":true`)
	assert.Contains(t, string(raw), `{"month":"Jan","sales":5}`)
	assert.Contains(t, string(raw), `"strategy":"direct_object"`)
}
