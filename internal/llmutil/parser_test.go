// File: internal/llmutil/parser_test.go
package llmutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type planStep struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
}

func TestParseJSONResponsePlainArray(t *testing.T) {
	out, err := ParseJSONResponse[[]planStep](`[{"action":"click","parameters":{}}]`)
	require.NoError(t, err)
	require.Len(t, *out, 1)
	assert.Equal(t, "click", (*out)[0].Action)
}

func TestParseJSONResponseMarkdownFence(t *testing.T) {
	response := "```json\n[{\"action\":\"type\",\"parameters\":{\"text\":\"hi\"}}]\n```"
	out, err := ParseJSONResponse[[]planStep](response)
	require.NoError(t, err)
	require.Len(t, *out, 1)
	assert.Equal(t, "hi", (*out)[0].Parameters["text"])
}

func TestParseJSONResponseFenceWithoutLanguageTag(t *testing.T) {
	response := "```\n{\"action\":\"click\",\"parameters\":{}}\n```"
	out, err := ParseJSONResponse[planStep](response)
	require.NoError(t, err)
	assert.Equal(t, "click", out.Action)
}

func TestParseJSONResponseBuriedInProse(t *testing.T) {
	response := `Sure! Here is the plan you asked for:
[{"action":"screenshot","parameters":{}}]
Let me know if you need anything else.`
	out, err := ParseJSONResponse[[]planStep](response)
	require.NoError(t, err)
	require.Len(t, *out, 1)
	assert.Equal(t, "screenshot", (*out)[0].Action)
}

func TestParseJSONResponseObjectInProse(t *testing.T) {
	response := `The result is {"action":"press_key","parameters":{"key":"enter"}} as requested.`
	out, err := ParseJSONResponse[planStep](response)
	require.NoError(t, err)
	assert.Equal(t, "press_key", out.Action)
}

func TestParseJSONResponseInvalid(t *testing.T) {
	_, err := ParseJSONResponse[[]planStep]("I could not come up with a plan, sorry.")
	assert.Error(t, err)
}
