package llm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "json fence", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "json fence no newline", input: "```json{\"a\":1}```", want: `{"a":1}`},
		{name: "bare fence", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "other language", input: "```javascript\n[1,2]\n```", want: `[1,2]`},
		{name: "uppercase tag", input: "```JSON\n{}\n```", want: `{}`},
		{name: "plain", input: "  {\"a\":1}  ", want: `{"a":1}`},
		{name: "trailing fence only", input: "{\"a\":1}\n```", want: `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripFences(tt.input))
		})
	}
}

func TestNormalizeDecodesFencedJSON(t *testing.T) {
	value, err := Normalize("```json\n{\"title\":\"Fractions\",\"questions\":[1,2]}\n```")
	require.NoError(t, err)

	obj, ok := value.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Fractions", obj["title"])
	assert.Len(t, obj["questions"], 2)
}

func TestNormalizeMatchesDirectDecode(t *testing.T) {
	fenced, err := Normalize("```json\n{\"k\":[true,null,1.5]}\n```")
	require.NoError(t, err)
	plain, err := Normalize(`{"k":[true,null,1.5]}`)
	require.NoError(t, err)
	assert.Equal(t, plain, fenced)
}

func TestNormalizeMalformed(t *testing.T) {
	_, err := Normalize("not json")
	require.Error(t, err)

	var malformed *MalformedOutputError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, "not json", malformed.Text)
	assert.True(t, IsMalformed(err))
	assert.False(t, IsUpstream(err))
}

func TestNormalizeIntoStruct(t *testing.T) {
	var dest struct {
		Verdict string `json:"verdict"`
		Score   int    `json:"score"`
	}
	require.NoError(t, NormalizeInto("```\n{\"verdict\":\"PASS\",\"score\":90}\n```", &dest))
	assert.Equal(t, "PASS", dest.Verdict)
	assert.Equal(t, 90, dest.Score)
}
