package iojson

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteLine(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteLine(&buf, map[string]any{"id": 1, "status": "todo"}))
	require.NoError(t, WriteLine(&buf, map[string]any{"id": 2, "status": "done"}))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"id":2,"status":"done"}`, string(lines[1]))
}

func TestWriteWith(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, []string{"a"}))
	assert.Equal(t, "[\n  \"a\"\n]\n", out.String())
	assert.Empty(t, errOut.String())

	require.NoError(t, WriteWith(&out, &errOut, make(chan int)))
	assert.Contains(t, errOut.String(), "json_error")
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteError(&buf, "invalid input", map[string]any{"tasks[0].description": "description is required"}))

	var e Error
	require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
	assert.Equal(t, "invalid input", e.Message)
	assert.Equal(t, "description is required", e.Data["tasks[0].description"])
}

func TestMarshalError(t *testing.T) {
	var e Error
	require.NoError(t, json.Unmarshal([]byte(MarshalError("boom", map[string]any{"id": 3})), &e))
	assert.Equal(t, "boom", e.Message)
	assert.InDelta(t, 3, e.Data["id"], 0)
}

func TestWriteWith_MarshalFailure(t *testing.T) {
	var out, errOut bytes.Buffer

	require.NoError(t, WriteWith(&out, &errOut, map[string]any{"bad": make(chan int)}))
	assert.Empty(t, out.String())

	var e Error
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &e))
	assert.Equal(t, "cannot encode output", e.Message)
	assert.Contains(t, e.Data, "json_error")
}
