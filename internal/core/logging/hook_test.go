package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "command and tasks_file",
			setupCtx: func() context.Context {
				ctx := WithCommand(context.Background(), "add")
				return WithTasksFile(ctx, "tasks.json")
			},
			wantKeys: []string{"command", "tasks_file"},
		},
		{
			name: "only command",
			setupCtx: func() context.Context {
				return WithCommand(context.Background(), "list")
			},
			wantKeys:  []string{"command"},
			wantEmpty: []string{"tasks_file"},
		},
		{
			name:      "background context",
			setupCtx:  context.Background,
			wantEmpty: []string{"command", "tasks_file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Hook(ContextHook{})

			logger.Info().Ctx(tt.setupCtx()).Msg("hello")

			var entry map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

			for _, k := range tt.wantKeys {
				assert.Contains(t, entry, k)
			}
			for _, k := range tt.wantEmpty {
				assert.NotContains(t, entry, k)
			}
		})
	}
}
