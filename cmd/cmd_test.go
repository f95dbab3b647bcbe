package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDraftValidatesInput(t *testing.T) {
	_, err := execute(t, "draft", "--name", "J", "--email", "not-an-email", "too", "short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "business: Please describe your project in at least 10 characters.")
	assert.Contains(t, err.Error(), "name: Name must be at least 2 characters.")
	assert.Contains(t, err.Error(), "email: A valid email is required.")
}

func TestDraftRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	_, err := execute(t, "draft", "--name", "Jane", "--email", "jane@example.com", "I need a new online store")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestDraftRequiresFlags(t *testing.T) {
	_, err := execute(t, "draft", "I need a new online store")
	assert.Error(t, err)
}

func TestServeRejectsBadConfig(t *testing.T) {
	t.Setenv("CONTACT_FLOW", "carrier-pigeon")
	for _, args := range [][]string{{"serve"}, {"serve", "--port", "9000"}, {"--port", "9000"}} {
		_, err := execute(t, args...)
		require.Error(t, err, "args %v", args)
		assert.Contains(t, err.Error(), "CONTACT_FLOW", "args %v", args)
	}
}
