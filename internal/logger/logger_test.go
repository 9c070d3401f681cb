package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerboseToggle(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	SetVerbose(false)
	Debug("hidden %d", 1)
	Info("hidden")
	assert.Empty(t, buf.String())

	SetVerbose(true)
	defer SetVerbose(false)
	assert.True(t, IsVerbose())

	Debug("chunked %d documents", 3)
	Info("run complete")
	Warn("skipped one file")
	Section("Ingestion")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] chunked 3 documents")
	assert.Contains(t, out, "[INFO] run complete")
	assert.Contains(t, out, "[WARN] skipped one file")
	assert.Contains(t, out, "=== Ingestion ===")
}
