package logger

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func reset() {
	SetVerbose(false)
	SetJSON(false)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Info("info message")

	assert.Zero(t, buf.Len())
}

func TestInfo_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Info("loaded %d records", 3)

	assert.Equal(t, "[INFO] loaded 3 records\n", buf.String())
}

func TestWarn_AlwaysEmitted(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Warn("skipping %s", "bad.csv")
	Error("boom")

	assert.Equal(t, "[WARN] skipping bad.csv\n[ERROR] boom\n", buf.String())
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Section("Hidden")
	assert.Zero(t, buf.Len())

	SetVerbose(true)
	Section("Retrieval")
	assert.Equal(t, "\n=== Retrieval ===\n", buf.String())
}

func TestWithFields_SortedKeys(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	WithFields(Fields{"file": "a.csv", "error": errors.New("bad")}).Warn("parse failed")

	assert.Equal(t, "[WARN] parse failed error=bad file=a.csv\n", buf.String())
}

func TestSetJSON(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetJSON(true)

	Warn("json entry")

	assert.Contains(t, buf.String(), `"msg":"json entry"`)
	assert.Contains(t, buf.String(), `"level":"warning"`)
}
