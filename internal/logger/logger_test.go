package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Parallel()
	logFile := filepath.Join(t.TempDir(), "logs", "test.log")

	l := New(false, logFile, true)
	require.NotNil(t, l)
	require.NoError(t, l.Close())

	_, err := os.Stat(logFile)
	assert.True(t, os.IsNotExist(err), "no log file expected when debug is disabled")

	l = New(true, logFile, true)
	require.NoError(t, l.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "gitwip debug logging started")
}

func TestLoggingToFile(t *testing.T) {
	t.Parallel()
	logFile := filepath.Join(t.TempDir(), "test.log")

	var stdout, stderr bytes.Buffer
	l := NewWithOutput(true, logFile, false, &stdout, &stderr)

	l.Info("info message %d", 1)
	l.Warning("warning message")
	l.Error("error message")
	l.Success("success message")
	require.NoError(t, l.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	logContent := string(content)
	assert.Contains(t, logContent, "info message 1")
	assert.Contains(t, logContent, "level=WARN")
	assert.Contains(t, logContent, "level=ERROR")
	assert.Contains(t, logContent, "success message")
}

func TestUserFacingOutput(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		verbose    bool
		log        func(l Logger)
		wantStdout string
		wantStderr string
		noStdout   bool
	}{
		"InfoToUser": {
			log:        func(l Logger) { l.InfoToUser("watching %s", "/repo") },
			wantStdout: "watching /repo",
		},
		"Success": {
			log:        func(l Logger) { l.Success("committed") },
			wantStdout: "committed",
		},
		"WarningToUser": {
			log:        func(l Logger) { l.WarningToUser("push failed") },
			wantStdout: "push failed",
		},
		"WarningVerbose": {
			verbose:    true,
			log:        func(l Logger) { l.Warning("diff unavailable") },
			wantStdout: "diff unavailable",
		},
		"WarningQuiet": {
			log:      func(l Logger) { l.Warning("diff unavailable") },
			noStdout: true,
		},
		"ErrorAlwaysShown": {
			log:        func(l Logger) { l.Error("reset failed") },
			wantStderr: "reset failed",
			noStdout:   true,
		},
		"InfoHiddenWithoutDebug": {
			verbose:  true,
			log:      func(l Logger) { l.Info("internal") },
			noStdout: true,
		},
		"StatusMessage": {
			log:        func(l Logger) { l.StatusMessage("-----") },
			wantStdout: "-----\n",
		},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var stdout, stderr bytes.Buffer
			l := NewWithOutput(false, "", tc.verbose, &stdout, &stderr)

			tc.log(l)

			if tc.noStdout {
				assert.Empty(t, stdout.String())
			} else {
				assert.Contains(t, stdout.String(), tc.wantStdout)
			}
			if tc.wantStderr != "" {
				assert.Contains(t, stderr.String(), tc.wantStderr)
			}
		})
	}
}

func TestSetWriters(t *testing.T) {
	t.Parallel()
	l := NewWithOutput(false, "", false, &bytes.Buffer{}, &bytes.Buffer{})

	var stdout, stderr bytes.Buffer
	l.SetStdout(&stdout)
	l.SetStderr(&stderr)

	l.InfoToUser("hello")
	l.Error("boom")

	assert.Contains(t, stdout.String(), "hello")
	assert.Contains(t, stderr.String(), "boom")
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()
	l := NewWithOutput(true, filepath.Join(t.TempDir(), "x.log"), false, &bytes.Buffer{}, &bytes.Buffer{})

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
}

func TestNop(t *testing.T) {
	t.Parallel()
	l := Nop()
	l.InfoToUser("nothing")
	l.Error("nothing")
	assert.NoError(t, l.Close())
}
