package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/metaphox/minic/config"
	"github.com/metaphox/minic/parser"
	"github.com/metaphox/minic/printer"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv(config.EnvPath, "")
	var out, errOut bytes.Buffer
	code = run(args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun_Success(t *testing.T) {
	src := writeFile(t, "ok.mc", "int x;\nx=1+2;\n")
	code, out, _ := runCLI(t, "--format", "source", src)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "int x;\nx = 1 + 2;\n", out)
}

func TestRun_DefaultFormatIsTree(t *testing.T) {
	src := writeFile(t, "ok.mc", "int x;")
	code, out, _ := runCLI(t, src)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "Declaration x (1:5)\n", out)
}

func TestRun_SyntaxError(t *testing.T) {
	src := writeFile(t, "bad.mc", "int x;\nint 5;")
	code, out, errOut := runCLI(t, src)
	assert.Equal(t, exitDiagnostic, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, src+":2:5: line 2 col 5: expected Identifier, got Number \"5\"")
}

func TestRun_LexicalError(t *testing.T) {
	src := writeFile(t, "bad.mc", "x = abcdefgh;")
	code, _, errOut := runCLI(t, "--max-lexeme", "4", src)
	assert.Equal(t, exitDiagnostic, code)
	assert.Contains(t, errOut, src+":1:5:")
	assert.Contains(t, errOut, "lexeme exceeds maximum length")
}

func TestRun_ConfigFile(t *testing.T) {
	cfg := writeFile(t, "minic.toml", "format = \"json\"\n")
	src := writeFile(t, "ok.mc", "int x;")
	code, out, _ := runCLI(t, "-c", cfg, src)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, `"kind": "Declaration"`)

	code, out, _ = runCLI(t, "-c", cfg, "-f", "source", src)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "int x;\n", out)
}

func TestRun_UsageErrors(t *testing.T) {
	src := writeFile(t, "ok.mc", "int x;")
	tests := []struct {
		name string
		args []string
	}{
		{"no file", nil},
		{"two files", []string{src, src}},
		{"verbose and silent", []string{"--verbose", "--silent", src}},
		{"unknown flag", []string{"--bogus", src}},
		{"bad format", []string{"-f", "xml", src}},
		{"bad max lexeme", []string{"--max-lexeme=-3", src}},
		{"zero max lexeme", []string{"--max-lexeme=0", src}},
		{"missing file", []string{filepath.Join(t.TempDir(), "none.mc")}},
		{"missing config", []string{"-c", filepath.Join(t.TempDir(), "none.toml"), src}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, out, _ := runCLI(t, tc.args...)
			assert.Equal(t, exitFailure, code)
			assert.Empty(t, out)
		})
	}
}

func TestRun_HelpAndVersion(t *testing.T) {
	code, _, errOut := runCLI(t, "-h")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, errOut, "minic [flags] FILE")

	code, out, _ := runCLI(t, "--version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "minic dev\n", out)
}

func TestRun_VerboseLogsStatements(t *testing.T) {
	src := writeFile(t, "ok.mc", "int x;")
	code, _, errOut := runCLI(t, "--verbose", src)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, errOut, "Parsed statement")
}

func TestRun_MaxLexemeZeroIsRejected(t *testing.T) {
	src := writeFile(t, "ok.mc", "int x;")
	code, _, errOut := runCLI(t, "--max-lexeme", "0", src)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, errOut, "max_lexeme_len must be positive, got 0")
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchFile_ReportsUntilStopped(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := writeFile(t, "prog.mc", "int x;")
	var stdout, stderr syncBuffer
	out, errOut := lockedOutputs(&stdout, &stderr)
	stop := make(chan os.Signal, 1)
	done := make(chan int, 1)
	go func() {
		done <- watchFile(src, printer.Source, zap.NewNop(), nil, out, errOut, stop)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "int x;")
	}, 5*time.Second, 10*time.Millisecond)

	tmp := src + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte("int 5;"), 0o600))
	require.NoError(t, os.Rename(tmp, src))
	require.Eventually(t, func() bool {
		return strings.Contains(stderr.String(), src+":1:5: line 1 col 5: expected Identifier")
	}, 5*time.Second, 10*time.Millisecond)

	stop <- os.Interrupt
	select {
	case code := <-done:
		assert.Equal(t, exitOK, code)
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not return after the stop signal")
	}
}

func TestWatchFile_MissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	var stdout, stderr syncBuffer
	code := watchFile(filepath.Join(t.TempDir(), "nope", "prog.mc"), printer.Tree, zap.NewNop(), nil,
		&stdout, &stderr, make(chan os.Signal))
	assert.Equal(t, exitFailure, code)
}

// overlapWriter records whether two writes were ever in progress at once.
type overlapWriter struct {
	active  atomic.Int32
	overlap atomic.Bool
	lines   atomic.Int32
}

func (w *overlapWriter) Write(p []byte) (int, error) {
	if w.active.Add(1) > 1 {
		w.overlap.Store(true)
	}
	time.Sleep(time.Microsecond)
	w.lines.Add(int32(bytes.Count(p, []byte("\n"))))
	w.active.Add(-1)
	return len(p), nil
}

func TestReport_DiagnosticsShareLockedStderr(t *testing.T) {
	var sink overlapWriter
	out, errOut := lockedOutputs(&bytes.Buffer{}, &sink)
	logger := zap.New(zapcore.NewCore(zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()), errOut, zap.DebugLevel))
	_, perr := parser.ParseString("int 5;")
	require.Error(t, perr)

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		i := i
		wg.Add(2)
		go func() {
			defer wg.Done()
			report(fmt.Sprintf("f%d.mc", i), nil, perr, printer.Tree, out, errOut, logger.Sugar())
		}()
		go func() {
			defer wg.Done()
			logger.Info("watching")
		}()
	}
	wg.Wait()
	assert.False(t, sink.overlap.Load(), "writes to stderr overlapped")
	assert.Equal(t, int32(2*writers), sink.lines.Load())
}
