package watch_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/metaphox/minic/ast"
	"github.com/metaphox/minic/lexer"
	"github.com/metaphox/minic/parser"
	"github.com/metaphox/minic/watch"
)

type result struct {
	prog *ast.Program
	err  error
}

// replace writes body next to path and renames it into place, the way most
// editors save.
func replace(t *testing.T, path, body string) {
	t.Helper()
	tmp := path + ".tmp"
	require.NoError(t, os.WriteFile(tmp, []byte(body), 0o600))
	require.NoError(t, os.Rename(tmp, path))
}

// await reads results until match accepts one or the deadline passes.
func await(t *testing.T, ch <-chan result, match func(result) bool) result {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case r := <-ch:
			if match(r) {
				return r
			}
		case <-deadline:
			t.Fatal("timed out waiting for a matching parse result")
			return result{}
		}
	}
}

func TestWatcher_ReparsesOnChange(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "prog.mc")
	require.NoError(t, os.WriteFile(path, []byte("int x;"), 0o600))

	results := make(chan result, 64)
	w, err := watch.New(path, func(_ string, prog *ast.Program, err error) {
		results <- result{prog, err}
	}, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer func() { assert.NoError(t, w.Close()) }()

	first := await(t, results, func(result) bool { return true })
	require.NoError(t, first.err)
	require.Len(t, first.prog.Statements, 1)

	replace(t, path, "int x;\nx = 1 + 2;")
	second := await(t, results, func(r result) bool {
		return r.err == nil && len(r.prog.Statements) == 2
	})
	assert.Equal(t, ast.Assignment, second.prog.Statements[1].Kind)

	replace(t, path, "int 5;")
	bad := await(t, results, func(r result) bool { return r.err != nil })
	var se *parser.SyntaxError
	assert.ErrorAs(t, bad.err, &se)
}

func TestWatcher_PassesParserOptions(t *testing.T) {
	defer goleak.VerifyNone(t)

	path := filepath.Join(t.TempDir(), "long.mc")
	require.NoError(t, os.WriteFile(path, []byte("int abcdef;"), 0o600))

	results := make(chan result, 8)
	w, err := watch.New(path, func(_ string, prog *ast.Program, err error) {
		results <- result{prog, err}
	}, nil, parser.WithLexerOptions(lexer.WithMaxLexemeLen(3)))
	require.NoError(t, err)

	r := await(t, results, func(result) bool { return true })
	assert.ErrorIs(t, r.err, lexer.ErrLexemeTooLong)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestWatcher_MissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	_, err := watch.New(filepath.Join(t.TempDir(), "nope", "prog.mc"), func(string, *ast.Program, error) {}, nil)
	assert.Error(t, err)
}
