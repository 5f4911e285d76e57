// Package printer renders parsed minic programs for humans and tools.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/metaphox/minic/ast"
)

// Format selects the output representation.
type Format string

const (
	// Source prints canonical minic source, one statement per line.
	Source Format = "source"
	// Tree prints an indented outline of the nodes.
	Tree Format = "tree"
	// YAML prints the tree as a YAML document.
	YAML Format = "yaml"
	// JSON prints the tree as an indented JSON document.
	JSON Format = "json"
)

// Formats lists every supported format.
var Formats = []Format{Source, Tree, YAML, JSON}

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Errorf("unknown output format %q", s)
}

// Fprint writes prog to w in format f.
func Fprint(w io.Writer, prog *ast.Program, f Format) error {
	switch f {
	case Source:
		_, err := io.WriteString(w, prog.String())
		return errors.Wrap(err, "failed to write source")
	case Tree:
		return writeTree(w, prog)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(prog); err != nil {
			return errors.Wrap(err, "failed to encode YAML")
		}
		return errors.Wrap(enc.Close(), "failed to encode YAML")
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(prog), "failed to encode JSON")
	default:
		return errors.Errorf("unknown output format %q", f)
	}
}

func writeTree(w io.Writer, prog *ast.Program) error {
	var sb strings.Builder
	for _, stmt := range prog.Statements {
		treeNode(&sb, stmt, 0)
	}
	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "failed to write tree")
}

func treeNode(sb *strings.Builder, n *ast.Node, depth int) {
	if n == nil {
		return
	}
	line, col := n.Pos()
	fmt.Fprintf(sb, "%s%s %s", strings.Repeat("  ", depth), n.Kind, n.Value)
	if line > 0 {
		fmt.Fprintf(sb, " (%d:%d)", line, col)
	}
	sb.WriteByte('\n')
	treeNode(sb, n.Left, depth+1)
	treeNode(sb, n.Right, depth+1)
}
