// SPDX-License-Identifier: MPL-2.0

package buildcmd

import (
	"bytes"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// Split parses a script line and returns the argument vector of every simple
// command that always runs: top-level statements and both sides of "&&".
// Commands behind "||", inside pipelines, subshells, or run in the
// background are skipped. Leading environment assignments are dropped.
func Split(script string) ([][]string, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(script), "script")
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}

	var commands [][]string
	for _, stmt := range file.Stmts {
		collectStmt(stmt, &commands)
	}
	return commands, nil
}

func collectStmt(stmt *syntax.Stmt, out *[][]string) {
	if stmt == nil || stmt.Background || stmt.Negated {
		return
	}
	switch cmd := stmt.Cmd.(type) {
	case *syntax.BinaryCmd:
		if cmd.Op == syntax.AndStmt {
			collectStmt(cmd.X, out)
			collectStmt(cmd.Y, out)
		}
	case *syntax.CallExpr:
		if len(cmd.Args) == 0 {
			return
		}
		argv := make([]string, 0, len(cmd.Args))
		for _, word := range cmd.Args {
			argv = append(argv, wordValue(word))
		}
		*out = append(*out, argv)
	}
}

// wordValue returns the literal value of a word with quotes removed. Words
// containing expansions are returned as printed source.
func wordValue(word *syntax.Word) string {
	if lit := word.Lit(); lit != "" {
		return lit
	}

	var sb strings.Builder
	for _, part := range word.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			sb.WriteString(p.Value)
		case *syntax.SglQuoted:
			sb.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				lit, ok := inner.(*syntax.Lit)
				if !ok {
					return printWord(word)
				}
				sb.WriteString(lit.Value)
			}
		default:
			return printWord(word)
		}
	}
	return sb.String()
}

func printWord(word *syntax.Word) string {
	var buf bytes.Buffer
	if err := syntax.NewPrinter().Print(&buf, word); err != nil {
		return ""
	}
	return buf.String()
}
