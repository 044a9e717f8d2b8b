// Copyright 2026 The Mongory Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Command mongory-repl is a small manual-exploration harness: it reads
// a condition and a record, each as JSON, and prints whether the
// record matches, optionally with an explain tree or a full trace.
// Not part of the tested core; a convenience for driving compile/
// match/explain/trace by hand.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mongoryhq/mongory-core-go/arena"
	"github.com/mongoryhq/mongory-core-go/mongory"
	"github.com/mongoryhq/mongory-core-go/value"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var conditionJSON, recordJSON string
	var explainFlag, traceFlag, colorFlag bool

	root := &cobra.Command{
		Use:   "mongory-repl",
		Short: "Compile a condition and match it against a record",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), conditionJSON, recordJSON, explainFlag, traceFlag, colorFlag)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&conditionJSON, "condition", "c", "{}", "condition as JSON")
	flags.StringVarP(&recordJSON, "record", "r", "{}", "record as JSON")
	flags.BoolVar(&explainFlag, "explain", false, "print the compiled matcher tree")
	flags.BoolVar(&traceFlag, "trace", false, "print a full per-node trace of the match")
	flags.BoolVar(&colorFlag, "color", false, "colorize trace output")

	return root
}

func run(out io.Writer, conditionJSON, recordJSON string, explainFlag, traceFlag, colorFlag bool) error {
	mongory.Init(mongory.Options{TraceColorful: colorFlag})

	a := arena.New()
	defer mongory.Cleanup(a)

	condition, err := decodeJSON(a, conditionJSON)
	if err != nil {
		return fmt.Errorf("decoding condition: %w", err)
	}
	record, err := decodeJSON(a, recordJSON)
	if err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	m, cerr := mongory.Compile(a, condition, nil)
	if cerr != nil {
		return fmt.Errorf("compile failed: %s", cerr.Error())
	}

	if explainFlag {
		if err := m.Explain(out); err != nil {
			return err
		}
	}

	if traceFlag {
		sess := m.TraceEnable()
		matched := m.Match(record)
		if perr := sess.Print(out); perr != nil {
			return perr
		}
		sess.Disable()
		fmt.Fprintf(out, "result: %v\n", matched)
		return nil
	}

	fmt.Fprintf(out, "result: %v\n", m.Match(record))
	return nil
}

// decodeJSON parses a JSON document into the value model, arena-backed.
func decodeJSON(a *arena.Arena, text string) (*value.Value, error) {
	var raw any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, err
	}
	return fromAny(a, raw), nil
}

func fromAny(a *arena.Arena, raw any) *value.Value {
	switch x := raw.(type) {
	case nil:
		return value.NewNull(a)
	case bool:
		return value.NewBool(a, x)
	case float64:
		if x == float64(int64(x)) {
			return value.NewInt64(a, int64(x))
		}
		return value.NewDouble(a, x)
	case string:
		return value.NewString(a, x)
	case []any:
		arr := value.NewArray(a)
		for _, el := range x {
			arr.Push(fromAny(a, el))
		}
		return value.NewArrayValue(arr)
	case map[string]any:
		tab := value.NewTable(a)
		for k, v := range x {
			tab.Set(k, fromAny(a, v))
		}
		return value.NewTableValue(tab)
	default:
		return value.NewNull(a)
	}
}
