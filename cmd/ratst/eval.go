package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/ratst-engine/ratst"
	"github.com/ratst-engine/ratst/engine/eval"
)

func newEvalCommand() *cli.Command {
	return &cli.Command{
		Name:      "eval",
		Usage:     "Evaluate an expression over relations read from a JSON file",
		ArgsUsage: "<expression>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "relations",
				Aliases:  []string{"r"},
				Usage:    `JSON file of {"Name": {"attributes": [...], "tuples": [[...]]}}, "-" for stdin`,
				Required: true,
			},
			&cli.BoolFlag{Name: "json", Usage: "print the relation as JSON"},
		},
		Action: evalAction,
	}
}

func evalAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("expected an expression argument")
	}
	expr := strings.Join(cmd.Args().Slice(), " ")

	bindings, err := readBindings(cmd, cmd.String("relations"))
	if err != nil {
		return err
	}

	rel, err := ratst.Evaluate(expr, bindings)
	if err != nil {
		return fmt.Errorf("%s", ratst.Describe(err))
	}

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		data, err := json.MarshalIndent(rel, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}
	return printRelation(out, rel)
}

func readBindings(cmd *cli.Command, path string) (eval.Bindings, error) {
	if path == "-" {
		in := cmd.Root().Reader
		if in == nil {
			in = os.Stdin
		}
		return eval.DecodeBindings(in)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return eval.DecodeBindings(f)
}

func printRelation(w io.Writer, r *eval.Relation) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(r.Attributes, "\t"))
	for _, t := range r.Tuples {
		fmt.Fprintln(tw, strings.Join(t, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "(%d tuples)\n", r.Len())
	return err
}
