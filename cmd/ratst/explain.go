package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ratst-engine/ratst"
)

func newExplainCommand() *cli.Command {
	return &cli.Command{
		Name:      "explain",
		Usage:     "Show the tokens, tree and query of an expression",
		ArgsUsage: "<expression>",
		Action:    explainAction,
	}
}

func explainAction(ctx context.Context, cmd *cli.Command) error {
	expr, err := expressionArg(cmd)
	if err != nil {
		return err
	}

	e, err := ratst.Explain(expr, translateOptions(cmd)...)
	if err != nil {
		return fmt.Errorf("%s", ratst.Describe(err))
	}
	text, err := e.Result.Text()
	if err != nil {
		return err
	}

	out := cmd.Root().Writer
	fmt.Fprintf(out, "tokens:    %s\n", e.Tokens)
	fmt.Fprintf(out, "infix:     %s\n", e.Infix)
	fmt.Fprintf(out, "dialect:   %s\n", e.Result.Dialect)
	fmt.Fprintf(out, "query:     %s\n", text)
	fmt.Fprintf(out, "relations: %s\n", strings.Join(e.Relations, ", "))
	fmt.Fprintf(out, "tree:\n%s", e.Tree)
	return nil
}
