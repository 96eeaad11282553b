package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/ratst-engine/ratst"
)

func newTranslateCommand() *cli.Command {
	return &cli.Command{
		Name:      "translate",
		Usage:     "Translate an expression and print the query",
		ArgsUsage: "<expression> (reads stdin when omitted)",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print the response object instead of the query text"},
		},
		Action: translateAction,
	}
}

func translateAction(ctx context.Context, cmd *cli.Command) error {
	expr, err := expressionArg(cmd)
	if err != nil {
		return err
	}

	result, err := ratst.Translate(expr, translateOptions(cmd)...)
	if err != nil {
		return fmt.Errorf("%s", ratst.Describe(err))
	}

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	text, err := result.Text()
	if err != nil {
		return err
	}
	fmt.Fprintln(out, text)
	return nil
}

func translateOptions(cmd *cli.Command) []ratst.Option {
	return []ratst.Option{
		ratst.WithDialect(cmd.String(dialectFlag.Name)),
		ratst.WithValidation(cmd.Bool(validateFlag.Name)),
		ratst.WithPluralCollections(cmd.Bool(pluralFlag.Name)),
	}
}

// expressionArg joins the arguments, so quoting the expression is optional
func expressionArg(cmd *cli.Command) (string, error) {
	if cmd.Args().Len() > 0 {
		return strings.Join(cmd.Args().Slice(), " "), nil
	}

	in := cmd.Root().Reader
	if in == nil {
		in = os.Stdin
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", err
	}
	expr := strings.TrimSpace(string(data))
	if expr == "" {
		return "", fmt.Errorf("expected an expression argument or input on stdin")
	}
	return expr, nil
}
