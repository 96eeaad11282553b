package main

import (
	"context"
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"github.com/urfave/cli/v3"

	"github.com/ratst-engine/ratst"
	"github.com/ratst-engine/ratst/mapping"
)

// symbolKeys inserts operator symbols with Alt+key
var symbolKeys = map[rune]string{
	'p': "π", 's': "σ", 'r': "ρ",
	'x': "×", 'm': "−", 'u': "∪", 'i': "∩", 'd': "÷",
	'j': "⋈", 'l': "⧑", 'g': "⧒", 'f': "⧓",
	'a': "∧", 'o': "∨", 'n': "¬",
}

const replHelp = "Enter translate  Esc quit  Alt+ p π  s σ  r ρ  x ×  m −  u ∪  i ∩  d ÷  j ⋈  l ⧑  g ⧒  f ⧓  a ∧  o ∨  n ¬"

func newREPLCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Translate expressions interactively",
		Action: replAction,
	}
}

func replAction(ctx context.Context, cmd *cli.Command) error {
	dialect, ok := mapping.NormalizeDialect(cmd.String(dialectFlag.Name))
	if !ok {
		dialect = mapping.DefaultDialect
	}
	plural := cmd.Bool(pluralFlag.Name)

	app := tview.NewApplication()
	query := tview.NewTextView().SetWrap(true)
	query.SetBorder(true).SetTitle(" query ")
	tree := tview.NewTextView()
	tree.SetBorder(true).SetTitle(" tree ")

	input := tview.NewInputField().SetLabel("expr> ")
	render := func() {
		q, t := replOutput(input.GetText(), dialect, plural)
		query.SetText(q)
		tree.SetText(t)
	}

	input.SetDoneFunc(func(key tcell.Key) {
		switch key {
		case tcell.KeyEnter:
			render()
		case tcell.KeyEscape:
			app.Stop()
		}
	})
	input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyRune && event.Modifiers()&tcell.ModAlt != 0 {
			if sym, ok := symbolKeys[event.Rune()]; ok {
				input.SetText(input.GetText() + sym)
				return nil
			}
		}
		return event
	})

	dropdown := tview.NewDropDown().SetLabel("dialect ")
	dropdown.SetOptions(mapping.SupportedDialects, func(text string, _ int) {
		dialect = text
		render()
	})
	dropdown.SetCurrentOption(slices.Index(mapping.SupportedDialects, dialect))

	header := tview.NewFlex().
		AddItem(input, 0, 3, true).
		AddItem(dropdown, 24, 0, false)
	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(header, 1, 0, true).
		AddItem(query, 0, 1, false).
		AddItem(tree, 0, 2, false).
		AddItem(tview.NewTextView().SetText(replHelp), 1, 0, false)

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyTab {
			if input.HasFocus() {
				app.SetFocus(dropdown)
			} else {
				app.SetFocus(input)
			}
			return nil
		}
		return event
	})

	go func() {
		<-ctx.Done()
		app.Stop()
	}()
	return app.SetRoot(layout, true).SetFocus(input).Run()
}

// replOutput renders the query and tree panes for one expression
func replOutput(expr, dialect string, plural bool) (string, string) {
	if expr == "" {
		return "", ""
	}
	e, err := ratst.Explain(expr, ratst.WithDialect(dialect), ratst.WithPluralCollections(plural))
	if err != nil {
		return ratst.Describe(err), ""
	}
	text, err := e.Result.Text()
	if err != nil {
		return err.Error(), e.Tree
	}
	return text, e.Tree
}
