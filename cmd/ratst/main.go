package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ratst-engine/ratst/mapping"
)

var (
	dialectFlag = &cli.StringFlag{
		Name:    "dialect",
		Aliases: []string{"d"},
		Usage:   fmt.Sprintf("target dialect %v", mapping.SupportedDialects),
		Value:   mapping.DefaultDialect,
		Sources: cli.EnvVars("RATST_DIALECT"),
	}
	validateFlag = &cli.BoolFlag{
		Name:    "validate",
		Usage:   "parse the generated query with the dialect's grammar",
		Sources: cli.EnvVars("RATST_VALIDATE"),
	}
	pluralFlag = &cli.BoolFlag{
		Name:    "plural-collections",
		Usage:   "name MongoDB collections after the lowercased plural of the relation",
		Sources: cli.EnvVars("RATST_PLURAL_COLLECTIONS"),
	}
	logLevelFlag = &cli.StringFlag{
		Name:    "log-level",
		Usage:   "debug, info, warn or error",
		Value:   "info",
		Sources: cli.EnvVars("RATST_LOG_LEVEL"),
	}
	logFormatFlag = &cli.StringFlag{
		Name:    "log-format",
		Usage:   "console or json",
		Value:   "console",
		Sources: cli.EnvVars("RATST_LOG_FORMAT"),
	}
	logFileFlag = &cli.StringFlag{
		Name:    "log-file",
		Usage:   "write logs to a rotated file instead of stderr",
		Sources: cli.EnvVars("RATST_LOG_FILE"),
	}
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "ratst",
		Usage: "Translate relational algebra into SQL and MongoDB queries",
		Flags: []cli.Flag{dialectFlag, validateFlag, pluralFlag, logLevelFlag, logFormatFlag, logFileFlag},
		Commands: []*cli.Command{
			newTranslateCommand(),
			newExplainCommand(),
			newEvalCommand(),
			newServeCommand(),
			newREPLCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
