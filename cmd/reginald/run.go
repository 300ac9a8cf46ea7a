package main

import (
	"github.com/spf13/cobra"

	"reginald/internal/script"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run SCRIPT",
		Short: "Run a playground script",
		Long: `Run a playground script. A script is a list of statements, each ended
by ';':

  let text = "xxfoobazyy";
  compile ` + "`(foo|bar)baz`" + ` with icase;
  test text;
  match text;
  matches text;
  replace text with "<$1>";
  graph dfa dot;
  print text;`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prog, err := script.ParseFile(a.fs, args[0])
			if err != nil {
				return err
			}
			ctx := script.NewContext(cmd.OutOrStdout(), a.options())
			ctx.Mark = a.marker(cmd.OutOrStdout())
			a.log.Debugf("running %s: %d statements", args[0], len(prog.Statements))
			return prog.Exec(ctx)
		},
	}
}
