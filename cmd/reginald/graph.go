package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"reginald/internal/graph"
	"reginald/pkg/reginald"
)

func newGraphCmd(a *app) *cobra.Command {
	var (
		format  string
		useDFA  bool
		outFile string
	)
	cmd := &cobra.Command{
		Use:   "graph PATTERN",
		Short: "Render the compiled automaton",
		Long: `Render the Thompson automaton of PATTERN, or with --dfa its minimal DFA,
as a Mermaid flowchart (default) or a Graphviz digraph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			g := graph.FromNFA(re.Automaton())
			if useDFA {
				d, err := re.DFA()
				if err != nil {
					return err
				}
				g = graph.FromDFA(d)
			}
			if !cmd.Flags().Changed("format") {
				format = a.settings.GraphFormat
			}
			var buf bytes.Buffer
			switch format {
			case "mermaid":
				err = g.WriteMermaid(&buf)
			case "dot":
				err = g.WriteDOT(&buf)
			default:
				return fmt.Errorf("unknown format %q (want mermaid or dot)", format)
			}
			if err != nil {
				return err
			}
			return a.output(cmd, outFile, buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&format, "format", "mermaid", "mermaid or dot")
	cmd.Flags().BoolVar(&useDFA, "dfa", false, "render the minimal DFA instead of the automaton")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newGenCmd(a *app) *cobra.Command {
	var (
		name    string
		pkg     string
		outFile string
	)
	cmd := &cobra.Command{
		Use:   "gen PATTERN",
		Short: "Generate a standalone Go matcher",
		Long: `Generate Go source for a function <Name>Match(input string) bool that
reports whether the whole input matches PATTERN. Anchors are not
supported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			src, err := re.GenerateGo(name, pkg)
			if err != nil {
				return err
			}
			return a.output(cmd, outFile, src)
		},
	}
	cmd.Flags().StringVar(&name, "name", "Pattern", "exported name prefix")
	cmd.Flags().StringVar(&pkg, "package", "main", "package of the generated file")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newEquivCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "equiv PATTERN PATTERN",
		Short: "Check whether two patterns match the same strings",
		Long: `Compare the minimal DFAs of two patterns. When they differ, print a
shortest whole string that only one of them matches. Anchors are not
supported.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := a.compile(args[0])
			if err != nil {
				return err
			}
			y, err := a.compile(args[1])
			if err != nil {
				return err
			}
			same, witness, err := reginald.Equivalent(x, y)
			if err != nil {
				return err
			}
			if same {
				fmt.Fprintln(cmd.OutOrStdout(), "equivalent")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "differ on %q\n", witness)
			return errNoMatch
		},
	}
}

func newRewriteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rewrite PATTERN",
		Short: "Print an equivalent pattern rebuilt from the minimal DFA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			src, err := re.Rewrite()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), src)
			return nil
		},
	}
}
