package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

func newTestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test PATTERN [TEXT]",
		Short: "Report whether the text contains a match",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			text, err := a.input(cmd, args[1:])
			if err != nil {
				return err
			}
			ok := re.Test(text)
			fmt.Fprintln(cmd.OutOrStdout(), ok)
			if !ok {
				return errNoMatch
			}
			return nil
		},
	}
	a.addInputFlag(cmd)
	return cmd
}

func newFindCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find PATTERN [TEXT]",
		Short: "Print the leftmost match and its groups",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			text, err := a.input(cmd, args[1:])
			if err != nil {
				return err
			}
			m, ok := re.FindFirst(text)
			if !ok {
				return errNoMatch
			}
			fmt.Fprintln(cmd.OutOrStdout(), re.DescribeMatch(text, m))
			return nil
		},
	}
	a.addInputFlag(cmd)
	return cmd
}

func newFindAllCmd(a *app) *cobra.Command {
	var (
		limit     int
		highlight bool
	)
	cmd := &cobra.Command{
		Use:   "findall PATTERN [TEXT]",
		Short: "Print every non-overlapping match",
		Long: `Print every non-overlapping match, one per line, as
"start-end text group=value...". Offsets are byte offsets.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			text, err := a.input(cmd, args[1:])
			if err != nil {
				return err
			}
			matches := re.FindAllSlice(text, limit)
			if len(matches) == 0 {
				return errNoMatch
			}
			out := cmd.OutOrStdout()
			if highlight {
				fmt.Fprintln(out, re.Highlight(text, a.marker(out)))
			}
			for _, m := range matches {
				io.WriteString(out, re.DescribeMatch(text, m)+"\n")
			}
			a.log.Debugf("%d matches", len(matches))
			return nil
		},
	}
	a.addInputFlag(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", -1, "stop after this many matches")
	cmd.Flags().BoolVar(&highlight, "highlight", true, "print the text with matches highlighted first")
	return cmd
}

func newReplaceCmd(a *app) *cobra.Command {
	var literal bool
	cmd := &cobra.Command{
		Use:   "replace PATTERN TEMPLATE [TEXT]",
		Short: "Replace every match with an expanded template",
		Long: `Replace every match with TEMPLATE. In the template $0 is the whole match,
$1, $2, ... are the groups in order, $name or ${name} a named group, and
$$ a dollar sign.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			re, err := a.compile(args[0])
			if err != nil {
				return err
			}
			text, err := a.input(cmd, args[2:])
			if err != nil {
				return err
			}
			var out string
			if literal {
				out = re.ReplaceAllLiteral(text, args[1])
			} else if out, err = re.ReplaceAll(text, args[1]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			if !re.Test(text) {
				return errNoMatch
			}
			return nil
		},
	}
	a.addInputFlag(cmd)
	cmd.Flags().BoolVar(&literal, "literal", false, "insert TEMPLATE as is, without expansion")
	return cmd
}
