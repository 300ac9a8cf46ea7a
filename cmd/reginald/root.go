package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"reginald/internal/config"
	"reginald/internal/logging"
	"reginald/pkg/reginald"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

// errNoMatch makes a command exit with status 1 without a message.
var errNoMatch = errors.New("no match")

// app is the state shared by every command of one invocation.
type app struct {
	fs       afero.Fs
	loader   *config.Loader
	settings config.Settings
	log      *logging.Logger

	cfgFile   string
	inputFile string
}

func execute(args []string, in io.Reader, out, errOut io.Writer, fs afero.Fs) int {
	root := newRootCmd(fs)
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	err := root.Execute()
	switch {
	case err == nil:
		return exitMatch
	case errors.Is(err, errNoMatch):
		return exitNoMatch
	}
	fmt.Fprintf(errOut, "reginald: %v\n", err)
	return exitError
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	a := &app{fs: fs, loader: config.NewLoader(fs)}
	root := &cobra.Command{
		Use:   "reginald",
		Short: "Compile, run and visualise regular expressions",
		Long: `reginald compiles a pattern into a Thompson automaton and simulates it
without backtracking.

Examples:
  reginald test '^abc$' abc
  reginald findall '(\d+)-(\d+)' --file ranges.txt
  reginald replace '(\w+)@(\w+)' '$2 at $1' 'me@home'
  reginald graph '(a|b)*abb' --dfa --format dot -o abb.dot
  reginald equiv '(a|b)*' '(a*b*)*'
  reginald run playground.rgs`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./.reginald.yaml)")
	pf.Bool(config.KeyDotAll, false, "let . match newlines")
	pf.Bool(config.KeyMultiline, false, "let ^ and $ match at line boundaries")
	pf.BoolP(config.KeyIgnoreCase, "i", false, "case-insensitive matching")
	pf.Int(config.KeyMaxRepeat, reginald.DefaultMaxRepeat, "largest accepted repetition bound")
	pf.Int(config.KeyMaxStates, reginald.DefaultMaxStates, "largest accepted automaton")
	pf.Int(config.KeyMaxDFAStates, reginald.DefaultMaxDFAStates, "largest DFA view")
	pf.Bool(config.KeyNoColor, false, "disable highlighting")
	pf.BoolP(config.KeyVerbose, "v", false, "print compilation diagnostics to stderr")

	root.AddCommand(
		newTestCmd(a),
		newFindCmd(a),
		newFindAllCmd(a),
		newReplaceCmd(a),
		newGraphCmd(a),
		newGenCmd(a),
		newEquivCmd(a),
		newRewriteCmd(a),
		newRunCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := a.loader.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	s, err := a.loader.Load(a.cfgFile)
	if err != nil {
		return err
	}
	a.settings = s
	a.log = logging.New(cmd.ErrOrStderr(), s.Verbose)
	if f := a.loader.ConfigFile(); f != "" {
		a.log.Debugf("config: %s", f)
		for _, k := range a.loader.Unknown() {
			a.log.Warnf("%s: unknown setting %q", f, k)
		}
	}
	return nil
}

func (a *app) options() reginald.Options { return a.settings.Options(a.log) }

func (a *app) compile(pattern string) (*reginald.Regex, error) {
	return reginald.CompileWith(pattern, a.options())
}

// addInputFlag registers --file on commands that read sample text.
func (a *app) addInputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.inputFile, "file", "f", "", "read the text from a file instead of an argument")
}

// input returns the text argument, the --file contents, or stdin.
func (a *app) input(cmd *cobra.Command, args []string) (string, error) {
	switch {
	case len(args) > 0 && a.inputFile != "":
		return "", fmt.Errorf("give the text either as an argument or with --file, not both")
	case len(args) > 0:
		return args[0], nil
	case a.inputFile != "":
		data, err := afero.ReadFile(a.fs, a.inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		return trimNewline(string(data)), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return trimNewline(string(data)), nil
}

// output writes data to path, or to the command output when path is
// empty or "-".
func (a *app) output(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := afero.WriteFile(a.fs, path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)
	return nil
}

// marker highlights matched text: styled when colour is on, bracketed
// otherwise.
func (a *app) marker(w io.Writer) func(string) string {
	if !a.settings.Color {
		return func(s string) string { return "[" + s + "]" }
	}
	style := lipgloss.NewRenderer(w).NewStyle().
		Bold(true).
		Underline(true).
		Foreground(lipgloss.Color("205"))
	return func(s string) string {
		if s == "" {
			return style.Render("∅")
		}
		return style.Render(s)
	}
}

// trimNewline drops one trailing newline, so that text read from a
// file or a pipe behaves like the same text given as an argument.
func trimNewline(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
