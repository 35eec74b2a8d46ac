// Package cli implements the command-line interface of hwtrack.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/bjaus/datareport"
	"github.com/bjaus/datareport/internal/config"
	"github.com/bjaus/datareport/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	cobra.EnableCommandSorting = false
}

// version is set at build time to a Git tag.
var version = "development version"

func getVersion() string {
	return "hwtrack " + version
}

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	config  string
	db      string
	verbose bool
}

// app carries the state shared by all commands of one process.
type app struct {
	in          *bufio.Reader
	out, errOut io.Writer
	interactive bool

	level *slog.LevelVar
	log   *slog.Logger
	now   func() time.Time
	funcs *datareport.Registry

	flags   globalFlags
	cfg     config.Config
	inShell bool
}

func newApp(stdin io.Reader, stdout, stderr io.Writer) *app {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)
	a := &app{
		in:     bufio.NewReader(stdin),
		out:    stdout,
		errOut: stderr,
		level:  level,
		log:    slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		now:    time.Now,
		funcs:  datareport.NewRegistry(datareport.Builtins()...),
		flags:  globalFlags{config: config.DefaultPath()},
	}
	if f, ok := stdin.(*os.File); ok {
		a.interactive = term.IsTerminal(int(f.Fd()))
	}
	return a
}

// DoCLI reads the command-line arguments and runs the appropriate
// code, then exits the process.
func DoCLI() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Run executes one command line and returns the process exit code.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	return newApp(stdin, stdout, stderr).execute(args)
}

func (a *app) execute(args []string) int {
	cmd := a.rootCmd(a.flags)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(a.errOut, "Error: %s\n", err)
		return 1
	}
	return 0
}

// rootCmd builds a fresh command tree. The shell builds one per input line so
// flag values never leak between lines; defaults carries the persistent flag
// values of the enclosing invocation.
func (a *app) rootCmd(defaults globalFlags) *cobra.Command {
	g := defaults

	rootCmd := &cobra.Command{
		Use:           "hwtrack",
		Short:         "Track courses and homework assignments",
		Version:       getVersion(),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(g)
		},
	}
	rootCmd.SetVersionTemplate(`{{.Version}}` + "\n")
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)
	rootCmd.PersistentFlags().StringVar(
		&g.config, "config", g.config, "config file",
	)
	rootCmd.PersistentFlags().StringVar(
		&g.db, "db", g.db, "database file (overrides config and "+config.EnvDatabase+")",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&g.verbose, "verbose", "v", g.verbose, "log debug output to stderr",
	)

	rootCmd.AddCommand(
		a.listCmd(),
		a.newCmd(),
		a.editCmd(),
		a.databaseCmd(),
		a.shellCmd(),
	)
	return rootCmd
}

func (a *app) setup(g globalFlags) error {
	a.flags = g
	if g.verbose {
		a.level.Set(slog.LevelDebug)
	} else {
		a.level.Set(slog.LevelWarn)
	}
	cfg, err := config.Load(g.config)
	if err != nil {
		return err
	}
	if g.db != "" {
		cfg.Database = g.db
	}
	a.cfg = cfg
	a.log.Debug("config loaded",
		slog.String("config", g.config),
		slog.String("database", cfg.Database),
		slog.String("format", cfg.Format))
	return nil
}

// openStore opens the configured database.
func (a *app) openStore() (*store.Store, error) {
	st, err := store.Open(a.cfg.Database)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no database at %s; run \"hwtrack database init\" to create one", a.cfg.Database)
	}
	if err != nil {
		return nil, err
	}
	a.log.Debug("database opened",
		slog.String("path", st.Path()),
		slog.Int("courses", len(st.Courses)),
		slog.Int("assignments", len(st.Assignments)))
	return st, nil
}

func (a *app) save(st *store.Store) error {
	if err := st.Save(); err != nil {
		return err
	}
	a.log.Debug("database saved", slog.String("path", st.Path()))
	return nil
}

// readLine returns the next input line without its line break. At end of
// input it returns the final partial line, if any, together with io.EOF.
func (a *app) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

// confirm asks a yes/no question. Anything but "y" or "yes" is a no.
func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [y/N] ", prompt)
	line, err := a.readLine()
	if err != nil && line == "" {
		fmt.Fprintln(a.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
