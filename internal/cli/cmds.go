package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bjaus/datareport"
	"github.com/bjaus/datareport/internal/store"
	"github.com/spf13/cobra"
)

var courseTitles = []datareport.Title{
	datareport.T("Code", "code"),
	datareport.T("Title", "title"),
	datareport.T("Professor", "professor"),
	datareport.T("Open", "open"),
}

// assignmentTitles returns the default assignment columns followed by any
// columns declared in the config file.
func (a *app) assignmentTitles() ([]datareport.Title, error) {
	titles := []datareport.Title{
		datareport.T("ID", "id"),
		{Label: "Done", Selector: datareport.MustFormatted(datareport.Check,
			map[string]string{"done": "done"}, nil)},
		datareport.T("Title", "title"),
		datareport.T("Course", "course.code"),
		{Label: "Due", Selector: datareport.MustFormatted(datareport.Date,
			map[string]string{"t": "due"},
			map[string]any{"layout": a.cfg.DateLayout})},
		datareport.T("Professor", "course.professor"),
	}
	extra, err := a.cfg.Titles(a.funcs)
	if err != nil {
		return nil, err
	}
	return append(titles, extra...), nil
}

func (a *app) render(r *datareport.Report, formatStr string) error {
	if formatStr == "" {
		formatStr = a.cfg.Format
	}
	f, err := datareport.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	return r.Write(a.out, f, datareport.WithIndent(a.cfg.Indent))
}

// --- list ---

func (a *app) listCmd() *cobra.Command {
	var formatStr, tmpl string
	var course string
	var all bool

	cmd := &cobra.Command{
		Use:       "list [courses|assignments]",
		Short:     "List courses or assignments",
		Long:      "List assignments (the default) or courses as a table",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"courses", "assignments"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("template") {
				formatStr = datareport.GoTemplate(tmpl).String()
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			if len(args) == 1 && args[0] == "courses" {
				return a.render(datareport.New(courseTitles, st.CourseRecords()), formatStr)
			}
			titles, err := a.assignmentTitles()
			if err != nil {
				return err
			}
			records := st.AssignmentRecords(store.Filter{Course: course, IncludeDone: all})
			return a.render(datareport.New(titles, records), formatStr)
		},
	}
	cmd.Flags().SortFlags = false
	cmd.Flags().StringVarP(
		&formatStr, "format", "f", "", `output format (default from config, "table" unless set)`,
	)
	cmd.Flags().StringVarP(
		&tmpl, "template", "t", "", `Go template run once per row, e.g. '{{.Title}}: {{.Due}}'`,
	)
	cmd.Flags().StringVarP(
		&course, "course", "c", "", "only list assignments of this course",
	)
	cmd.Flags().BoolVarP(
		&all, "all", "a", false, "include finished assignments",
	)
	cmd.MarkFlagsMutuallyExclusive("format", "template")
	return cmd
}

// --- new ---

func (a *app) newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Add a course or an assignment",
	}

	var professor string
	cmdCourse := &cobra.Command{
		Use:   "course CODE TITLE...",
		Short: "Add a course",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			c := store.Course{
				Code:      args[0],
				Title:     strings.Join(args[1:], " "),
				Professor: professor,
			}
			if err := st.AddCourse(c); err != nil {
				return err
			}
			if err := a.save(st); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Added course %s\n", strings.TrimSpace(c.Code))
			return nil
		},
	}
	cmdCourse.Flags().StringVarP(
		&professor, "professor", "p", "", "professor teaching the course",
	)
	cmd.AddCommand(cmdCourse)

	var course, due, notes string
	cmdAssignment := &cobra.Command{
		Use:   "assignment TITLE...",
		Short: "Add an assignment",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueAt, err := parseDue(due, a.now())
			if err != nil {
				return err
			}
			st, err := a.openStore()
			if err != nil {
				return err
			}
			added, err := st.AddAssignment(store.Assignment{
				Title:  strings.Join(args, " "),
				Course: course,
				Due:    dueAt,
				Notes:  notes,
			})
			if err != nil {
				return err
			}
			if err := a.save(st); err != nil {
				return err
			}
			a.log.Debug("assignment added", slog.Int("id", added.ID), slog.String("course", added.Course))
			fmt.Fprintf(a.out, "Added assignment %d: %s\n", added.ID, added.Title)
			return nil
		},
	}
	cmdAssignment.Flags().SortFlags = false
	cmdAssignment.Flags().StringVarP(
		&course, "course", "c", "", "course code (required)",
	)
	cmdAssignment.Flags().StringVarP(
		&due, "due", "d", "", `due date: YYYY-MM-DD, "today", "tomorrow" or "+Nd" (required)`,
	)
	cmdAssignment.Flags().StringVarP(
		&notes, "notes", "n", "", "free-form notes",
	)
	markRequired(cmdAssignment, "course", "due")
	cmd.AddCommand(cmdAssignment)

	return cmd
}

// markRequired marks flags of cmd as required. The names are fixed at build
// time, so a failure is a programming error.
func markRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("%s: %v", cmd.Name(), err))
		}
	}
}

// parseDue parses an absolute YYYY-MM-DD date or one relative to now.
func parseDue(s string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	switch s = strings.ToLower(strings.TrimSpace(s)); {
	case s == "today":
		return today, nil
	case s == "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case strings.HasPrefix(s, "+") && strings.HasSuffix(s, "d"):
		n, err := strconv.Atoi(s[1 : len(s)-1])
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid due date %q", s)
		}
		return today.AddDate(0, 0, n), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// --- edit ---

func (a *app) editCmd() *cobra.Command {
	var title, due, course, notes string
	var done, undone, yes bool

	cmd := &cobra.Command{
		Use:   "edit PATTERN",
		Short: "Edit assignments",
		Long: "Edit the assignments selected by PATTERN, either an assignment ID or a\n" +
			"glob matched against titles (for example \"essay*\").",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed := false
			for _, name := range []string{"title", "due", "course", "notes", "done", "undone"} {
				changed = changed || cmd.Flags().Changed(name)
			}
			if !changed {
				return errors.New("nothing to change; pass at least one of --title, --due, --course, --notes, --done, --undone")
			}

			if cmd.Flags().Changed("title") && strings.TrimSpace(title) == "" {
				return fmt.Errorf("%w: assignment title is empty", store.ErrInvalid)
			}

			var dueAt time.Time
			if cmd.Flags().Changed("due") {
				var err error
				if dueAt, err = parseDue(due, a.now()); err != nil {
					return err
				}
			}

			st, err := a.openStore()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("course") {
				c, ok := st.Course(course)
				if !ok {
					return fmt.Errorf("%w: %s", store.ErrUnknownCourse, course)
				}
				course = c.Code
			}
			matches, err := st.Match(args[0])
			if err != nil {
				return err
			}
			if len(matches) > 1 && st.Settings.ConfirmOnGlob && !yes {
				if !a.confirm(fmt.Sprintf("Edit %d assignments matching %q?", len(matches), args[0])) {
					fmt.Fprintln(a.out, "Aborted.")
					return nil
				}
			}

			for _, m := range matches {
				if cmd.Flags().Changed("title") {
					m.Title = title
				}
				if cmd.Flags().Changed("due") {
					m.Due = dueAt
				}
				if cmd.Flags().Changed("course") {
					m.Course = course
				}
				if cmd.Flags().Changed("notes") {
					m.Notes = notes
				}
				if done {
					m.Done = true
				}
				if undone {
					m.Done = false
				}
				a.log.Debug("assignment edited", slog.Int("id", m.ID))
			}
			if err := a.save(st); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Updated %d assignment(s)\n", len(matches))
			return nil
		},
	}
	cmd.Flags().SortFlags = false
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVarP(&due, "due", "d", "", "new due date")
	cmd.Flags().StringVarP(&course, "course", "c", "", "new course code")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "new notes")
	cmd.Flags().BoolVar(&done, "done", false, "mark as finished")
	cmd.Flags().BoolVar(&undone, "undone", false, "mark as not finished")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.MarkFlagsMutuallyExclusive("done", "undone")
	return cmd
}

// --- database ---

var settingsTitles = []datareport.Title{
	datareport.T("Path", "path"),
	datareport.T("Courses", "courses"),
	datareport.T("Assignments", "assignments"),
	datareport.T("Open", "open"),
	datareport.T("Confirm on glob", "confirm_on_glob"),
}

func (a *app) databaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "database",
		Short: "Create and inspect the database",
	}

	var force bool
	cmdInit := &cobra.Command{
		Use:   "init",
		Short: "Create a new database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.cfg.Database); err == nil && !force {
				return fmt.Errorf("database already exists at %s (use --force to replace it)", a.cfg.Database)
			}
			st, err := store.Create(a.cfg.Database)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Created database %s\n", st.Path())
			return nil
		},
	}
	cmdInit.Flags().BoolVarP(&force, "force", "f", false, "replace an existing database")
	cmd.AddCommand(cmdInit)

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the database location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(a.out, a.cfg.Database)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Summarize the database and its settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			open := 0
			for _, as := range st.Assignments {
				if !as.Done {
					open++
				}
			}
			rec := datareport.Record{
				"path":            st.Path(),
				"courses":         len(st.Courses),
				"assignments":     len(st.Assignments),
				"open":            open,
				"confirm_on_glob": st.Settings.ConfirmOnGlob,
			}
			return datareport.New(settingsTitles, []datareport.Record{rec}).
				Write(a.out, datareport.Text, datareport.WithIndent(a.cfg.Indent))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set SETTING VALUE",
		Short: "Change a setting (confirm-on-glob)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			switch args[0] {
			case "confirm-on-glob":
				v, err := strconv.ParseBool(args[1])
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				st.Settings.ConfirmOnGlob = v
			default:
				return fmt.Errorf("unknown setting %q", args[0])
			}
			return a.save(st)
		},
	})

	var yes bool
	cmdReset := &cobra.Command{
		Use:   "reset",
		Short: "Delete all courses and assignments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !a.confirm(fmt.Sprintf("Delete everything in %s?", a.cfg.Database)) {
				fmt.Fprintln(a.out, "Aborted.")
				return nil
			}
			if _, err := store.Create(a.cfg.Database); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Database reset")
			return nil
		},
	}
	cmdReset.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	cmd.AddCommand(cmdReset)

	return cmd
}
