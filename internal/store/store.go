// Package store persists courses, assignments and settings in a single YAML
// file.
package store

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for programmatic error handling.
var (
	ErrDuplicateCourse = errors.New("course already exists")
	ErrUnknownCourse   = errors.New("unknown course")
	ErrNoMatch         = errors.New("no matching assignment")
	ErrInvalid         = errors.New("invalid value")
)

// Course is a class assignments belong to.
type Course struct {
	Code      string `yaml:"code"`
	Title     string `yaml:"title"`
	Professor string `yaml:"professor,omitempty"`
}

// Assignment is one piece of homework.
type Assignment struct {
	ID     int       `yaml:"id"`
	Title  string    `yaml:"title"`
	Course string    `yaml:"course"`
	Due    time.Time `yaml:"due"`
	Done   bool      `yaml:"done"`
	Notes  string    `yaml:"notes,omitempty"`
}

// Settings holds user preferences kept alongside the data.
type Settings struct {
	// ConfirmOnGlob asks before editing more than one assignment at once.
	ConfirmOnGlob bool `yaml:"confirm_on_glob"`
}

// Store is the in-memory form of the database file.
type Store struct {
	Courses     []Course     `yaml:"courses"`
	Assignments []Assignment `yaml:"assignments"`
	Settings    Settings     `yaml:"settings"`

	path string
}

// New returns an empty store with default settings bound to path.
func New(path string) *Store {
	return &Store{
		Courses:     []Course{},
		Assignments: []Assignment{},
		Settings:    Settings{ConfirmOnGlob: true},
		path:        path,
	}
}

// Open reads the database at path. A missing file yields an error wrapping
// fs.ErrNotExist.
func Open(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	st := New(path)
	if err := yaml.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("decode database %s: %w", path, err)
	}
	return st, nil
}

// Create writes a new empty database at path, replacing any existing one.
func Create(path string) (*Store, error) {
	st := New(path)
	if err := st.Save(); err != nil {
		return nil, err
	}
	return st, nil
}

// Path returns the file the store is bound to.
func (s *Store) Path() string { return s.path }

// Save writes the store back to its file. The write is atomic where the
// platform allows it.
func (s *Store) Save() error {
	abs, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("save database %s: %w", s.path, err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("save database %s: %w", s.path, err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode database: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode database: %w", err)
	}

	if err1 := atomic.WriteFile(abs, bytes.NewReader(buf.Bytes())); err1 != nil {
		if err2 := os.WriteFile(abs, buf.Bytes(), 0o644); err2 != nil {
			return fmt.Errorf("save database %s: %w; on non-atomic retry: %w", s.path, err1, err2)
		}
	}
	return nil
}

// Course returns the course with the given code.
func (s *Store) Course(code string) (Course, bool) {
	for _, c := range s.Courses {
		if strings.EqualFold(c.Code, code) {
			return c, true
		}
	}
	return Course{}, false
}

// AddCourse adds c. Codes are unique, compared case-insensitively.
func (s *Store) AddCourse(c Course) error {
	c.Code = strings.TrimSpace(c.Code)
	if c.Code == "" {
		return fmt.Errorf("%w: course code is empty", ErrInvalid)
	}
	if _, ok := s.Course(c.Code); ok {
		return fmt.Errorf("%w: %s", ErrDuplicateCourse, c.Code)
	}
	s.Courses = append(s.Courses, c)
	return nil
}

// AddAssignment assigns the next free ID to a and adds it. The course must
// exist.
func (s *Store) AddAssignment(a Assignment) (Assignment, error) {
	if strings.TrimSpace(a.Title) == "" {
		return Assignment{}, fmt.Errorf("%w: assignment title is empty", ErrInvalid)
	}
	c, ok := s.Course(a.Course)
	if !ok {
		return Assignment{}, fmt.Errorf("%w: %s", ErrUnknownCourse, a.Course)
	}
	a.Course = c.Code
	a.ID = s.nextID()
	s.Assignments = append(s.Assignments, a)
	return a, nil
}

func (s *Store) nextID() int {
	id := 0
	for _, a := range s.Assignments {
		id = max(id, a.ID)
	}
	return id + 1
}

// Match returns the assignments selected by pattern: an assignment ID, or a
// glob matched case-insensitively against titles. The returned pointers
// refer into s.Assignments.
func (s *Store) Match(pattern string) ([]*Assignment, error) {
	if id, err := strconv.Atoi(pattern); err == nil {
		for i := range s.Assignments {
			if s.Assignments[i].ID == id {
				return []*Assignment{&s.Assignments[i]}, nil
			}
		}
		return nil, fmt.Errorf("%w: id %d", ErrNoMatch, id)
	}

	glob := strings.ToLower(pattern)
	if _, err := path.Match(glob, ""); err != nil {
		return nil, fmt.Errorf("pattern %q: %w", pattern, err)
	}
	var out []*Assignment
	for i := range s.Assignments {
		if ok, _ := path.Match(glob, strings.ToLower(s.Assignments[i].Title)); ok {
			out = append(out, &s.Assignments[i])
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoMatch, pattern)
	}
	return out, nil
}

// Filter narrows the assignments returned by [Store.Filtered].
type Filter struct {
	Course      string
	IncludeDone bool
}

// Filtered returns the assignments selected by f ordered by due date, then
// ID.
func (s *Store) Filtered(f Filter) []Assignment {
	var out []Assignment
	for _, a := range s.Assignments {
		if a.Done && !f.IncludeDone {
			continue
		}
		if f.Course != "" && !strings.EqualFold(a.Course, f.Course) {
			continue
		}
		out = append(out, a)
	}
	slices.SortStableFunc(out, func(x, y Assignment) int {
		if c := x.Due.Compare(y.Due); c != 0 {
			return c
		}
		return x.ID - y.ID
	})
	return out
}

// OpenCount returns the number of unfinished assignments for a course.
func (s *Store) OpenCount(code string) int {
	n := 0
	for _, a := range s.Assignments {
		if !a.Done && strings.EqualFold(a.Course, code) {
			n++
		}
	}
	return n
}
