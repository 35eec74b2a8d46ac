package store_test

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"github.com/bjaus/datareport"
	"github.com/bjaus/datareport/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time { return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC) }

func seeded(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "db.yaml"))
	require.NoError(t, st.AddCourse(store.Course{Code: "CS101", Title: "Intro to CS", Professor: "Ada"}))
	require.NoError(t, st.AddCourse(store.Course{Code: "MATH", Title: "Calculus"}))
	for _, a := range []store.Assignment{
		{Title: "Essay 1", Course: "cs101", Due: day(22)},
		{Title: "Problem set", Course: "MATH", Due: day(20)},
		{Title: "Essay 2", Course: "CS101", Due: day(22), Done: true},
	} {
		_, err := st.AddAssignment(a)
		require.NoError(t, err)
	}
	return st
}

func TestCreateOpenRoundTrip(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "nested", "db.yaml")
	st, err := store.Create(file)
	require.NoError(t, err)
	assert.Equal(t, file, st.Path())
	assert.True(t, st.Settings.ConfirmOnGlob)

	require.NoError(t, st.AddCourse(store.Course{Code: "CS101", Title: "Intro"}))
	_, err = st.AddAssignment(store.Assignment{Title: "HW1", Course: "CS101", Due: day(20), Notes: "ch. 3"})
	require.NoError(t, err)
	st.Settings.ConfirmOnGlob = false
	require.NoError(t, st.Save())

	got, err := store.Open(file)
	require.NoError(t, err)
	assert.Equal(t, st.Courses, got.Courses)
	require.Len(t, got.Assignments, 1)
	assert.Equal(t, "HW1", got.Assignments[0].Title)
	assert.Equal(t, "ch. 3", got.Assignments[0].Notes)
	assert.True(t, day(20).Equal(got.Assignments[0].Due))
	assert.False(t, got.Settings.ConfirmOnGlob)
}

func TestOpenMissing(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := store.Open(file)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Contains(t, err.Error(), "open database "+file+":")
}

func TestOpenCorrupt(t *testing.T) {
	t.Parallel()
	file := filepath.Join(t.TempDir(), "db.yaml")
	require.NoError(t, os.WriteFile(file, []byte("courses: {not: [a list"), 0o644))
	_, err := store.Open(file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), file)
}

func TestAddCourse(t *testing.T) {
	t.Parallel()
	st := store.New("db.yaml")
	require.NoError(t, st.AddCourse(store.Course{Code: " CS101 ", Title: "Intro"}))
	assert.Equal(t, "CS101", st.Courses[0].Code)

	err := st.AddCourse(store.Course{Code: "cs101"})
	assert.True(t, errors.Is(err, store.ErrDuplicateCourse))

	err = st.AddCourse(store.Course{Code: "  "})
	assert.True(t, errors.Is(err, store.ErrInvalid))
}

func TestAddAssignment(t *testing.T) {
	t.Parallel()
	st := seeded(t)
	assert.Equal(t, 1, st.Assignments[0].ID)
	assert.Equal(t, 3, st.Assignments[2].ID)
	assert.Equal(t, "CS101", st.Assignments[0].Course)

	_, err := st.AddAssignment(store.Assignment{Title: "Lab", Course: "CHEM"})
	assert.True(t, errors.Is(err, store.ErrUnknownCourse))

	_, err = st.AddAssignment(store.Assignment{Title: " ", Course: "MATH"})
	assert.True(t, errors.Is(err, store.ErrInvalid))
}

func TestMatch(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		pattern string
		want    []string
		wantErr error
	}{
		"id":           {pattern: "2", want: []string{"Problem set"}},
		"unknown id":   {pattern: "9", wantErr: store.ErrNoMatch},
		"glob":         {pattern: "essay*", want: []string{"Essay 1", "Essay 2"}},
		"exact title":  {pattern: "Problem set", want: []string{"Problem set"}},
		"no match":     {pattern: "lab*", wantErr: store.ErrNoMatch},
		"bad pattern":  {pattern: "[", wantErr: path.ErrBadPattern},
		"single class": {pattern: "essay [2]", want: []string{"Essay 2"}},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := seeded(t).Match(tt.pattern)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "%v", err)
				return
			}
			require.NoError(t, err)
			var titles []string
			for _, a := range got {
				titles = append(titles, a.Title)
			}
			assert.Equal(t, tt.want, titles)
		})
	}
}

func TestMatchReturnsLiveEntries(t *testing.T) {
	t.Parallel()
	st := seeded(t)
	got, err := st.Match("1")
	require.NoError(t, err)
	got[0].Done = true
	assert.True(t, st.Assignments[0].Done)
}

func TestFiltered(t *testing.T) {
	t.Parallel()
	st := seeded(t)

	titles := func(as []store.Assignment) []string {
		var out []string
		for _, a := range as {
			out = append(out, a.Title)
		}
		return out
	}
	assert.Equal(t, []string{"Problem set", "Essay 1"}, titles(st.Filtered(store.Filter{})))
	assert.Equal(t, []string{"Problem set", "Essay 1", "Essay 2"}, titles(st.Filtered(store.Filter{IncludeDone: true})))
	assert.Equal(t, []string{"Essay 1", "Essay 2"}, titles(st.Filtered(store.Filter{Course: "cs101", IncludeDone: true})))
	assert.Equal(t, 1, st.OpenCount("CS101"))
}

func TestAssignmentRecordsRender(t *testing.T) {
	t.Parallel()
	st := seeded(t)
	st.Assignments = append(st.Assignments, store.Assignment{ID: 9, Title: "Orphan", Course: "GONE", Due: day(25)})

	r := datareport.New([]datareport.Title{
		datareport.T("ID", "id"),
		datareport.T("Title", "title"),
		datareport.T("Prof", "course.professor"),
		datareport.T("Due", "due"),
	}, st.AssignmentRecords(store.Filter{}))
	got, err := r.Table(0)
	require.NoError(t, err)
	assert.Equal(t, "ID | Title       | Prof | Due\r\n"+
		"---+-------------+------+-----------\r\n"+
		"2  | Problem set |      | 2026-10-20\r\n"+
		"1  | Essay 1     | Ada  | 2026-10-22\r\n"+
		"9  | Orphan      |      | 2026-10-25", got)
}

func TestCourseRecords(t *testing.T) {
	t.Parallel()
	recs := seeded(t).CourseRecords()
	require.Len(t, recs, 2)
	assert.Equal(t, datareport.Record{"code": "CS101", "title": "Intro to CS", "professor": "Ada", "open": 1}, recs[0])
	assert.Equal(t, datareport.Record{"code": "MATH", "title": "Calculus", "open": 1}, recs[1])
}
