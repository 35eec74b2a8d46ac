package store

import "github.com/bjaus/datareport"

// CourseRecords returns one record per course with the keys code, title,
// professor and open.
func (s *Store) CourseRecords() []datareport.Record {
	out := make([]datareport.Record, 0, len(s.Courses))
	for _, c := range s.Courses {
		rec := courseRecord(c)
		rec["open"] = s.OpenCount(c.Code)
		out = append(out, rec)
	}
	return out
}

// AssignmentRecords returns one record per assignment selected by f. The
// course is nested under "course" so it can be addressed with paths such as
// "course.professor"; it is absent when the code is unknown.
func (s *Store) AssignmentRecords(f Filter) []datareport.Record {
	assignments := s.Filtered(f)
	out := make([]datareport.Record, 0, len(assignments))
	for _, a := range assignments {
		rec := datareport.Record{
			"id":          a.ID,
			"title":       a.Title,
			"course_code": a.Course,
			"due":         a.Due,
			"done":        a.Done,
		}
		if a.Notes != "" {
			rec["notes"] = a.Notes
		}
		if c, ok := s.Course(a.Course); ok {
			rec["course"] = courseRecord(c)
		}
		out = append(out, rec)
	}
	return out
}

func courseRecord(c Course) datareport.Record {
	rec := datareport.Record{
		"code":  c.Code,
		"title": c.Title,
	}
	if c.Professor != "" {
		rec["professor"] = c.Professor
	}
	return rec
}
