// Package extract turns raw portal documents into typed records. Every
// extractor shares one contract: malformed or absent markup yields an
// empty result, never an error, and a record list is either fully
// populated or empty, partial rows are dropped.
package extract

import "go.opentelemetry.io/otel"

var tracer = otel.Tracer("scrapers/iulms/extract")

type ClassDetail struct {
	Subject    string
	Teacher    string
	Room       string
	Time       string
	CourseCode string
	EdpCode    string
}

// ScheduleDay is one weekday's classes, ordered by appearance in the
// source.
type ScheduleDay struct {
	Day     string
	Classes []ClassDetail
}

type AttendanceSession struct {
	LectureNumber string
	Status1       string
	Status2       string
}

type AttendanceCourse struct {
	CourseName      string
	TotalClasses    int
	AttendedClasses int
	Percentage      float64
	Sessions        []AttendanceSession
}

type ExamResultRow struct {
	Subject            string
	Midterm            string
	QuizzesAssignments string
	Project            string
	Final              string
	Total              string
	Grade              string
	Points             string
}

type TranscriptSubject struct {
	Code        string
	Title       string
	Grade       string
	CreditHours string
}

type TranscriptSemester struct {
	Label       string
	Subjects    []TranscriptSubject
	SemesterGpa string
	OverallCgpa string
}

type VoucherEntry struct {
	VoucherNumber          string
	Semester               string
	DueDate                string
	InstallmentNumber      string
	Description            string
	Amount                 string
	IsLate                 bool
	PrintableVoucherNumber string
	PrintableStudentId     string
}

type ExamDetail struct {
	Subject    string
	CourseCode string
	Time       string
	Room       string
}

type ExamScheduleDay struct {
	Date  string
	Exams []ExamDetail
}
