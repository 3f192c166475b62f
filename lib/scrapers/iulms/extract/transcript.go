package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/codes"
)

// below this many credit hours a semester group is treated as a summer
// term rather than a regular numbered semester
const summerCreditThreshold = 9

type attemptedCourse struct {
	SemNo    int     `json:"semNo"`
	CrsCode  string  `json:"crsCode"`
	CrsTitle string  `json:"crsTitle"`
	CrsGrade string  `json:"crsGrade"`
	CrsHours string  `json:"crsHours"`
	Gpa      float64 `json:"gpa"`
}

type transcriptPayload struct {
	AttemptedCourses []attemptedCourse `json:"attemptedCourses"`
	Cgpa             string            `json:"cgpa"`
}

// Transcript parses the data service's JSON into semester groups.
// Courses graded I, W or PASS stay listed but are excluded from the
// GPA on both sides of the division. Groups under 9 summed credit
// hours are labeled "Summer Semester" and do not consume a semester
// number.
func Transcript(ctx context.Context, raw string) []TranscriptSemester {
	ctx, span := tracer.Start(ctx, "Transcript")
	defer span.End()

	var payload transcriptPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		span.SetStatus(codes.Error, "failed to unmarshal transcript json")
		slog.WarnContext(ctx, "failed to unmarshal transcript json", "err", err)
		return nil
	}

	groups := map[int][]attemptedCourse{}
	for _, course := range payload.AttemptedCourses {
		groups[course.SemNo] = append(groups[course.SemNo], course)
	}
	semNos := make([]int, 0, len(groups))
	for semNo := range groups {
		semNos = append(semNos, semNo)
	}
	sort.Ints(semNos)

	overallCgpa := payload.Cgpa
	if overallCgpa == "" {
		overallCgpa = "N/A"
	}

	var out []TranscriptSemester
	regularSemester := 1
	for _, semNo := range semNos {
		var gpaPoints, gpaCredits, totalCredits float64
		subjects := make([]TranscriptSubject, 0, len(groups[semNo]))

		for _, course := range groups[semNo] {
			credits, err := strconv.ParseFloat(strings.TrimSpace(course.CrsHours), 64)
			if err != nil {
				credits = 0
			}
			totalCredits += credits

			if course.CrsGrade != "I" && course.CrsGrade != "W" && course.CrsGrade != "PASS" {
				gpaPoints += course.Gpa * credits
				gpaCredits += credits
			}

			subjects = append(subjects, TranscriptSubject{
				Code:        course.CrsCode,
				Title:       course.CrsTitle,
				Grade:       course.CrsGrade,
				CreditHours: strings.TrimSpace(course.CrsHours),
			})
		}

		semesterGpa := "0.00"
		if gpaCredits > 0 {
			semesterGpa = fmt.Sprintf("%.2f", gpaPoints/gpaCredits)
		}

		label := fmt.Sprintf("Semester %d", regularSemester)
		if totalCredits < summerCreditThreshold {
			label = "Summer Semester"
		} else {
			regularSemester++
		}

		out = append(out, TranscriptSemester{
			Label:       label,
			Subjects:    subjects,
			SemesterGpa: semesterGpa,
			OverallCgpa: overallCgpa,
		})
	}

	if len(out) == 0 {
		slog.DebugContext(ctx, "transcript parsing finished with 0 semesters", "json_len", len(raw))
	}
	return out
}
