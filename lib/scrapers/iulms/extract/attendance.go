package extract

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// Attendance parses the per-course attendance summary plus the
// per-lecture breakdowns.
func Attendance(ctx context.Context, html string) []AttendanceCourse {
	ctx, span := tracer.Start(ctx, "Attendance")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		slog.WarnContext(ctx, "failed to parse attendance html", "err", err)
		return nil
	}

	summaryTable := doc.Find("table.attendance-table").First()
	if summaryTable.Length() == 0 {
		slog.DebugContext(ctx, "attendance summary table not found")
		return nil
	}
	detailModals := doc.Find("div.modal")

	var out []AttendanceCourse
	summaryTable.Find("tr.attendanceRow").Each(func(index int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < 4 {
			return
		}

		courseName := strings.TrimSpace(cols.Eq(0).Text())
		total := parseCount(cols.Eq(1).Text())
		attended := parseCount(cols.Eq(2).Text())

		percentage := 0.0
		if total > 0 {
			percentage = float64(attended) / float64(total) * 100
		}

		out = append(out, AttendanceCourse{
			CourseName:      courseName,
			TotalClasses:    total,
			AttendedClasses: attended,
			Percentage:      percentage,
			Sessions:        detailSessionsAt(detailModals, index),
		})
	})

	if len(out) == 0 {
		slog.DebugContext(ctx, "attendance parsing finished with 0 courses")
	}
	return out
}

// detailSessionsAt joins a summary row to its per-lecture breakdown by
// positional index: the portal renders one detail modal per summary row
// in the same order and exposes no key tying them together. If the
// markup ever grows a real pairing key, replace the index lookup here
// and nothing else has to change.
func detailSessionsAt(modals *goquery.Selection, index int) []AttendanceSession {
	if index >= modals.Length() {
		return nil
	}
	table := modals.Eq(index).Find("table.attendance-table").First()

	var sessions []AttendanceSession
	table.Find("tr.attendanceRow").Each(func(_ int, row *goquery.Selection) {
		cols := row.Find("td")
		if cols.Length() < 3 {
			return
		}
		sessions = append(sessions, AttendanceSession{
			LectureNumber: strings.ReplaceAll(strings.TrimSpace(cols.Eq(0).Text()), ".", ""),
			Status1:       strings.TrimSpace(cols.Eq(1).Text()),
			Status2:       strings.TrimSpace(cols.Eq(2).Text()),
		})
	})
	return sessions
}

func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
