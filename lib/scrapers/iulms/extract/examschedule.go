package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

const examsNotAvailableMarker = "not available at the moment"

// ExamSchedule parses the date-seal exam timetable: one table per exam
// day, the date in the first header cell (any parenthetical dropped).
// The portal's "not available" page is an expected empty state.
func ExamSchedule(ctx context.Context, html string) []ExamScheduleDay {
	ctx, span := tracer.Start(ctx, "ExamSchedule")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		slog.WarnContext(ctx, "failed to parse exam schedule html", "err", err)
		return nil
	}

	if strings.Contains(strings.ToLower(doc.Text()), examsNotAvailableMarker) {
		slog.DebugContext(ctx, "exam schedule not published yet")
		return nil
	}

	var out []ExamScheduleDay
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		date := table.Find("th").First().Text()
		date = strings.TrimSpace(strings.SplitN(date, "(", 2)[0])
		if date == "" {
			return
		}

		var exams []ExamDetail
		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			cols := row.Find("td")
			if cols.Length() < 4 {
				return
			}
			cell := func(n int) string { return strings.TrimSpace(cols.Eq(n).Text()) }
			exams = append(exams, ExamDetail{
				Subject:    cell(0),
				CourseCode: cell(1),
				Time:       cell(2),
				Room:       cell(3),
			})
		})

		if len(exams) == 0 {
			return
		}
		out = append(out, ExamScheduleDay{Date: date, Exams: exams})
	})

	if len(out) == 0 {
		slog.DebugContext(ctx, "exam schedule parsing finished with 0 days")
	}
	return out
}
