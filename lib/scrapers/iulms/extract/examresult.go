package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

// ExamResults parses the current-semester results table. Rows with at
// least 8 cells become result rows by fixed column order; a single-cell
// row reading "GPA: x.xx" is captured as the gpa line instead.
func ExamResults(ctx context.Context, html string) ([]ExamResultRow, string) {
	ctx, span := tracer.Start(ctx, "ExamResults")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		slog.WarnContext(ctx, "failed to parse exam result html", "err", err)
		return nil, ""
	}

	table := doc.Find("table.tblAttendance").First()
	if table.Length() == 0 {
		slog.WarnContext(ctx, "exam result table with class 'tblAttendance' not found")
		return nil, ""
	}

	var rows []ExamResultRow
	var gpaLine string
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			// header
			return
		}
		cols := row.Find("td")
		if cols.Length() >= 8 {
			cell := func(n int) string { return strings.TrimSpace(cols.Eq(n).Text()) }
			rows = append(rows, ExamResultRow{
				Subject:            cell(0),
				Midterm:            cell(1),
				QuizzesAssignments: cell(2),
				Project:            cell(3),
				Final:              cell(4),
				Total:              cell(5),
				Grade:              cell(6),
				Points:             cell(7),
			})
		} else if cols.Length() == 1 && strings.Contains(cols.Text(), "GPA:") {
			gpaLine = strings.TrimSpace(cols.Text())
		}
	})

	if len(rows) == 0 {
		slog.DebugContext(ctx, "exam result parsing finished with 0 rows")
	}
	return rows, gpaLine
}
