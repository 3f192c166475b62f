package extract

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"iulms-backend/lib/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/codes"
)

var weekdayRank = map[string]int{
	"MON": 1, "TUE": 2, "WED": 3, "THU": 4, "FRI": 5, "SAT": 6, "SUN": 7,
}

// unrecognized day labels sort after Sunday, stable by first appearance
func dayRank(day string) int {
	if rank, ok := weekdayRank[strings.ToUpper(day)]; ok {
		return rank
	}
	return 8
}

// Schedule parses the weekly timetable. Classes are grouped by day
// label and the groups ordered Mon through Sun.
func Schedule(ctx context.Context, html string) []ScheduleDay {
	ctx, span := tracer.Start(ctx, "Schedule")
	defer span.End()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		span.SetStatus(codes.Error, "failed to parse html")
		slog.WarnContext(ctx, "failed to parse schedule html", "err", err)
		return nil
	}

	type taggedClass struct {
		day   string
		class ClassDetail
	}
	var all []taggedClass

	doc.Find("center > table > tbody > tr > td > table > tbody > tr").Each(func(_ int, row *goquery.Selection) {
		dayCell := row.Find("td.dateStyle").First()
		detailsCell := row.Find("td.detailsStyle").First()
		if dayCell.Length() == 0 || detailsCell.Length() == 0 {
			return
		}

		day := strings.TrimSpace(dayCell.Find("span.dayStyle").Text())
		timeslot := strings.TrimSpace(dayCell.Find("td[style='text-align:center']").Last().Text())

		title := htmlutil.AfterColon(detailsCell.Find("tr:contains('Course Title')").Text())
		faculty := htmlutil.AfterColon(detailsCell.Find("tr:contains('Faculty')").Text())
		location := htmlutil.AfterColon(detailsCell.Find("tr:contains('Location')").Text())
		edpCode, courseCode := parseCodes(detailsCell.Find("tr:contains('EDP Code')"))

		if day == "" || title == "" {
			return
		}
		all = append(all, taggedClass{day, ClassDetail{
			Subject:    title,
			Teacher:    faculty,
			Room:       location,
			Time:       timeslot,
			CourseCode: courseCode,
			EdpCode:    edpCode,
		}})
	})

	if len(all) == 0 {
		slog.DebugContext(ctx, "schedule parsing finished with 0 classes")
		return nil
	}

	groupIndex := map[string]int{}
	var out []ScheduleDay
	for _, entry := range all {
		i, ok := groupIndex[entry.day]
		if !ok {
			i = len(out)
			groupIndex[entry.day] = i
			out = append(out, ScheduleDay{Day: entry.day})
		}
		out[i].Classes = append(out[i].Classes, entry.class)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return dayRank(out[i].Day) < dayRank(out[j].Day)
	})
	return out
}

// parseCodes splits the combined code blob, e.g.
// "EDP Code : 12345 Course Code : CSC-201", into its two halves.
func parseCodes(sel *goquery.Selection) (edpCode, courseCode string) {
	var blob strings.Builder
	for _, node := range sel.Nodes {
		blob.WriteString(htmlutil.GetText(node))
	}

	parts := strings.Split(blob.String(), "Course Code :")
	clean := func(s string) string {
		return strings.TrimSpace(strings.ReplaceAll(s, "EDP Code :", ""))
	}
	if len(parts) > 0 {
		edpCode = clean(parts[0])
	}
	if len(parts) > 1 {
		courseCode = clean(parts[1])
	}
	return edpCode, courseCode
}
