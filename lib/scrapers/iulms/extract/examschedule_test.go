package extract

import (
	"context"
	"testing"

	"iulms-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const examSchedulePage = `<html><body>
	<table>
		<tr><th colspan="4">15-Dec-2025 (Monday)</th></tr>
		<tbody>
			<tr>
				<td>Data Structures</td><td>CSC-201</td><td>09:00 - 11:00</td><td>Hall A</td>
			</tr>
			<tr>
				<td>Linear Algebra</td><td>MTH-102</td><td>14:00 - 16:00</td><td>Hall B</td>
			</tr>
		</tbody>
	</table>
	<table>
		<tr><th colspan="4">17-Dec-2025 (Wednesday)</th></tr>
		<tbody>
			<tr>
				<td>Operating Systems</td><td>CSC-301</td><td>09:00 - 11:00</td><td>Hall A</td>
			</tr>
		</tbody>
	</table>
	<table>
		<tr><th colspan="4">19-Dec-2025 (Friday)</th></tr>
		<tbody></tbody>
	</table>
</body></html>`

func TestExamSchedule(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/extract")
	defer cleanup()

	days := ExamSchedule(context.Background(), examSchedulePage)

	// the empty 19-Dec table is dropped
	require.Len(t, days, 2)
	require.Equal(t, "15-Dec-2025", days[0].Date)
	require.Equal(t, "17-Dec-2025", days[1].Date)

	require.Len(t, days[0].Exams, 2)
	require.Equal(t, ExamDetail{
		Subject:    "Data Structures",
		CourseCode: "CSC-201",
		Time:       "09:00 - 11:00",
		Room:       "Hall A",
	}, days[0].Exams[0])
}

func TestExamScheduleNotAvailable(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/extract")
	defer cleanup()

	// the marker wins even when stray tables are on the page
	page := `<html><body>
		<p>The exam schedule is Not Available At The Moment.</p>
		<table><tr><td>junk</td><td>junk</td><td>junk</td><td>junk</td></tr></table>
	</body></html>`
	require.Empty(t, ExamSchedule(context.Background(), page))
}

func TestExamScheduleEmptyPage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/extract")
	defer cleanup()

	require.Empty(t, ExamSchedule(context.Background(), "<html><body></body></html>"))
}
