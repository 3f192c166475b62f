package extract

import (
	"context"
	"testing"

	"iulms-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

const attendancePage = `<html><body>
	<table class="attendance-table">
		<tr><th>Course</th><th>Total</th><th>Attended</th><th>Details</th></tr>
		<tr class="attendanceRow">
			<td>Data Structures</td><td>20</td><td>18</td><td><a>view</a></td>
		</tr>
		<tr class="attendanceRow">
			<td>Linear Algebra</td><td>0</td><td>0</td><td><a>view</a></td>
		</tr>
	</table>
	<div class="modal">
		<table class="attendance-table">
			<tr class="attendanceRow"><td>1.</td><td>P</td><td>P</td></tr>
			<tr class="attendanceRow"><td>2.</td><td>A</td><td>-</td></tr>
		</table>
	</div>
	<div class="modal">
		<table class="attendance-table"></table>
	</div>
</body></html>`

func TestAttendance(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/extract")
	defer cleanup()

	courses := Attendance(context.Background(), attendancePage)
	require.Len(t, courses, 2)

	ds := courses[0]
	require.Equal(t, "Data Structures", ds.CourseName)
	require.Equal(t, 20, ds.TotalClasses)
	require.Equal(t, 18, ds.AttendedClasses)
	require.InDelta(t, 90.0, ds.Percentage, 0.001)

	require.Len(t, ds.Sessions, 2)
	require.Equal(t, "1", ds.Sessions[0].LectureNumber)
	require.Equal(t, "P", ds.Sessions[0].Status1)
	require.Equal(t, "A", ds.Sessions[1].Status1)
	require.Equal(t, "-", ds.Sessions[1].Status2)
}

func TestAttendanceZeroTotalClasses(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/extract")
	defer cleanup()

	courses := Attendance(context.Background(), attendancePage)
	require.Len(t, courses, 2)

	// never divides by zero
	require.Equal(t, 0, courses[1].TotalClasses)
	require.Equal(t, 0.0, courses[1].Percentage)
	require.Empty(t, courses[1].Sessions)
}

func TestAttendanceMoreRowsThanModals(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/extract")
	defer cleanup()

	page := `<html><body>
		<table class="attendance-table">
			<tr class="attendanceRow"><td>Solo Course</td><td>10</td><td>5</td><td></td></tr>
		</table>
	</body></html>`

	courses := Attendance(context.Background(), page)
	require.Len(t, courses, 1)
	require.InDelta(t, 50.0, courses[0].Percentage, 0.001)
	require.Empty(t, courses[0].Sessions)
}

func TestAttendanceEmptyOnMissingTable(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:scrapers/iulms/extract")
	defer cleanup()

	require.Empty(t, Attendance(context.Background(), "<html><body></body></html>"))
}
