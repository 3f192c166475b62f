package commands

import (
	"fmt"
	"log/slog"
	"os"

	"iulms-backend/lib/scrapers/iulms/extract"
	"iulms-backend/lib/scrapers/iulms/fetch"
	"iulms-backend/lib/serviceutil"
	"iulms-backend/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var attendanceCourse *string

func init() {
	attendanceCourse = attendanceCmd.Flags().String("course", "", "Show the per-lecture breakdown of the course best matching this name.")
	rootCmd.AddCommand(attendanceCmd)
}

var attendanceCmd = &cobra.Command{
	Use:   "attendance [--course <name>]",
	Short: "Prints the attendance summary, or one course's lecture breakdown.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, _ := createClient(ctx)

		doc := fetch.One(ctx, client, fetch.EndpointAttendance, fetch.DefaultEndpoints[fetch.EndpointAttendance])
		if !doc.Ok() {
			serviceutil.Fatal("failed to fetch attendance", doc.Err)
		}
		courses := extract.Attendance(ctx, doc.Body)
		if len(courses) == 0 {
			slog.Warn("no attendance records came back")
			return
		}

		if *attendanceCourse == "" {
			renderAttendanceSummary(courses)
			return
		}

		names := make([]string, len(courses))
		for i, c := range courses {
			names[i] = c.CourseName
		}
		index, similarity := textutil.BestMatch(*attendanceCourse, names)
		if index < 0 {
			serviceutil.Fatal("no course matched", fmt.Errorf("query %q", *attendanceCourse))
		}
		slog.Info("matched course", "course", names[index], "similarity", similarity)
		renderAttendanceDetail(courses[index])
	},
}

func renderAttendanceSummary(courses []extract.AttendanceCourse) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Course", "Total", "Attended", "%"})
	for _, c := range courses {
		t.AppendRow(table.Row{
			c.CourseName,
			c.TotalClasses,
			c.AttendedClasses,
			fmt.Sprintf("%.1f", c.Percentage),
		})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func renderAttendanceDetail(course extract.AttendanceCourse) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Lecture", "Status 1", "Status 2"})
	for _, s := range course.Sessions {
		t.AppendRow(table.Row{s.LectureNumber, s.Status1, s.Status2})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}
