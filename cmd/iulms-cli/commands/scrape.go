package commands

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"sort"
	"time"

	"iulms-backend/lib/scrapers/iulms/extract"
	"iulms-backend/lib/scrapers/iulms/fetch"
	"iulms-backend/lib/serviceutil"
	"iulms-backend/lib/snapshotstore"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var scrapeDb *string

func init() {
	scrapeDb = scrapeCmd.Flags().String("db", "snapshots.db", "The database to write scraped payloads to.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--db <path/to/snapshots.db>]",
	Short: "Pulls every portal endpoint, stores the raw payloads and prints an extraction summary.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client, cfg := createClient(ctx)

		slog.Info("scraping using user", "username", cfg.Username)

		t1 := time.Now()
		docs := fetch.All(ctx, client, fetch.DefaultEndpoints)
		t2 := time.Now()
		slog.Info("fetching time", "seconds", t2.Sub(t1).Seconds())

		out, err := sql.Open("sqlite", *scrapeDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer out.Close()
		_, err = out.Exec(snapshotstore.Schema)
		if err != nil {
			serviceutil.Fatal("failed to apply db schema", err)
		}
		store := snapshotstore.NewStore(out)

		now := time.Now()
		var snapshots []snapshotstore.Snapshot
		for _, doc := range docs {
			if !doc.Ok() {
				continue
			}
			snapshots = append(snapshots, snapshotstore.Snapshot{
				Endpoint: doc.Endpoint,
				Time:     now,
				Payload:  doc.Body,
			})
		}
		err = store.Push(ctx, cfg.Username, snapshots)
		if err != nil {
			serviceutil.Fatal("failed to store snapshots", err)
		}

		renderSummary(ctx, docs)
	},
}

func renderSummary(ctx context.Context, docs map[string]fetch.Document) {
	endpoints := make([]string, 0, len(docs))
	for name := range docs {
		endpoints = append(endpoints, name)
	}
	sort.Strings(endpoints)

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Endpoint", "Status", "Extracted"})
	for _, name := range endpoints {
		doc := docs[name]
		if !doc.Ok() {
			t.AppendRow(table.Row{name, doc.Err.Error(), ""})
			continue
		}
		t.AppendRow(table.Row{name, "ok", extractedSummary(ctx, doc)})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func extractedSummary(ctx context.Context, doc fetch.Document) string {
	switch doc.Endpoint {
	case fetch.EndpointSchedule:
		return plural(len(extract.Schedule(ctx, doc.Body)), "day", "days")
	case fetch.EndpointAttendance:
		return plural(len(extract.Attendance(ctx, doc.Body)), "course", "courses")
	case fetch.EndpointTranscript:
		return plural(len(extract.Transcript(ctx, doc.Body)), "semester", "semesters")
	case fetch.EndpointExamResult:
		rows, _ := extract.ExamResults(ctx, doc.Body)
		return plural(len(rows), "row", "rows")
	case fetch.EndpointVouchers:
		return plural(len(extract.Vouchers(ctx, doc.Body)), "voucher", "vouchers")
	case fetch.EndpointExamSchedule:
		return plural(len(extract.ExamSchedule(ctx, doc.Body)), "day", "days")
	}
	return ""
}
