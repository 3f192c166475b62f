package commands

import (
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(cookiesCmd)
}

var cookiesCmd = &cobra.Command{
	Use:   "cookies",
	Short: "Logs in and prints the session cookies the portal handed back.",
	Run: func(cmd *cobra.Command, args []string) {
		client, _ := createClient(cmd.Context())

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Name", "Value", "Domain", "Path", "Expires"})
		for _, c := range client.Cookies() {
			expires := "session"
			if !c.Expires.IsZero() {
				expires = c.Expires.Format(time.ANSIC)
			}
			t.AppendRow(table.Row{c.Name, c.Value, c.Domain, c.Path, expires})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
