package commands

import (
	"context"
	"fmt"
	"os"

	"iulms-backend/lib/configutil"
	"iulms-backend/lib/restyutil"
	"iulms-backend/lib/scrapers/iulms/core"
	"iulms-backend/lib/serviceutil"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "iulms-cli",
	Short: "iulms-cli logs into the IULMS student portal and extracts structured records from it.",
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type Config struct {
	BaseUrl  string `json:"base_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func createClient(ctx context.Context) (*core.Client, Config) {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}

	core.SetRestyInstrumentOutput(restyutil.NewFilesystemOutput(".dev/resty/iulms"))
	client, err := core.NewClient(core.ClientOptions{
		BaseUrl: cfg.BaseUrl,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize portal client", err)
	}

	err = client.Login(ctx, cfg.Username, cfg.Password)
	if err != nil {
		serviceutil.Fatal("failed to login to the portal", err)
	}
	return client, cfg
}
