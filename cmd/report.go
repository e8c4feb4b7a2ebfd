package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/flagscope/flagscope/internal/utils"
	"github.com/flagscope/flagscope/pkg/fme"
	"github.com/flagscope/flagscope/pkg/inventory"
	"github.com/flagscope/flagscope/pkg/whttp"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate the feature-flag inventory report",
	Long:  "Walks every workspace of the account and prints a summary report of all feature flags to stdout.",
	Run: func(cmd *cobra.Command, args []string) {
		client := newFMEClient(cmd)

		workspaces, agg, err := client.FetchInventory()
		if err != nil {
			utils.Log.Fatal(err)
		}

		report := inventory.Assemble(workspaces, agg, time.Now())
		inventory.Render(os.Stdout, report)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringP("token", "t", "", "FME API token (overrides config and HARNESS_API_TOKEN)")
	reportCmd.Flags().StringP("account", "a", "", "Harness account identifier (overrides config and HARNESS_ACCOUNT_ID)")
}

// newFMEClient builds the API client for a run. Missing credentials are a
// precondition failure: the run stops before any network access.
func newFMEClient(cmd *cobra.Command) *fme.Client {
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = viper.GetString("token")
	}
	account, _ := cmd.Flags().GetString("account")
	if account == "" {
		account = viper.GetString("account")
	}

	if token == "" {
		utils.Log.Fatal("API token is not set. Use --token, the token config key, or HARNESS_API_TOKEN")
	}
	if account == "" {
		utils.Log.Fatal("account identifier is not set. Use --account, the account config key, or HARNESS_ACCOUNT_ID")
	}

	proxy, _ := rootCmd.PersistentFlags().GetString("proxy")
	if proxy != "" {
		if err := whttp.SetupProxy(proxy); err != nil {
			utils.Log.Fatal(err)
		}
	}

	return fme.NewClient(fme.Config{Token: token, AccountID: account})
}
