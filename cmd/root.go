package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flagscope/flagscope/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `	  __ _
	 / _| | __ _  __ _ ___  ___ ___  _ __   ___
	| |_| |/ _' |/ _' / __|/ __/ _ \| '_ \ / _ \
	|  _| | (_| | (_| \__ \ (_| (_) | |_) |  __/
	|_| |_|\__,_|\__, |___/\___\___/| .__/ \___|
	             |___/              |_|

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "flagscope",
	Short: "Feature-flag inventory reporting for Harness FME accounts.",
	Long: LOGO + `flagscope walks every workspace of a Harness FME (Split.io) account and
produces a feature-flag inventory report: per-workspace flag listings plus
summary statistics by workspace, owner, rollout status and tag. It can also
snapshot the inventory into a local database and track changes between runs.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.flagscope.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP Proxy (Useful for debugging. Example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".flagscope")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.BindEnv("token", "HARNESS_API_TOKEN")
	viper.BindEnv("account", "HARNESS_ACCOUNT_ID")

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.flagscope.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("token", "")
	viper.SetDefault("account", "")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)
}
