package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "workstreamctl",
	Short: "Workstream operations from the command line",
	Long: `workstreamctl works directly against the workstream database.

It uses the same DB_* and DIRECTORY_FILE settings as the API server. Flags can also be
given as WORKSTREAM_* environment variables, e.g. WORKSTREAM_JSON=true.`,
	SilenceUsage: true,
}

// appFs is the filesystem row files are read from.
var appFs = afero.NewOsFs()

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("WORKSTREAM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().String("actor", "workstreamctl", "name recorded as the assigner of imported tasks")
	rootCmd.PersistentFlags().String("db-driver", "", "database driver (mysql, postgres, sqlite); overrides DB_DRIVER")
	rootCmd.PersistentFlags().String("db-name", "", "database name or sqlite file; overrides DB_NAME")
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("actor", rootCmd.PersistentFlags().Lookup("actor"))
	_ = viper.BindPFlag("db-driver", rootCmd.PersistentFlags().Lookup("db-driver"))
	_ = viper.BindPFlag("db-name", rootCmd.PersistentFlags().Lookup("db-name"))
}

func registerCommands() {
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(leadsCmd())
	rootCmd.AddCommand(projectsCmd())
	rootCmd.AddCommand(offboardCmd())
	rootCmd.AddCommand(resetCmd())
}
