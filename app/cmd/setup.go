package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lloydmeta/timestamping/internal/infra/elasticsearch/common"
	"github.com/lloydmeta/timestamping/internal/infra/server"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Run timestamping setup",
	Long:  "Installs the Elasticsearch index template used by the record archive. Does nothing if no archive is configured.",
	Run: func(cmd *cobra.Command, args []string) {
		if appConfig.Archive == nil {
			log.Info().Msg("No archive configured, nothing to set up.")
			return
		}
		ctx := context.Background()

		esClient, err := common.NewClient(appConfig.Archive.Elasticsearch)
		if err != nil {
			log.Fatal().Err(err).Msg("Could not setup Elasticsearch client")
		}
		setup := server.NewSetup(esClient, server.ArchiveIndex(appConfig.Archive))
		if err := setup.RunIfNeeded(ctx); err != nil {
			log.Fatal().Err(err).Msg("Setup failed")
		}
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
