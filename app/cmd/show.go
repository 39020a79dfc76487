package cmd

import (
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lloydmeta/timestamping/internal/config"
	"github.com/lloydmeta/timestamping/internal/domain/crypto"
)

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.AddCommand(showConfigCmd)
	showCmd.AddCommand(showValidatorCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show information",
	Long:  `Sometimes you just need to know more`,
}

var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config",
	Long:  `Renders the config that we end up using, with the validator seed redacted`,
	Run: func(cmd *cobra.Command, args []string) {
		out, err := json.MarshalIndent(redacted(appConfig), "", "  ")
		if err != nil {
			log.Fatal().Err(err).Msg("Error marshalling config to JSON")
		} else {
			log.Info().Msg(string(out))
		}
	},
}

var showValidatorCmd = &cobra.Command{
	Use:   "validator",
	Short: "Show this node's validator public key",
	Long:  `Derives the public key of the configured validator seed, for other nodes' time_oracle.validators`,
	Run: func(cmd *cobra.Command, args []string) {
		if appConfig.TimeOracle.ValidatorSeed == nil {
			log.Fatal().Msg("No validator seed configured")
		}
		pk, _, err := crypto.SecretKeyFromHex(*appConfig.TimeOracle.ValidatorSeed)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid validator seed")
		}
		log.Info().Str("validator", pk.String()).Msg("Validator public key")
	},
}

func redacted(app config.App) config.App {
	if app.TimeOracle.ValidatorSeed != nil {
		hidden := "<redacted>"
		app.TimeOracle.ValidatorSeed = &hidden
	}
	return app
}
