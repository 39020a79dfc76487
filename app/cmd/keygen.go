package cmd

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
)

type generatedKey struct {
	PublicKey string `json:"public_key"`
	Seed      string `json:"seed"`
}

var keygenCmd = &cobra.Command{
	Use:              "keygen",
	Short:            "Generate an Ed25519 key pair",
	Long:             "Prints a fresh key pair. The seed signs transactions and time updates; the public key goes into time_oracle.validators.",
	PersistentPreRun: noConfig,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runKeygen(os.Stdout); err != nil {
			log.Fatal().Err(err).Msg("Failed to generate a key pair")
		}
	},
}

func runKeygen(out io.Writer) error {
	pk, sk, err := crypto.GenerateKeyPair()
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(generatedKey{
		PublicKey: pk.String(),
		Seed:      hex.EncodeToString(sk.Seed()),
	})
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}
