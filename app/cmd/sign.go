package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lloydmeta/timestamping/internal/domain/crypto"
	"github.com/lloydmeta/timestamping/internal/domain/timestamp"
)

var (
	signSeed     string
	signFileHash string
	signNode     string
)

var signCmd = &cobra.Command{
	Use:   "sign [file]",
	Short: "Build a signed CreateTimestamp transaction",
	Long: `Hashes the given file (or takes --file-hash) and prints a CreateTimestamp transaction
signed with --seed, ready to POST to /v1/timestamp. With --node, posts it too.`,
	Args:             cobra.MaximumNArgs(1),
	PersistentPreRun: noConfig,
	Run: func(cmd *cobra.Command, args []string) {
		var filePath string
		if len(args) == 1 {
			filePath = args[0]
		}
		payload, err := signCreateTimestamp(signSeed, filePath, signFileHash)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build transaction")
		}
		if signNode == "" {
			fmt.Println(string(payload))
			return
		}
		if err := submit(os.Stdout, signNode, payload); err != nil {
			log.Fatal().Err(err).Msg("Failed to submit transaction")
		}
	},
}

// signCreateTimestamp returns the JSON of a signed CreateTimestamp for either the file at
// filePath or the hex fileHashHex
func signCreateTimestamp(seedHex string, filePath string, fileHashHex string) ([]byte, error) {
	if seedHex == "" {
		return nil, errors.New("a signing seed is required")
	}
	_, sk, err := crypto.SecretKeyFromHex(seedHex)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	var fileHash crypto.Hash
	switch {
	case filePath != "" && fileHashHex != "":
		return nil, errors.New("pass either a file or --file-hash, not both")
	case filePath != "":
		content, err := ioutil.ReadFile(filePath)
		if err != nil {
			return nil, err
		}
		fileHash = crypto.HashOf(content)
	case fileHashHex != "":
		if fileHash, err = crypto.HashFromHex(fileHashHex); err != nil {
			return nil, fmt.Errorf("invalid file hash: %w", err)
		}
	default:
		return nil, errors.New("nothing to sign: pass a file or --file-hash")
	}

	m, err := timestamp.NewSignedCreateTimestamp(fileHash, sk)
	if err != nil {
		return nil, err
	}
	return json.Marshal(m)
}

func submit(out io.Writer, node string, payload []byte) error {
	url := strings.TrimSuffix(node, "/") + "/v1/timestamp"
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("node answered [%d]: %s", resp.StatusCode, body)
	}
	_, err = fmt.Fprintln(out, string(body))
	return err
}

func init() {
	signCmd.Flags().StringVar(&signSeed, "seed", "", "hex encoded Ed25519 seed to sign with")
	signCmd.Flags().StringVar(&signFileHash, "file-hash", "", "hex encoded SHA-256 of the content, instead of a file")
	signCmd.Flags().StringVar(&signNode, "node", "", "base URL of a node to submit to, e.g. http://localhost:8080")
	rootCmd.AddCommand(signCmd)
}
