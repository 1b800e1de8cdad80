package key

import (
	"fmt"
	"os"

	"github.com/Mmx233/Cubic/server/auth/challenge"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	outputFile string
	bits       int
	Cmd        = &cobra.Command{
		Use:   "key",
		Short: "Generate the RSA key used for the encryption handshake",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
)

func init() {
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "server.pem", "output key file")
	Cmd.Flags().IntVarP(&bits, "bits", "b", challenge.DefaultKeyBits, "RSA modulus size")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	logger := log.With().Str("com", "generate").Logger()

	logger.Info().Int("bits", bits).Msg("generating RSA key")
	if err := WriteKey(outputFile, bits); err != nil {
		return err
	}
	logger.Info().Str("file", outputFile).Msg("generated")
	return nil
}

// WriteKey generates a key pair and stores it PEM encoded at path. Existing
// files are never overwritten.
func WriteKey(path string, bits int) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file already exists: %s", path)
	}
	kp, err := challenge.GenerateKeypair(bits)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}
	if err := os.WriteFile(path, kp.MarshalPEM(), 0600); err != nil {
		return fmt.Errorf("write key: %w", err)
	}
	return nil
}
