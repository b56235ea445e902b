package main

import (
	"fmt"
	"os"

	"github.com/deppfellow/linkcondo/internal/crypto"
	"github.com/deppfellow/linkcondo/internal/lib/email"
	"github.com/spf13/cobra"
)

// encryptionKeyEnv is read directly so the tool works without the rest
// of the server configuration.
const encryptionKeyEnv = "LINKCONDO_CRYPTO.ENCRYPTION_KEY"

var encryptKey string

var encryptTokenCmd = &cobra.Command{
	Use:   "encrypt-token <value...>",
	Short: "Encrypt Superlógica tokens for manual database inserts",
	Long: `Encrypt each argument with the credential key and print it in the
iv:tag:ciphertext format stored in the administradoras table.

The key is taken from --key or from ` + encryptionKeyEnv + `.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEncryptToken,
}

var emailPreviewCmd = &cobra.Command{
	Use:   "email-preview [template]",
	Short: "Render an email template with sample data to stdout",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runEmailPreview,
}

func init() {
	encryptTokenCmd.Flags().StringVar(&encryptKey, "key", "", "64 hex character encryption key")
}

func runEncryptToken(cmd *cobra.Command, args []string) error {
	key := encryptKey
	if key == "" {
		key = os.Getenv(encryptionKeyEnv)
	}

	cipher, err := crypto.NewAesGcmService(key)
	if err != nil {
		return err
	}

	for _, value := range args {
		sealed, err := cipher.Encrypt(value)
		if err != nil {
			return fmt.Errorf("failed to encrypt token: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), sealed)
	}
	return nil
}

func runEmailPreview(cmd *cobra.Command, args []string) error {
	name := email.TemplateMagicLink
	if len(args) == 1 {
		name = email.Template(args[0])
	}

	data, ok := email.PreviewData[name]
	if !ok {
		return fmt.Errorf("unknown email template %q", name)
	}

	html, err := email.Render(name, data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
	return err
}
