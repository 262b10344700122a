// Package cmd contains the stakectl commands.
package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/stakechain/foundation/nameservice"
	"github.com/spf13/cobra"
)

var (
	url      string
	adminURL string
	keyName  string
	keyPath  string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node public host.")
	rootCmd.PersistentFlags().StringVarP(&adminURL, "admin-url", "m", "http://localhost:9080", "Url of the node private host.")
	rootCmd.PersistentFlags().StringVarP(&keyName, "key", "k", "private.ecdsa", "Name of the validator key file.")
	rootCmd.PersistentFlags().StringVarP(&keyPath, "key-path", "p", "zblock/accounts/", "Path to the directory with validator keys.")
}

var rootCmd = &cobra.Command{
	Use:   "stakectl",
	Short: "Administer validators and blocks of a stake node",
}

// Execute runs the command line.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	if !strings.HasSuffix(keyName, nameservice.KeyExtension) {
		keyName += nameservice.KeyExtension
	}

	return filepath.Join(keyPath, keyName)
}
