package cmd

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

var stake uint64

var registerCmd = &cobra.Command{
	Use:   "register [address]",
	Short: "Register a validator with stake",
	Args:  cobra.MaximumNArgs(1),
	Run:   registerRun,
}

var stakeCmd = &cobra.Command{
	Use:   "stake [address]",
	Short: "Replace the stake of a validator",
	Args:  cobra.MaximumNArgs(1),
	Run:   stakeRun,
}

var removeCmd = &cobra.Command{
	Use:   "remove [address]",
	Short: "Remove a validator",
	Args:  cobra.MaximumNArgs(1),
	Run:   removeRun,
}

var penalizeCmd = &cobra.Command{
	Use:   "penalize [address]",
	Short: "Slash and deactivate a validator",
	Args:  cobra.MaximumNArgs(1),
	Run:   penalizeRun,
}

var reactivateCmd = &cobra.Command{
	Use:   "reactivate [address]",
	Short: "Reactivate a penalized validator",
	Args:  cobra.MaximumNArgs(1),
	Run:   reactivateRun,
}

func init() {
	rootCmd.AddCommand(registerCmd, stakeCmd, removeCmd, penalizeCmd, reactivateCmd)
	registerCmd.Flags().Uint64VarP(&stake, "stake", "s", 0, "Stake to register with.")
	stakeCmd.Flags().Uint64VarP(&stake, "stake", "s", 0, "New stake for the validator.")
}

func registerRun(cmd *cobra.Command, args []string) {
	address, err := resolveAddress(args)
	if err != nil {
		log.Fatal(err)
	}

	req := struct {
		Address string `json:"address"`
		Stake   uint64 `json:"stake"`
	}{
		Address: address,
		Stake:   stake,
	}

	var resp map[string]any
	if err := call(http.MethodPost, adminURL, "/v1/validators/add", req, &resp); err != nil {
		log.Fatal(err)
	}

	if err := printJSON(resp); err != nil {
		log.Fatal(err)
	}
}

func stakeRun(cmd *cobra.Command, args []string) {
	address, err := resolveAddress(args)
	if err != nil {
		log.Fatal(err)
	}

	req := struct {
		Stake uint64 `json:"stake"`
	}{
		Stake: stake,
	}

	var resp map[string]any
	if err := call(http.MethodPut, adminURL, "/v1/validators/stake/"+address, req, &resp); err != nil {
		log.Fatal(err)
	}

	if err := printJSON(resp); err != nil {
		log.Fatal(err)
	}
}

func removeRun(cmd *cobra.Command, args []string) {
	address, err := resolveAddress(args)
	if err != nil {
		log.Fatal(err)
	}

	if err := call(http.MethodDelete, adminURL, "/v1/validators/remove/"+address, nil, nil); err != nil {
		log.Fatal(err)
	}
}

func penalizeRun(cmd *cobra.Command, args []string) {
	address, err := resolveAddress(args)
	if err != nil {
		log.Fatal(err)
	}

	var resp map[string]any
	if err := call(http.MethodPost, adminURL, "/v1/validators/penalize/"+address, nil, &resp); err != nil {
		log.Fatal(err)
	}

	if err := printJSON(resp); err != nil {
		log.Fatal(err)
	}
}

func reactivateRun(cmd *cobra.Command, args []string) {
	address, err := resolveAddress(args)
	if err != nil {
		log.Fatal(err)
	}

	var resp map[string]any
	if err := call(http.MethodPost, adminURL, "/v1/validators/reactivate/"+address, nil, &resp); err != nil {
		log.Fatal(err)
	}

	if err := printJSON(resp); err != nil {
		log.Fatal(err)
	}
}
