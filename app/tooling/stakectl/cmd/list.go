package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/spf13/cobra"
)

type validator struct {
	Address            string `json:"address"`
	Name               string `json:"name"`
	Stake              uint64 `json:"stake"`
	Active             bool   `json:"active"`
	LastProposedHeight uint64 `json:"last_proposed_height"`
	Eligible           bool   `json:"eligible"`
}

type validators struct {
	LatestBlock string      `json:"latest_block"`
	TotalStake  uint64      `json:"total_stake"`
	Validators  []validator `json:"validators"`
}

type block struct {
	Number       uint64 `json:"number"`
	Hash         string `json:"hash"`
	TimeStamp    uint64 `json:"timestamp"`
	Data         string `json:"data"`
	Proposer     string `json:"proposer"`
	ProposerName string `json:"proposer_name"`
	Finalized    bool   `json:"finalized"`
}

var proposer string

var validatorsCmd = &cobra.Command{
	Use:   "validators",
	Short: "Print the validator registry",
	Run:   validatorsRun,
}

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Print the blocks of the chain",
	Run:   blocksRun,
}

var submitCmd = &cobra.Command{
	Use:   "submit <data>",
	Short: "Submit data to be recorded in a new block",
	Args:  cobra.ExactArgs(1),
	Run:   submitRun,
}

func init() {
	rootCmd.AddCommand(validatorsCmd, blocksCmd, submitCmd)
	blocksCmd.Flags().StringVarP(&proposer, "proposer", "r", "", "Only blocks proposed by this address.")
}

func validatorsRun(cmd *cobra.Command, args []string) {
	var vals validators
	if err := call(http.MethodGet, url, "/v1/validators/list", nil, &vals); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Latest Block: %s\n", vals.LatestBlock)
	fmt.Printf("Total Stake : %d\n\n", vals.TotalStake)
	for _, v := range vals.Validators {
		fmt.Printf("%s %-10s stake[%d] active[%t] last[%d] eligible[%t]\n", v.Address, v.Name, v.Stake, v.Active, v.LastProposedHeight, v.Eligible)
	}
}

func blocksRun(cmd *cobra.Command, args []string) {
	path := "/v1/blocks/list"
	if proposer != "" {
		path += "/" + proposer
	}

	var blocks []block
	if err := call(http.MethodGet, url, path, nil, &blocks); err != nil {
		log.Fatal(err)
	}

	for _, b := range blocks {
		fmt.Printf("%d %s proposer[%s %s] finalized[%t] data[%s]\n", b.Number, b.Hash, b.Proposer, b.ProposerName, b.Finalized, b.Data)
	}
}

func submitRun(cmd *cobra.Command, args []string) {
	req := struct {
		Data string `json:"data"`
	}{
		Data: args[0],
	}

	var b block
	if err := call(http.MethodPost, url, "/v1/tx/submit", req, &b); err != nil {
		log.Fatal(err)
	}

	if err := printJSON(b); err != nil {
		log.Fatal(err)
	}
}
