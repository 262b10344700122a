// This program administers the validators of a stake node.
package main

import "github.com/ardanlabs/stakechain/app/tooling/stakectl/cmd"

func main() {
	cmd.Execute()
}
