package main

import (
	"fmt"
	"os"

	"github.com/crucial707/idle-clicker/cmd/cli/account"
	"github.com/crucial707/idle-clicker/cmd/cli/root"
)

func main() {
	account.InitAccount(root.GetRoot())

	if err := root.GetRoot().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
