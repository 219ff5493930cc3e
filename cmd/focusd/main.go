package main

import "github.com/emiliopalmerini/focusd/internal/cli"

func main() {
	cli.Execute()
}
