package main

import "github.com/ethanolivertroy/tamper-check/cmd"

func main() {
	cmd.Execute()
}
