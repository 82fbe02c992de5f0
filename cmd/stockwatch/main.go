package main

import "stockwatch/cmd/stockwatch/cmd"

func main() {
	cmd.Execute()
}
