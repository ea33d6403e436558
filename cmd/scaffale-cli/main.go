package main

import "scaffale/cmd/scaffale-cli/cmd"

func main() {
	cmd.Execute()
}
