package main

import "github.com/samsaffron/term-copilot/cmd"

func main() {
	cmd.Execute()
}
