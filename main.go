package main

import "github.com/ocxtools/opencode-recall/cmd"

func main() {
	cmd.Execute()
}
