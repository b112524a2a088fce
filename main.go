package main

import "github.com/xvierd/detox-cli/cmd"

func main() {
	cmd.Execute()
}
