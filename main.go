package main

import "github.com/vissm/vissm/cmd"

func main() {
	cmd.Execute()
}
