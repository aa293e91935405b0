package main

import "fire-server/src/cmd"

func main() {
	cmd.Execute()
}
