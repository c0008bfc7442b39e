package main

import "github.com/Tiliavir/jtrack/cmd"

func main() {
	cmd.Execute()
}
