package main

import "github.com/crewdeck/crewclock/cmd"

func main() {
	cmd.Execute()
}
