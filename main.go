package main

import "github.com/inovacc/relic/cmd"

func main() {
	cmd.Execute()
}
