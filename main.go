package main

import "github.com/naka-gawa/forge-stats/cmd"

func main() {
	cmd.Execute()
}
