package main

import "github.com/boostly-network/boostly/internal/cli"

func main() {
	cli.Execute()
}
