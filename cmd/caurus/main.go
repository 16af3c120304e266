package main

import "github.com/caurus/cronto/internal/cli"

func main() {
	cli.Execute()
}
