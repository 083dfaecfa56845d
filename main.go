package main

import "locale-qa/internal/cli"

func main() {
	cli.Execute()
}
