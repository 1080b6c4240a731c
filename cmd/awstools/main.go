package main

import "github.com/mfilipelino/aws-tools/internal/cli"

func main() {
	cli.Execute()
}
