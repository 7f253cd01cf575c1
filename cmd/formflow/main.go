package main

import "github.com/goliatone/go-formflow/internal/cli"

func main() {
	cli.InitAndExecute()
}
