package main

import "github.com/mvp-joe/componentize/internal/cli"

func main() {
	cli.Execute()
}
