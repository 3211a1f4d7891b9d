package main

import "github.com/vietddude/echoscribe/internal/cli"

func main() {
	cli.Execute()
}
