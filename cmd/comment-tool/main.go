package main

import "comment-tool/internal/cli"

func main() {
	cli.Execute()
}
