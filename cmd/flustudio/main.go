package main

import "flustudio/internal/cli"

func main() {
	cli.Execute()
}
