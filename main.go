package main

import "github.com/mariphil/foundation-site/internal/cli"

func main() {
	cli.Execute()
}
