package main

import (
	cmd "github.com/rohmanhakim/site-crawler/internal/cli"
)

func main() {
	cmd.Execute()
}
