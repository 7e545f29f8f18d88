package main

import "github.com/llehouerou/mbtag/internal/cli"

func main() {
	cli.Execute()
}
