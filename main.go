package main

import "github.com/llehouerou/wavecast/internal/cli"

func main() {
	cli.Execute()
}
