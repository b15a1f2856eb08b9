package main

import "github.com/geoplot/tileframe/cmd"

func main() {
	cmd.Execute()
}
