package main

import "github.com/mberahman/pos-analytics/cmd"

func main() {
	cmd.Execute()
}
