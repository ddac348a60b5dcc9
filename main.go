package main

import "github.com/ImPhantom/chronicle/cmd"

func main() {
	cmd.Execute()
}
