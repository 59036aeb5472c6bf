package main

import "kevscan/cmd"

func main() {
	cmd.Execute()
}
