package main

import "vinyl-scout/cmd"

func main() {
	cmd.Execute()
}
