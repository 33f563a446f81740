package main

import "termapp/cmd"

func main() {
	cmd.Execute()
}
