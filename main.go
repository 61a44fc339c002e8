package main

import "github.com/selenecli/selene/cmd"

func main() {
	cmd.Execute()
}
