package main

import "github.com/ByLCY/paralayout/cmd"

func main() {
	cmd.Execute()
}
