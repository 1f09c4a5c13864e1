package main

import "github.com/Elie-50/allo-gaz-lebanon/cmd"

func main() {
	cmd.Execute()
}
