package main

import "github.com/frahmantamala/project-tracker/cmd"

func main() {
	cmd.Execute()
}
