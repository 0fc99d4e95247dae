package main

import "github.com/frahmantamala/timekeeping/cmd"

func main() {
	cmd.Execute()
}
