package main

import "github.com/voyagerhq/voyager/cmd"

func main() {
	cmd.Execute()
}
