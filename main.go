package main

import "bundle-configurator/cmd"

func main() {
	cmd.Execute()
}
