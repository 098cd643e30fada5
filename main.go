package main

import "clipdesk/cmd"

func main() {
	cmd.Execute()
}
