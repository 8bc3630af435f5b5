package main

import "github.com/chrisdamba/trafficmcp/cmd"

func main() {
	cmd.Execute()
}
