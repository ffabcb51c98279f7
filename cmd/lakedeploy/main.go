package main

import "github.com/lakedeploy/lakedeploy/cmd/lakedeploy/cmd"

func main() {
	cmd.Execute()
}
