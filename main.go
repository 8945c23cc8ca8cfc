package main

import "github.com/juststeveking/netwatch/cmd"

func main() {
	cmd.Execute()
}
