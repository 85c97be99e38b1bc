package main

import "github.com/dnsrank/dnsrank/cmd"

func main() {
	cmd.Execute()
}
