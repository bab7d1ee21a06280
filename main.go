package main

import "github.com/r3e-network/neo-price-feed/cmd"

func main() {
	cmd.Execute()
}
