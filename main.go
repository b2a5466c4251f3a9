package main

import "github.com/rhaas80/MCMC-BHPIRE/cmd"

func main() {
	cmd.Execute()
}
