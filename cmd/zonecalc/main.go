package main

import "github.com/oshokin/terror-zones/cmd/zonecalc/cmd"

func main() {
	cmd.Execute()
}
