package main

import "github.com/oshokin/terror-zones/cmd/zone-server/cmd"

func main() {
	cmd.Execute()
}
