package main

import "github.com/sahil-chaple/happy-street-godhani/cmd/happystreet/cmd"

func main() {
	cmd.Execute()
}
