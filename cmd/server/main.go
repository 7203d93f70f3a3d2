package main // Entry point package

import "github.com/iliyamo/event-listing/cmd/server/cmd" // cobra command tree

func main() {
	cmd.Execute()
}
