// Command coinwatch tracks cryptocurrency prices and manages personal
// watchlists from the terminal or a small web view.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	name := path.Base(os.Args[0])

	// Exits when invoked by the shell for completion.
	completion().Complete(name)

	commander := subcommands.NewCommander(flag.CommandLine, name)
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// register adds every command to c.
func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	c.Register(&versionCmd{}, "")

	c.Register(&serveCmd{}, "server")

	c.Register(&marketsCmd{}, "markets")
	c.Register(&coinCmd{}, "markets")

	c.Register(&listsCmd{}, "watchlists")
	c.Register(&showCmd{}, "watchlists")
	c.Register(&createCmd{}, "watchlists")
	c.Register(&deleteCmd{}, "watchlists")
	c.Register(newAddCmd(), "watchlists")
	c.Register(newRemoveCmd(), "watchlists")
	c.Register(newToggleCmd(), "watchlists")
}
