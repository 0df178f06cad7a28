package cmd

import (
	"github.com/google/subcommands"
)

// Commands lists every subcommand of the application. A main package
// registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&holdingCmd{},
	&logCmd{},
	&fmtCmd{},
	&topicCmd{},
}
