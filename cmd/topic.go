package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/pnl/docs"
	"github.com/google/subcommands"
)

// topicCmd prints pages of the embedded manual.
type topicCmd struct {
	list bool
}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the folio manual" }
func (*topicCmd) Usage() string {
	return `folio topic [-list] [<topic>...]

  Prints the manual pages of the given topics, "*" for every page. Without
  topic, prints the introduction, which links to the other pages.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.list, "list", false, "Print the topic names only.")
}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.list {
		names, err := docs.List()
		if err != nil {
			return failure("Error listing topics", err)
		}
		fmt.Println(strings.Join(names, "\n"))
		return subcommands.ExitSuccess
	}

	names := f.Args()
	if len(names) == 0 {
		names = []string{"readme"}
	}
	manual, err := docs.Topics(names...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nRun 'folio topic -list' for the available topics.\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(manual)
	return subcommands.ExitSuccess
}
