// hub runs a sync hub: it stores messages, serves its Merkle trie over grpc and
// reconciles with the peers it is configured with.
package main

import (
	"os"

	"github.com/hubsync/go-hub/cmd"
	"github.com/hubsync/go-hub/node"
)

var (
	version string
	commit  string
	branch  string
)

func main() { // run the app
	cmd.Version = version
	cmd.Commit = commit
	cmd.Branch = branch
	if err := node.GetCommand().Execute(); err != nil {
		// Do not print error as cmd.SilenceErrors is false
		// and the error was already printed
		os.Exit(1)
	}
}
