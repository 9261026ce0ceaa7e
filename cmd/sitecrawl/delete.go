package main

import (
	"fmt"

	"github.com/fwojciec/sitecrawl"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return sitecrawl.Errorf(sitecrawl.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Sessions.DeleteSession(deps.Ctx, c.ID); err != nil {
		if sitecrawl.ErrorCode(err) == sitecrawl.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: session %q not found. Use 'sitecrawl sessions' to see saved sessions.\n", c.ID)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", sitecrawl.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted session %s\n", c.ID)
	return nil
}
