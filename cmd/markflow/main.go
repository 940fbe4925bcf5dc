package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd, cmdCtx := newRootCommand()
	err := cmd.Execute()
	if closeErr := cmdCtx.close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
