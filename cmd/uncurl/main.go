// Command uncurl lays byte sequences out along space-filling curves and
// resolves grid cells back to sequence positions.
//
// Usage:
//
//	uncurl map image.rgb -o grid.png
//	uncurl lookup image.rgb --at 3,5
//	uncurl trace --curve hilbert-grammar --length 64
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/roach88/uncurl/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := cli.NewRootCommand().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	stop()
	os.Exit(cli.GetExitCode(err))
}
