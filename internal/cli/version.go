package cli

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/brickingsoft/fio/pkg/attr"
	"github.com/brickingsoft/fio/pkg/kernel"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X github.com/brickingsoft/fio/internal/cli.Version=...".
var Version = ""

func version() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "fiostat %s\n", version())
			_, _ = fmt.Fprintf(out, "go:      %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			_, _ = fmt.Fprintf(out, "kernel:  %s\n", kernel.Get())
			_, _ = fmt.Fprintf(out, "attr:    v%d\n", attr.Version)
			return nil
		},
	}
}
