package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// TestdataResult summarizes a generated test image.
type TestdataResult struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Bytes  int    `json:"bytes"`
	Pixels int    `json:"pixels"`
}

// Text renders the summary for text output.
func (r TestdataResult) Text() string {
	return fmt.Sprintf("Wrote %d RGB pixels (%d bytes) to %s\n", r.Pixels, r.Pixels*3, r.Output)
}

// NewTestdataCommand creates the testdata command.
func NewTestdataCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "testdata <input> <output>",
		Short: "Turn any file into an RGB stream for the map command",
		Long: `Convert every byte b of an input into one RGB pixel
(b, (b & 0x0f) << 4, b > 0 ? 255 : 0), so structure in arbitrary data is
visible once mapped. Use "-" for stdin or stdout.

Example:
  uncurl testdata /bin/ls ls.rgb && uncurl map ls.rgb -o ls.png`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTestdata(rootOpts, args[0], args[1], cmd)
		},
	}

	return cmd
}

func runTestdata(opts *RootOptions, input, output string, cmd *cobra.Command) error {
	data, err := readInput(cmd, input)
	if err != nil {
		return err
	}

	rgb := ToRGB(data)
	if output == "-" {
		if _, err := cmd.OutOrStdout().Write(rgb); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		return nil
	}
	if err := os.WriteFile(output, rgb, 0o644); err != nil {
		return WrapExitError(ExitCommandError, "failed to write output", err)
	}
	opts.logger().Debug("test data written", "output", output, "pixels", len(data))

	return opts.formatter(cmd).Success(TestdataResult{
		Input:  input,
		Output: output,
		Bytes:  len(data),
		Pixels: len(data),
	})
}

// ToRGB expands each byte into an RGB triplet.
func ToRGB(data []byte) []byte {
	out := make([]byte, 0, len(data)*3)
	for _, b := range data {
		blue := byte(0)
		if b > 0 {
			blue = 0xff
		}
		out = append(out, b, (b&0x0f)<<4, blue)
	}
	return out
}
