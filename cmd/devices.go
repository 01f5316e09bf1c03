// cmd/devices.go
package cmd

import (
	"fmt"

	"github.com/ColonelBlimp/gotuner/internal/cli/tune"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List audio capture devices",
	Long:  `Lists the capture devices of the selected backend. Use the index with --device.`,
	Args:  cobra.NoArgs,
	RunE:  runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
}

func runDevices(cmd *cobra.Command, _ []string) error {
	backend := viper.GetString("backend")

	devices, err := tune.ListAudioDevices(backend)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Capture devices (%s):\n", backend)
	if len(devices) == 0 {
		fmt.Fprintln(out, "  none found")
		return nil
	}
	for _, d := range devices {
		marker := ""
		if d.Default {
			marker = " (default)"
		}
		fmt.Fprintf(out, "  [%d] %s%s\n", d.Index, d.Name, marker)
	}
	return nil
}
