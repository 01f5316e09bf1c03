// cmd/root.go
package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ColonelBlimp/gotuner/internal/cli/tune"
	"github.com/ColonelBlimp/gotuner/internal/config"
	"github.com/ColonelBlimp/gotuner/internal/logging"
	"github.com/ColonelBlimp/gotuner/internal/recovery"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "gotuner",
	Short: "Chromatic guitar tuner for audio input",
	Long: `A real-time chromatic tuner that listens to an audio input, finds the
dominant pitch and shows the nearest equal-tempered note with its offset in cents.`,
	RunE:          runTuner,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags (override config file)
	rootCmd.PersistentFlags().IntP("device", "d", -1, "audio device index (-1 for default)")
	rootCmd.PersistentFlags().StringP("backend", "b", "malgo", "audio backend: malgo, portaudio or tone")
	rootCmd.PersistentFlags().Float64P("tone", "t", 110, "test tone frequency in Hz (tone backend)")
	rootCmd.PersistentFlags().BoolP("debug", "D", false, "enable debug output")
	rootCmd.PersistentFlags().StringP("midi-port", "m", "", "serial port for MIDI output (disabled when empty)")
}

// flagKeys maps persistent flags to their config keys
var flagKeys = map[string]string{
	"device":    "device_index",
	"backend":   "backend",
	"tone":      "tone_frequency",
	"debug":     "debug",
	"midi-port": "midi_port",
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	if err := bindFlags(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
}

func bindFlags() error {
	for flag, key := range flagKeys {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			return fmt.Errorf("bind flag %s: %w", flag, err)
		}
	}
	return nil
}

func runTuner(cmd *cobra.Command, _ []string) error {
	settings, err := config.Get()
	if err != nil {
		return err
	}

	logger := logging.Init(cmd.ErrOrStderr(), settings.Debug)

	sess, err := tune.NewSession(*settings, cmd.OutOrStdout(), logger)
	if err != nil {
		return err
	}
	defer recovery.HandlePanicFunc(func() {
		_ = sess.Close()
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	return errors.Join(sess.Run(ctx), sess.Close())
}
