package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hammal/tomo/imgio"
	"github.com/hammal/tomo/phantom"
)

var (
	phantomSize    int
	phantomClassic bool
	phantomOut     string
)

var phantomCmd = &cobra.Command{
	Use:   "phantom",
	Short: "Render the Shepp-Logan phantom to a PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		if phantomSize < 2 {
			return fmt.Errorf("size %d is too small", phantomSize)
		}
		img := phantom.Modified(phantomSize)
		if phantomClassic {
			img = phantom.SheppLogan(phantomSize)
		}
		if err := imgio.Save(phantomOut, img); err != nil {
			return err
		}
		logger.Info("phantom written",
			zap.Int("size", phantomSize),
			zap.Bool("classic", phantomClassic),
			zap.String("path", phantomOut))
		return nil
	},
}

func init() {
	phantomCmd.Flags().IntVar(&phantomSize, "size", 256, "Phantom side length in pixels")
	phantomCmd.Flags().BoolVar(&phantomClassic, "classic", false, "Use the classic low contrast intensities instead of the modified ones")
	phantomCmd.Flags().StringVar(&phantomOut, "out", "phantom.png", "Output PNG path")
	rootCmd.AddCommand(phantomCmd)
}
