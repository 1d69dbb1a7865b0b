package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mabhi256/hprofdump/internal/consumers/live"
	"github.com/mabhi256/hprofdump/utils"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:               "watch [hprof-file]",
	Short:             "Watch an HPROF decode in a live dashboard",
	Long:              `Watch decodes an HPROF file while a bubbletea dashboard shows running record counts by kind.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: utils.CompleteFilesByExtension([]string{".hprof"}, true),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		if _, err := os.Stat(filename); os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", filename)
		}
		if ext := filepath.Ext(filename); ext != ".hprof" {
			fmt.Printf("Warning: File extension '%s' is not '.hprof', but proceeding anyway...\n", ext)
		}

		return live.Run(context.Background(), filename)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
