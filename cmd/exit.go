package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// exitProcess terminates the whole process; replaced in tests
var exitProcess = os.Exit

var exitCmd = &cobra.Command{
	Use:   "exit",
	Short: "Terminate the process immediately with status 0",
	Long: `Terminate the process immediately with status 0.

Any tool started by this process is not waited for. The UI uses the same
operation through the bridge (POST /api/exit) and the session menu.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		RunExit(exitProcess)
	},
}

func init() {
	rootCmd.AddCommand(exitCmd)
}

// RunExit performs process-wide termination through exit
func RunExit(exit func(code int)) {
	logger.Info("exit requested")
	_ = logger.Sync()
	exit(0)
}
