package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"version-check"},
	Short:   "Check that ffmpeg and ffprobe can be started",
	Long: `Run "<tool> -version" for the configured ffmpeg and ffprobe and report
which ones are usable.

Example:
  clipdesk doctor
  CLIPDESK_FFMPEG=/opt/ffmpeg/bin/ffmpeg clipdesk doctor`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// ToolCheck is one named availability check
type ToolCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	return RunDoctorWithDependencies(cmd.Context(), []ToolCheck{
		{Name: "ffmpeg (" + cfg.Tools.FFmpeg + ")", Check: newTrimmer(cfg, logger).VerifyInstalled},
		{Name: "ffprobe (" + cfg.Tools.FFprobe + ")", Check: newProber(cfg, logger).VerifyInstalled},
	}, os.Stdout)
}

// RunDoctorWithDependencies runs each check with a short timeout and
// fails if any tool is unusable
func RunDoctorWithDependencies(ctx context.Context, checks []ToolCheck, output OutputWriter) error {
	failed := 0
	for _, c := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := c.Check(checkCtx)
		cancel()

		if err != nil {
			failed++
			fmt.Fprintf(output, "[FAIL] %s: %v\n", c.Name, err)
			continue
		}
		fmt.Fprintf(output, "[ OK ] %s\n", c.Name)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d tools unavailable", failed, len(checks))
	}
	return nil
}
