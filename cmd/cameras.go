package cmd

import (
	"fmt"

	"github.com/kozaktomas/face-watch/internal/video"
	"github.com/spf13/cobra"
)

var camerasCmd = &cobra.Command{
	Use:   "cameras",
	Short: "List local capture devices",
	Long: `Probe /dev/video* for local capture devices.

Local devices are not captured in-process; pair them with an MJPEG bridge
(for example a phone camera app or ffmpeg streaming multipart JPEG) and pass
the stream URL to watch/serve.`,
	RunE: runCameras,
}

func init() {
	rootCmd.AddCommand(camerasCmd)

	camerasCmd.Flags().Int("max", 5, "Highest device index to probe")
}

func runCameras(cmd *cobra.Command, args []string) error {
	max := mustGetInt(cmd, "max")

	devices := video.ProbeDevices(max)
	if len(devices) == 0 {
		fmt.Println("No capture devices found")
		return nil
	}

	fmt.Printf("Found %d capture device(s):\n", len(devices))
	for _, d := range devices {
		fmt.Printf("  %s\n", d)
	}
	return nil
}
