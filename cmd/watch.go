package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kozaktomas/face-watch/internal/config"
	"github.com/kozaktomas/face-watch/internal/recognize"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run live face recognition against a video source",
	Long: `Run the live recognition loop: sample frames from the video source,
extract face embeddings, and match each face against the enrolled gallery.

Only every n-th frame goes through extraction and matching (the dominant
per-frame cost); the frames in between reuse the last results. Stop with
Ctrl-C.

Examples:
  # Watch a network camera stream
  face-watch watch --source http://192.168.1.100:8080/video

  # Stricter matching, process every 5th frame
  face-watch watch --source http://cam.local/video --threshold 0.3 --every 5

  # Emit per-frame JSON arrays instead of text
  face-watch watch --source http://cam.local/video --json`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("source", "", "Video source: camera index or stream URL (overrides config)")
	watchCmd.Flags().Float64("threshold", 0, "Max cosine distance for a match (overrides config)")
	watchCmd.Flags().Int("every", 0, "Process every n-th frame (overrides config)")
	watchCmd.Flags().Bool("json", false, "Print per-frame results as JSON arrays")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if t := mustGetFloat64(cmd, "threshold"); t != 0 {
		cfg.Matching.Threshold = t
	}
	if n := mustGetInt(cmd, "every"); n != 0 {
		cfg.Video.ProcessEvery = n
	}
	asJSON := mustGetBool(cmd, "json")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, _, teardown, err := buildSession(ctx, cfg, mustGetString(cmd, "source"))
	if err != nil {
		return err
	}
	defer teardown()

	fmt.Printf("Threshold: %v, processing every %d frames\n", cfg.Matching.Threshold, cfg.Video.ProcessEvery)
	fmt.Println("Watching... press Ctrl-C to stop")

	session.Emit = func(processed bool, results []recognize.Result) {
		if !processed {
			return
		}
		if asJSON {
			if results == nil {
				results = []recognize.Result{}
			}
			data, err := json.Marshal(results)
			if err == nil {
				fmt.Println(string(data))
			}
			return
		}
		printResults(session.Scheduler().Frames(), results)
	}

	if err := session.Run(ctx); err != nil {
		return fmt.Errorf("recognition session failed: %w", err)
	}
	fmt.Println("\nSession ended")
	return nil
}

// printResults renders one processed frame's results as text.
func printResults(frame int, results []recognize.Result) {
	if len(results) == 0 {
		fmt.Printf("frame %d: no faces\n", frame)
		return
	}
	for _, r := range results {
		if r.Known {
			fmt.Printf("frame %d: %s (%.1f%%, distance %.3f) at %v\n",
				frame, r.Identity, r.Confidence, r.Distance, r.BBox)
		} else {
			fmt.Printf("frame %d: unknown face (distance %.3f) at %v\n",
				frame, r.Distance, r.BBox)
		}
	}
}
