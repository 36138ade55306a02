package cmd

import (
	"context"
	"fmt"

	"github.com/kozaktomas/face-watch/internal/config"
	"github.com/kozaktomas/face-watch/internal/enroll"
	"github.com/kozaktomas/face-watch/internal/extractor"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <dir>",
	Short: "Build the gallery from a directory of labeled face images",
	Long: `Build the face gallery from a directory of labeled images.

The filename (minus extension) becomes the identity key, so "jan-novak.jpg"
enrolls "jan novak". Multiple photos of one person ("jan-novak.jpg",
"jan-novak-2.jpg") append multiple records for that identity, which improves
matching across poses.

Images without a detectable face are skipped with a warning; images with more
than one face enroll the highest-scoring detection.

Examples:
  # Enroll everything under photos/training into gallery.json
  face-watch enroll photos/training

  # Enroll into a PostgreSQL-backed gallery
  FACE_GALLERY_STORE=postgres DATABASE_URL=postgres://... face-watch enroll photos/training`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)
}

func runEnroll(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ex := extractor.New(cfg.Extractor.URL, cfg.Extractor.Model, cfg.Extractor.Detector)
	fmt.Printf("Enrolling faces with model %s\n", ex.Model())

	builder := enroll.NewBuilder(ex)

	var bar *progressbar.ProgressBar
	builder.OnProgress = func(done, total int) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("Enrolling faces"),
				progressbar.OptionShowCount(),
				progressbar.OptionShowIts(),
			)
		}
		_ = bar.Set(done)
	}

	g, report, err := builder.BuildGallery(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println()

	for _, warning := range report.Warnings {
		fmt.Printf("Warning: %s\n", warning)
	}

	if g.Len() == 0 {
		return fmt.Errorf("no faces enrolled from %s", args[0])
	}

	store, cleanup, err := openStore(ctx, cfg, g.Dim)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.Save(ctx, g); err != nil {
		return fmt.Errorf("failed to save gallery: %w", err)
	}

	fmt.Printf("Enrolled %d records (%d identities, %d skipped)\n",
		report.Enrolled, len(g.Identities()), report.Skipped)
	fmt.Printf("Gallery model: %s, dimension: %d\n", g.Model, g.Dim)
	return nil
}
