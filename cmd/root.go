package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "face-watch",
	Short: "A CLI tool for live face recognition against an enrolled gallery",
	Long: `Face Watch matches faces in a live video stream against a gallery of
enrolled identities. Enrollment extracts one embedding per labeled photo
through an external embedding service; recognition samples video frames,
extracts embeddings from detected faces, and reports the closest enrolled
identity under a cosine distance threshold.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to YAML config file (default face-watch.yaml if present)")
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
