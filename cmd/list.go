package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/kozaktomas/face-watch/internal/config"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the identities registered in the gallery",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	store, cleanup, err := openStore(ctx, cfg, 0)
	if err != nil {
		return err
	}
	defer cleanup()

	g, err := store.Load(ctx, cfg.Extractor.Model)
	if err != nil {
		return err
	}

	identities := g.Identities()
	if len(identities) == 0 {
		fmt.Println("No identities enrolled yet")
		return nil
	}

	fmt.Printf("Gallery: %d identities, %d records (model %s, dim %d)\n\n",
		len(identities), g.Len(), g.Model, g.Dim)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "IDENTITY\tRECORDS")
	for _, id := range identities {
		fmt.Fprintf(w, "%s\t%d\n", id, g.RecordCount(id))
	}
	return w.Flush()
}
