package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/habedi/showcase/catalog"
	"github.com/habedi/showcase/pkg/clierr"
	"github.com/habedi/showcase/pkg/validation"
	"github.com/habedi/showcase/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// catalogueCmd groups the commands that work on the stored catalogue.
func catalogueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalogue",
		Short: "Manage the content catalogue",
	}

	cmd.AddCommand(
		listCmd(),
		showCmd(),
		refreshCmd(),
		clearCmd(),
		exportCmd(),
	)

	return cmd
}

// listCmd shows every entry in the catalogue
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all entries in the catalogue",
		RunE:  listEntries,
	}
}

func listEntries(cmd *cobra.Command, _ []string) error {
	log.Info().Msg("Listing all entries in the catalogue...")

	store, err := buildStore(nil)
	if err != nil {
		return err
	}
	entries := store.Load(cmd.Context())
	if len(entries) == 0 {
		cmd.Println("No entries found in the catalogue. Use `showcase catalogue refresh` to update it.")
		return nil
	}

	ui.RenderEntries(cmd.OutOrStdout(), entries)
	log.Info().Msgf("Successfully listed %d entries in the catalogue.", len(entries))
	return nil
}

// showCmd prints one entry in full
func showCmd() *cobra.Command {
	var id string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a single entry of the catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showEntry(cmd, id)
		},
	}

	cmd.Flags().StringVarP(&id, "id", "i", "", "ID of the entry to show")
	if err := cmd.MarkFlagRequired("id"); err != nil {
		log.Error().Err(err).Msg("Failed to mark 'id' flag as required")
	}

	return cmd
}

func showEntry(cmd *cobra.Command, id string) error {
	if err := validation.ValidateEntryID(id); err != nil {
		return clierr.New(clierr.Validation, err.Error(), err)
	}

	store, err := buildStore(nil)
	if err != nil {
		return err
	}
	entry, err := findEntry(cmd, store, id)
	if err != nil {
		return clierr.New(clierr.Internal, "Failed to read the catalogue cache", err)
	}
	if entry == nil {
		log.Info().Str("id", id).Msg("No entry found")
		return clierr.New(clierr.NotFound, fmt.Sprintf("No entry with ID %s in the catalogue.", id), nil)
	}

	ui.RenderEntry(cmd.OutOrStdout(), *entry)
	return nil
}

// findEntry reads a single entry from the cache when there is one, and from
// the whole catalogue otherwise.
func findEntry(cmd *cobra.Command, store catalog.Store, id string) (*catalog.Entry, error) {
	if cached, ok := store.(*catalog.CachedStore); ok {
		return cached.Lookup(cmd.Context(), id)
	}
	entries := store.Load(cmd.Context())
	if idx := entries.IndexOf(id); idx >= 0 {
		return &entries[idx], nil
	}
	return nil, nil
}

// refreshCmd replaces the cached catalogue with a fresh copy from the source
func refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Fetch the catalogue from its source and update the local cache",
		RunE:  refreshCatalogue,
	}
}

func refreshCatalogue(cmd *cobra.Command, _ []string) error {
	log.Info().Str("source", settings.Source.Location).Msg("Refreshing the catalogue...")

	store, err := buildStore(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	cached, ok := store.(*catalog.CachedStore)
	if !ok {
		entries := store.Load(cmd.Context())
		cmd.Printf("The remote strategy keeps no cache; the source currently has %d entries.\n", len(entries))
		return nil
	}

	entries, err := cached.Refresh(cmd.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to refresh the catalogue")
		return clierr.New(clierr.Load, "Failed to refresh the catalogue from "+settings.Source.Location, err)
	}
	cmd.Printf("Refreshing completed successfully. There are %d entries in the catalogue.\n", len(entries))
	return nil
}

// clearCmd drops the cached catalogue
func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the locally cached catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := buildStore(nil)
			if err != nil {
				return err
			}
			var removed int64
			if cached, ok := store.(*catalog.CachedStore); ok {
				if removed, err = cached.Size(cmd.Context()); err != nil {
					log.Warn().Err(err).Msg("Failed to count cached entries")
				}
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return clierr.New(clierr.Internal, "Failed to clear the catalogue cache", err)
			}
			cmd.Printf("Catalogue cache cleared (%d entries removed).\n", removed)
			return nil
		},
	}
}

// exportCmd writes the catalogue to a JSON or CSV file
func exportCmd() *cobra.Command {
	exportPath := ""
	exportFormat := ""

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the catalogue to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportCatalogue(cmd, exportPath, exportFormat)
		},
	}

	cmd.Flags().StringVarP(&exportPath, "dir", "d", "", "Directory to export the file (required)")
	cmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format: json or csv")
	_ = cmd.MarkFlagRequired("dir")

	return cmd
}

func exportCatalogue(cmd *cobra.Command, exportPath, exportFormat string) error {
	log.Info().Msg("Exporting the catalogue...")

	if err := validation.ValidateNonEmptyString("export directory", exportPath); err != nil {
		return clierr.New(clierr.Validation, err.Error(), err)
	}
	if err := validation.ValidateExportFormat(exportFormat); err != nil {
		return clierr.New(clierr.Validation, err.Error(), err)
	}
	if err := os.MkdirAll(exportPath, 0o755); err != nil {
		log.Error().Err(err).Msg("Failed to create export directory.")
		return clierr.New(clierr.Internal, "Failed to create export directory.", err)
	}

	store, err := buildStore(nil)
	if err != nil {
		return err
	}
	entries := store.Load(cmd.Context())

	timestamp := time.Now().Format("20060102_150405")
	filePath := filepath.Join(exportPath, fmt.Sprintf("showcase_catalogue_%s.%s", timestamp, exportFormat))

	if exportFormat == "json" {
		err = exportCatalogueToJSON(filePath, entries)
	} else {
		err = exportCatalogueToCSV(filePath, entries)
	}
	if err != nil {
		log.Error().Err(err).Msg("Failed to export the catalogue.")
		return clierr.New(clierr.Internal, "Failed to export the catalogue.", err)
	}

	cmd.Printf("Catalogue exported to %s\n", filePath)
	log.Info().Msgf("Catalogue exported successfully to %s.", filePath)
	return nil
}

// exportCatalogueToJSON writes the catalogue in the same document shape it is loaded from.
func exportCatalogueToJSON(path string, entries catalog.Catalog) error {
	data, err := catalog.Marshal(entries)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// exportCatalogueToCSV writes one row per entry with a header line.
func exportCatalogueToCSV(path string, entries catalog.Catalog) error {
	file, err := os.Create(path)
	if err != nil {
		log.Error().Err(err).Msgf("Failed to create CSV file %s", path)
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"ID", "Title", "Description"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.Write([]string{e.ID, e.Title, e.Description}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
