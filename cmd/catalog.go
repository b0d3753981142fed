package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bundle-configurator/catalog"
	"bundle-configurator/repository"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect catalog snapshots",
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse a catalog directory and report problems per kind",
	RunE:  runCatalogValidate,
}

func init() {
	catalogValidateCmd.Flags().String("dir", "", "catalog directory (default catalog.dir)")
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	if dir == "" {
		dir = viper.GetString("catalog.dir")
	}

	raw, err := repository.NewFileCatalogRepository(dir, nil).LoadRaw(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	snap, err := catalog.Load(raw)
	for _, kind := range catalog.Kinds {
		if _, ok := raw[kind]; !ok {
			fmt.Fprintf(out, "- %s: missing (empty)\n", kind)
			continue
		}
		if kindErr := errorFor(err, kind); kindErr != nil {
			fmt.Fprintf(out, "✗ %s: %v\n", kind, kindErr)
			continue
		}
		fmt.Fprintf(out, "✓ %s\n", kind)
	}
	fmt.Fprintf(out, "%d models, %d accessory groups, %d indexed entries\n",
		len(snap.Models()), len(snap.Groups()), snap.Len())

	if err != nil {
		return fmt.Errorf("catalog %s has errors", dir)
	}
	return nil
}

// errorFor returns the parse error reported for kind, if any
func errorFor(err error, kind catalog.Kind) error {
	if err == nil {
		return nil
	}
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return matchKind(err, kind)
	}
	for _, e := range joined.Unwrap() {
		if m := matchKind(e, kind); m != nil {
			return m
		}
	}
	return nil
}

func matchKind(err error, kind catalog.Kind) error {
	var perr *catalog.ParseError
	if errors.As(err, &perr) && perr.Kind == kind {
		return perr.Err
	}
	return nil
}
