package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/colorstring"
	"github.com/spf13/cobra"

	"github.com/menta2k/pet-triage/pkg/catalog"
	"github.com/menta2k/pet-triage/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and manage condition catalogs",
}

var catalogExportCmd = &cobra.Command{
	Use:   "export <dir>",
	Short: "Write the built-in catalogs as JSON files for editing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		builtin := catalog.Builtin()
		for _, part := range types.BodyParts() {
			path := filepath.Join(args[0], string(part)+".json")
			if err := builtin[part].Save(path); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
		}
		return nil
	},
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Validate catalog JSON files in a directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := false
		for _, part := range types.BodyParts() {
			path := filepath.Join(args[0], string(part)+".json")
			if _, err := os.Stat(path); os.IsNotExist(err) {
				fmt.Printf("%-6s (no file, built-in catalog applies)\n", part)
				continue
			}
			c, err := catalog.LoadFile(path)
			if err != nil {
				colorstring.Printf("[red]%-6s %v\n", part, err)
				failed = true
				continue
			}
			if c.BodyPart != part {
				colorstring.Printf("[red]%-6s declares body part %q\n", part, c.BodyPart)
				failed = true
				continue
			}
			colorstring.Printf("[green]%-6s ok[reset] (%d prototypes)\n", part, len(c.Prototypes))
		}
		if failed {
			return fmt.Errorf("catalog validation failed")
		}
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogExportCmd)
	catalogCmd.AddCommand(catalogValidateCmd)
	rootCmd.AddCommand(catalogCmd)
}
