package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all students and results as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")
		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := requireAdmin(cmd, st); err != nil {
			return err
		}

		doc, err := st.ExportAll(cmd.Context())
		if err != nil {
			return err
		}

		var w io.Writer = cmd.OutOrStdout()
		if path != "" {
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}
			defer f.Close()
			w = f
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		if path != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d students to %s\n", len(doc.Students), path)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "", "Write to this file instead of stdout")
	addPasswordFlag(exportCmd)
}
