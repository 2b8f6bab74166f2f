package cmd

import (
	"github.com/spf13/cobra"
)

var takeCmd = &cobra.Command{
	Use:   "take",
	Short: "Open the student app to take a practice test",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, _ := cmd.Flags().GetString("student")
		return runApp(cmd, studentID(id))
	},
}

func init() {
	takeCmd.Flags().String("student", "", "Sign in as this student ID (e.g. STU-Y3-AB12)")
}
