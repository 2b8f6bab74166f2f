package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/numeracy/internal/store"
)

// keyAdminPassword lets scripts pass the password as NUMERACY_ADMIN_PASSWORD.
const keyAdminPassword = "admin.password"

var errNotAuthorized = errors.New("admin password required: pass --password or set NUMERACY_ADMIN_PASSWORD")

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage the admin password",
}

var adminSetPasswordCmd = &cobra.Command{
	Use:   "set-password",
	Short: "Set or change the admin password",
	Long: `Set the admin password that guards student management, results,
analytics and export. Changing an existing password needs the current one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := requireAdmin(cmd, st); err != nil {
			return err
		}
		newPassword, _ := cmd.Flags().GetString("new")
		if newPassword == "" {
			newPassword, err = prompt(cmd, "New admin password: ")
			if err != nil {
				return err
			}
		}
		if err := st.SetAdminPassword(cmd.Context(), newPassword); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Admin password saved.")
		return nil
	},
}

var adminCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check a password against the admin password",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(log)
		if err != nil {
			return err
		}
		defer st.Close()

		password := adminPassword(cmd)
		if password == "" {
			if password, err = prompt(cmd, "Admin password: "); err != nil {
				return err
			}
		}
		ok, err := st.CheckAdminPassword(cmd.Context(), password)
		if errors.Is(err, store.ErrNoPassword) {
			fmt.Fprintln(cmd.OutOrStdout(), "No admin password is set. Use 'numeracy admin set-password'.")
			return nil
		}
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("incorrect admin password")
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Password OK.")
		return nil
	},
}

func init() {
	adminSetPasswordCmd.Flags().String("new", "", "New password (prompted when omitted)")
	adminCmd.AddCommand(adminSetPasswordCmd)
	adminCmd.AddCommand(adminCheckCmd)
	addPasswordFlag(adminSetPasswordCmd, adminCheckCmd)
}

// addPasswordFlag gives admin-guarded commands a --password flag.
func addPasswordFlag(cmds ...*cobra.Command) {
	for _, c := range cmds {
		c.Flags().String("password", "", "Admin password (or NUMERACY_ADMIN_PASSWORD)")
	}
}

// requireAdmin checks the admin password when one has been set.
func requireAdmin(cmd *cobra.Command, st *store.Store) error {
	return checkAdmin(cmd.Context(), st, adminPassword(cmd))
}

func checkAdmin(ctx context.Context, st *store.Store, password string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	has, err := st.HasAdminPassword(ctx)
	if err != nil || !has {
		return err
	}
	if password == "" {
		return errNotAuthorized
	}
	ok, err := st.CheckAdminPassword(ctx, password)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("incorrect admin password")
	}
	return nil
}

func adminPassword(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("password"); p != "" {
		return p
	}
	return v.GetString(keyAdminPassword)
}

// prompt reads one line from the command's input.
func prompt(cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), label)
	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errors.New("no input")
	}
	return strings.TrimSpace(scanner.Text()), nil
}
