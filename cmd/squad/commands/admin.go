package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/squadpick/internal/contracts"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin accounts",
	Long: `Grants or revokes the admin role.
Admins can edit and delete any account through the API.
Tokens issued before the change keep the old role until they expire.`,
}

var promoteCmd = &cobra.Command{
	Use:   "promote <username>",
	Short: "Give a user the admin role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRole(cmd, args[0], contracts.RoleAdmin)
	},
}

var demoteCmd = &cobra.Command{
	Use:   "demote <username>",
	Short: "Reset a user to the player role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRole(cmd, args[0], contracts.RolePlayer)
	},
}

func init() {
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(promoteCmd, demoteCmd)
}

func setRole(cmd *cobra.Command, username string, role contracts.Role) error {
	a, err := bootstrap(cmd.Context(), appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	p, err := a.service.SetRole(cmd.Context(), username, role)
	if err != nil {
		return fmt.Errorf("set role of %s: %w", username, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ %s (id %d) is now %s\n", p.Username, p.ID, p.Role)
	return nil
}
