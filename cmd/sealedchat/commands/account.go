package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var password string

// signup <username> <email>: publish your public keys under a new account.
func signupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signup <username> <email>",
		Short: "Register with the directory and publish your public keys",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			if password == "" {
				return fmt.Errorf("--password required")
			}
			id, err := appCtx.IDs.Load(passphrase)
			if err != nil {
				return err
			}

			err = appCtx.Directory.Signup(cmd.Context(), args[0], args[1], password,
				id.PublicSigning(), id.PublicAgreement())
			if err != nil {
				return err
			}
			fmt.Println("Registered. Log in with: sealedchat login", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// login <username>: obtain and cache a bearer token.
func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <username>",
		Short: "Log in to the directory and cache the token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				return fmt.Errorf("--password required")
			}
			creds, err := appCtx.Directory.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			if err := appCtx.Creds.SaveCredentials(creds); err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", creds.Username, creds.UserID)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// users: list everyone in the directory.
func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List directory users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := appCtx.Directory.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Printf("%s  %s\n", u.ID, u.Username)
			}
			return nil
		},
	}
}
