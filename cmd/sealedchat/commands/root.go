package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sealedchat/internal/app"
)

var (
	home       string
	passphrase string
	serverURL  string

	appCtx *app.App
)

func Execute() error {
	root := &cobra.Command{
		Use:   "sealedchat",
		Short: "End-to-end encrypted chat CLI",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := os.UserHomeDir()
				if err != nil {
					return err
				}
				home = filepath.Join(dir, ".sealedchat")
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}

			var err error
			appCtx, err = app.New(app.Config{Home: home, ServerURL: serverURL})
			return err
		},
	}

	root.PersistentFlags().StringVar(&home, "home", "", "config dir (default ~/.sealedchat)")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys")
	root.PersistentFlags().StringVar(&serverURL, "server", "http://127.0.0.1:8080", "directory server base URL")

	root.AddCommand(
		initCmd(), fingerprintCmd(),
		signupCmd(), loginCmd(), usersCmd(),
		requestCmd(), incomingCmd(), acceptCmd(), rejectCmd(), sessionsCmd(),
		sendCmd(), sendFileCmd(), historyCmd(),
	)
	return root.Execute()
}
