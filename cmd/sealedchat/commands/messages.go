package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// send <peer-id> <message>: encrypt and send a message.
func sendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <peer-id> <message>",
		Short: "Encrypt and send a message to a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			peer := args[0]
			if err := ensureSession(cmd.Context(), peer); err != nil {
				return err
			}
			stored, err := appCtx.Messages.Send(cmd.Context(), passphrase, peer, []byte(args[1]))
			if err != nil {
				return err
			}
			fmt.Printf("sent (counter %d)\n", stored.Counter)
			return nil
		},
	}
}

// send-file <peer-id> <path>: upload a file for a peer.
func sendFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send-file <peer-id> <path>",
		Short: "Send a file to a peer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := appCtx.Messages.SendFile(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("sent %s\n", stored.FileName)
			return nil
		},
	}
}

// history <peer-id>: fetch and decrypt the conversation.
func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <peer-id>",
		Short: "Fetch and decrypt the conversation with a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			peer := args[0]
			if err := ensureSession(cmd.Context(), peer); err != nil {
				return err
			}
			msgs, err := appCtx.Messages.History(cmd.Context(), passphrase, peer)
			if err != nil {
				return err
			}
			for _, m := range msgs {
				mark := " "
				if m.Verified {
					mark = "*"
				}
				when := m.Timestamp.Local().Format(time.DateTime)
				if m.FileURL != "" {
					fmt.Printf("[%s]%s %s: (file) %s  %s\n", when, mark, m.From, m.FileName, m.FileURL)
					continue
				}
				fmt.Printf("[%s]%s %s: %s\n", when, mark, m.From, m.Plaintext)
			}
			return nil
		},
	}
}

// ensureSession completes our half of the handshake if the peer already
// accepted but we have not recorded the session yet.
func ensureSession(ctx context.Context, peerID string) error {
	if _, ok, err := appCtx.Sessions.Get(peerID); err != nil {
		return err
	} else if ok {
		return nil
	}
	if _, err := appCtx.Sessions.EstablishFromAccepted(ctx, peerID); err != nil {
		return fmt.Errorf("no session with %s: %w", peerID, err)
	}
	return nil
}
