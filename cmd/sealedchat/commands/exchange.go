package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sealedchat/internal/domain"
)

// request <peer-id>: open a key exchange toward a peer.
func requestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "request <peer-id>",
		Short: "Send a key-exchange request to a peer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			id, err := appCtx.IDs.Load(passphrase)
			if err != nil {
				return err
			}

			signing := id.PublicSigning()
			reqID, err := appCtx.Directory.CreateRequest(cmd.Context(), args[0],
				id.PublicAgreement(), &signing)
			if err != nil {
				return err
			}
			fmt.Printf("Request sent: %s\nThe peer must accept before you can message them.\n", reqID)
			return nil
		},
	}
}

// incoming: list pending key-exchange requests addressed to us.
func incomingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "incoming",
		Short: "List pending key-exchange requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs, err := appCtx.Directory.IncomingRequests(cmd.Context())
			if err != nil {
				return err
			}
			if len(reqs) == 0 {
				fmt.Println("No pending requests.")
				return nil
			}
			for _, r := range reqs {
				fmt.Printf("%s  from %s (%s)\n", r.ID, r.InitiatorUsername, r.InitiatorID)
			}
			return nil
		},
	}
}

// accept <request-id>: approve a pending request and establish a session.
func acceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <request-id>",
		Short: "Accept a key-exchange request and establish the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if passphrase == "" {
				return fmt.Errorf("passphrase required (-p)")
			}
			requestID := args[0]

			// The accept result carries key material only; the initiator's
			// identity comes from the pending listing.
			reqs, err := appCtx.Directory.IncomingRequests(cmd.Context())
			if err != nil {
				return err
			}
			var initiator domain.UserSummary
			found := false
			for _, r := range reqs {
				if r.ID == requestID {
					initiator = domain.UserSummary{ID: r.InitiatorID, Username: r.InitiatorUsername}
					found = true
					break
				}
			}
			if !found {
				return fmt.Errorf("no pending request with id %s", requestID)
			}

			id, err := appCtx.IDs.Load(passphrase)
			if err != nil {
				return err
			}
			signing := id.PublicSigning()
			result, err := appCtx.Directory.AcceptRequest(cmd.Context(), requestID,
				id.PublicAgreement(), &signing)
			if err != nil {
				return err
			}

			err = appCtx.Sessions.EstablishFromAccept(initiator,
				result.InitiatorAgreement, result.InitiatorSigning)
			if err != nil {
				return err
			}
			fmt.Printf("Accepted. Session established with %s.\n", initiator.Username)
			return nil
		},
	}
}

// reject <request-id>: delete a pending request.
func rejectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reject <request-id>",
		Short: "Reject a key-exchange request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Directory.RejectRequest(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("Rejected.")
			return nil
		},
	}
}
