package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"
)

// sessions: list the peers we hold an established session with.
func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List established sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := appCtx.Sessions.List()
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				fmt.Println("no sessions; request or accept a key exchange first")
				return nil
			}
			sort.Slice(recs, func(i, j int) bool { return recs[i].PeerUsername < recs[j].PeerUsername })
			for _, rec := range recs {
				fmt.Printf("%s (%s)  %s  established %s\n",
					rec.PeerUsername, rec.PeerID, rec.Role,
					rec.Established().Local().Format(time.DateTime))
			}
			return nil
		},
	}
}
