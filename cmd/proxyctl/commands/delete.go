package commands

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"
)

func newDeleteCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "delete <url>",
		Short: "Evict a single URL from the cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := cmd.Flags().GetString("admin-addr")
			if err != nil {
				return err
			}
			req, err := http.NewRequest(http.MethodDelete, base+"/cache?url="+url.QueryEscape(args[0]), nil)
			if err != nil {
				return err
			}
			client := http.Client{Timeout: 5 * time.Second}
			resp, err := client.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusNoContent {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
			}
			cmd.Println("deleted")
			return nil
		},
	}
	return c
}
