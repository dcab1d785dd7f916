package commands

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "status",
		Short: "Check whether the cache proxy's admin API is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := cmd.Flags().GetString("admin-addr")
			if err != nil {
				return err
			}
			client := http.Client{Timeout: 5 * time.Second}
			resp, err := client.Get(base + "/healthz")
			if err != nil {
				cmd.Println("cache proxy is not reachable")
				return err
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
			}
			cmd.Println("cache proxy is running")
			return nil
		},
	}
	return c
}
