package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

type entrySnapshot struct {
	Key      string `json:"key"`
	State    string `json:"state"`
	Length   int    `json:"length"`
	Capacity int    `json:"capacity"`
	LRUStamp uint64 `json:"lru_stamp"`
}

func newCacheCmd() *cobra.Command {
	var formatJSON bool
	c := &cobra.Command{
		Use:   "cache",
		Short: "List current cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := cmd.Flags().GetString("admin-addr")
			if err != nil {
				return err
			}
			client := http.Client{Timeout: 5 * time.Second}
			resp, err := client.Get(base + "/cache")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
			}
			if formatJSON {
				cmd.Println(string(body))
				return nil
			}
			var entries []entrySnapshot
			if err := json.Unmarshal(body, &entries); err != nil {
				return err
			}
			for _, e := range entries {
				cmd.Printf("%-40s %-8s len=%d/%d lru=%d\n", e.Key, e.State, e.Length, e.Capacity, e.LRUStamp)
			}
			return nil
		},
	}
	c.Flags().BoolVar(&formatJSON, "json", false, "Format output in JSON")
	return c
}
