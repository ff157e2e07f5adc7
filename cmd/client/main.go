// cmd/client is the CLI entry-point built with Cobra.
//
// Usage:
//
//	kvcli put mykey "hello world"         --server http://localhost:8080
//	kvcli put mykey "hello" --ttl 30s     --server http://localhost:8080
//	kvcli get mykey                       --server http://localhost:8080
//	kvcli delete mykey                    --server http://localhost:8080
//	kvcli cluster nodes                   --server http://localhost:8080
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"distributed-kvstore/internal/client"
)

var (
	serverAddr string
	timeout    time.Duration
	putTTL     time.Duration
)

func main() {
	root := &cobra.Command{
		Use:   "kvcli",
		Short: "CLI client for the distributed KV store",
	}

	root.PersistentFlags().StringVarP(&serverAddr, "server", "s",
		"http://localhost:8080", "KV store server address")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second,
		"HTTP request timeout")

	root.AddCommand(putCmd(), getCmd(), deleteCmd(), clusterCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ─── put ──────────────────────────────────────────────────────────────────────

func putCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "put <key> <value>",
		Short: "Store a key-value pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(serverAddr, timeout)
			resp, err := c.Put(context.Background(), args[0], args[1], putTTL)
			if err != nil {
				return err
			}
			prettyPrint(resp)
			return nil
		},
	}
	cmd.Flags().DurationVar(&putTTL, "ttl", 0, "expiry for this entry, e.g. 30s (0 = never expires)")
	return cmd
}

// ─── get ──────────────────────────────────────────────────────────────────────

func getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Retrieve a value by key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(serverAddr, timeout)
			resp, err := c.Get(context.Background(), args[0])
			if err == client.ErrNotFound {
				fmt.Printf("key %q not found\n", args[0])
				return nil
			}
			if err != nil {
				return err
			}
			prettyPrint(resp)
			return nil
		},
	}
}

// ─── delete ───────────────────────────────────────────────────────────────────

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <key>",
		Short: "Delete a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(serverAddr, timeout)
			if err := c.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %q\n", args[0])
			return nil
		},
	}
}

// ─── cluster ──────────────────────────────────────────────────────────────────

// clusterCmd only exposes "nodes" — there is no join or leave here, since
// the cluster's node count is fixed at process start (--nodes on the
// server) and never changes while it runs.
func clusterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Cluster introspection commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "nodes",
		Short: "List all cluster nodes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(serverAddr, timeout)
			resp, err := c.GetRaw(context.Background(), "/cluster/nodes")
			if err != nil {
				return err
			}
			fmt.Println(resp)
			return nil
		},
	})

	return cmd
}

// ─── helpers ──────────────────────────────────────────────────────────────────

func prettyPrint(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(v)
		return
	}
	fmt.Println(string(data))
}
