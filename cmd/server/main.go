// cmd/server is the main entrypoint for a KV cluster process.
//
// Unlike a conventional distributed store, every node here lives in the
// same process: there is no peer networking, no join protocol, and no
// cross-process RPC. A single binary starts with --nodes physical nodes
// already wired into the ring and serves the whole cluster over one HTTP
// listener.
//
// Example — five in-process nodes, replication factor 3:
//
//	./server --addr :8080 --nodes 5 --vnodes 100 --replicas 3
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"distributed-kvstore/internal/api"
	"distributed-kvstore/internal/cluster"
)

func main() {
	// ── Flags ──────────────────────────────────────────────────────────────
	selfID := flag.String("id", "cluster1", "Identifier reported by /health and /cluster/nodes")
	addr := flag.String("addr", ":8080", "Listen address (host:port)")
	numNodes := flag.Int("nodes", 3, "Number of in-process storage nodes to start")
	vnodes := flag.Int("vnodes", 100, "Virtual nodes per physical node on the hash ring")
	replicas := flag.Int("replicas", 2, "Replication factor (primary + replicas)")
	flag.Parse()

	if *numNodes <= 0 {
		log.Fatalf("FATAL: --nodes must be positive")
	}
	if *replicas <= 0 {
		log.Fatalf("FATAL: --replicas must be positive")
	}

	// ── Cluster ────────────────────────────────────────────────────────────
	c := cluster.New(*vnodes, *replicas)
	for i := 0; i < *numNodes; i++ {
		c.AddNode(fmt.Sprintf("node-%d", i))
	}

	// ── HTTP server ────────────────────────────────────────────────────────
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(api.Logger(), api.Recovery(), cors.Default())

	handler := api.NewHandler(c, *selfID)
	handler.Register(router)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// ── Graceful shutdown ──────────────────────────────────────────────────
	// Listen for SIGINT/SIGTERM and give in-flight requests 15s to complete.
	// There is no persistence step here: the cluster's contents are
	// in-memory only and are not expected to survive a restart.
	go func() {
		log.Printf("cluster %q listening on %s (%d nodes, vnodes=%d, replicas=%d)",
			*selfID, *addr, *numNodes, *vnodes, *replicas)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down", *selfID)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}
