// Package api wires up the Gin HTTP router with all handler functions.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"distributed-kvstore/internal/cluster"
)

// Handler holds all dependencies injected from main.
type Handler struct {
	cluster *cluster.Cluster
	selfID  string
}

// NewHandler creates a Handler.
func NewHandler(c *cluster.Cluster, selfID string) *Handler {
	return &Handler{cluster: c, selfID: selfID}
}

// Register mounts all routes on r.
func (h *Handler) Register(r *gin.Engine) {
	kv := r.Group("/kv")
	kv.GET("/:key", h.Get)
	kv.PUT("/:key", h.Put)
	kv.DELETE("/:key", h.Delete)
	kv.GET("/:key/json", h.GetJSON)
	kv.PUT("/:key/json", h.PutJSON)

	r.GET("/cluster/nodes", h.ListNodes)
	r.GET("/cluster/dump", h.Dump)
	r.GET("/health", h.Health)
}

// ─── Public KV handlers ───────────────────────────────────────────────────────

// Put handles PUT /kv/:key
// Body: {"value": "<string>", "ttl_seconds": <optional int>}
func (h *Handler) Put(c *gin.Context) {
	key := c.Param("key")

	var body struct {
		Value      string `json:"value" binding:"required"`
		TTLSeconds *int   `json:"ttl_seconds"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ttl *time.Duration
	if body.TTLSeconds != nil {
		d := time.Duration(*body.TTLSeconds) * time.Second
		ttl = &d
	}

	h.cluster.Set(key, []byte(body.Value), ttl)
	c.JSON(http.StatusOK, gin.H{"key": key, "value": body.Value})
}

// Get handles GET /kv/:key
func (h *Handler) Get(c *gin.Context) {
	key := c.Param("key")

	val, ok := h.cluster.Get(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "value": string(val)})
}

// Delete handles DELETE /kv/:key
func (h *Handler) Delete(c *gin.Context) {
	key := c.Param("key")
	h.cluster.Del(key)
	c.JSON(http.StatusOK, gin.H{"deleted": key})
}

// PutJSON handles PUT /kv/:key/json. Body: {"value": <any JSON>,
// "ttl_seconds": <optional int>}. The value's raw JSON bytes are stored as
// received — the cluster itself never inspects or parses it, matching the
// teacher's treatment of values as opaque. This is the Go counterpart of
// the original store's set_json_value helper.
func (h *Handler) PutJSON(c *gin.Context) {
	key := c.Param("key")

	var body struct {
		Value      json.RawMessage `json:"value" binding:"required"`
		TTLSeconds *int            `json:"ttl_seconds"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var ttl *time.Duration
	if body.TTLSeconds != nil {
		d := time.Duration(*body.TTLSeconds) * time.Second
		ttl = &d
	}

	h.cluster.Set(key, []byte(body.Value), ttl)
	c.JSON(http.StatusOK, gin.H{"key": key, "value": body.Value})
}

// GetJSON handles GET /kv/:key/json, returning the stored bytes decoded as
// JSON rather than as a string. Stored bytes that are not valid JSON are
// reported as a 422, not silently coerced; bytes written through the plain
// /kv/:key route are returned here whenever they happen to be valid JSON.
func (h *Handler) GetJSON(c *gin.Context) {
	key := c.Param("key")

	val, ok := h.cluster.Get(key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "key not found"})
		return
	}

	if !json.Valid(val) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "stored value is not valid JSON"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"key": key, "value": json.RawMessage(val)})
}

// ─── Cluster introspection handlers ──────────────────────────────────────────

// ListNodes handles GET /cluster/nodes. There is no join/leave here: nodes
// are wired up once at process start and the ring never shrinks or grows
// afterward — a running cluster only ever reports what it was started with.
func (h *Handler) ListNodes(c *gin.Context) {
	n := h.cluster.NodeCount()
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		ids[i] = h.cluster.NodeAt(i).ID()
	}
	c.JSON(http.StatusOK, gin.H{"self": h.selfID, "nodes": ids, "v": h.cluster.V(), "r": h.cluster.R()})
}

// Dump handles GET /cluster/dump, returning a point-in-time JSON view of
// every node's contents. This is an operator/debug endpoint — it bypasses
// routing entirely and walks every node directly, unlike /kv/:key which
// only ever touches the primary.
func (h *Handler) Dump(c *gin.Context) {
	data, err := h.cluster.Dump()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "self": h.selfID})
}
