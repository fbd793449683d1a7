// README: Service banner, liveness and the store diagnostic.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/docstore"
)

func Root(c *gin.Context) {
	writeJSON(c, http.StatusOK, gin.H{"message": "Ride Hailing Backend Running", "no_surge": true})
}

type SystemHandler struct {
	docs docstore.Store
}

func NewSystemHandler(docs docstore.Store) *SystemHandler {
	return &SystemHandler{docs: docs}
}

// Health returns 503 when the document store cannot be reached.
func (h *SystemHandler) Health(c *gin.Context) {
	if h.docs != nil {
		if err := h.docs.Ping(c.Request.Context()); err != nil {
			_ = c.Error(err)
			writeJSON(c, http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

type diagnosticResponse struct {
	Backend          string   `json:"backend"`
	Database         string   `json:"database"`
	ConnectionStatus string   `json:"connection_status"`
	Collections      []string `json:"collections"`
	Error            string   `json:"error,omitempty"`
}

// Diagnostic always answers 200 and describes store reachability in the body.
func (h *SystemHandler) Diagnostic(c *gin.Context) {
	resp := diagnosticResponse{
		Backend:          "running",
		Database:         "not available",
		ConnectionStatus: "not connected",
		Collections:      []string{},
	}
	if h.docs == nil {
		writeJSON(c, http.StatusOK, resp)
		return
	}
	ctx := c.Request.Context()
	resp.Database = "available"
	if err := h.docs.Ping(ctx); err != nil {
		resp.ConnectionStatus = "failed"
		resp.Error = err.Error()
		writeJSON(c, http.StatusOK, resp)
		return
	}
	resp.ConnectionStatus = "connected"
	names, err := h.docs.Collections(ctx)
	if err != nil {
		resp.Error = err.Error()
	} else if len(names) > 0 {
		resp.Collections = names
	}
	writeJSON(c, http.StatusOK, resp)
}
