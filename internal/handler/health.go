package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Filho-do-homem/dsystem/internal/storage"

	"github.com/gin-gonic/gin"
)

// Health returns a JSON health check response. It round-trips the blob
// store with a probe key so a broken persistence backend surfaces here
// instead of on the first mutation.
func Health(blobs storage.BlobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		storageStatus := "connected"
		if _, _, err := blobs.Load(ctx, "dsystem_healthcheck"); err != nil {
			storageStatus = "error"
		}

		status := http.StatusOK
		if storageStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":      status == http.StatusOK,
			"storage": storageStatus,
		})
	}
}
