// Health endpoint.
//
//   - GET /
//
// Uptime monitors and the MSG91 flow builder probe this with a plain GET, so
// the body is plain text rather than JSON.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health reports that the server is up.
func (h *Handlers) Health(c *gin.Context) {
	c.String(http.StatusOK, "COD Confirmation Server Running")
}
