package changefeed

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	client *redis.Client
}

func NewHandler(client *redis.Client) *Handler {
	return &Handler{client: client}
}

// Stream handles GET /api/changes/stream
// @Summary Stream change notifications
// @Description Server-Sent Events stream of created/updated/deleted events, event types and users
// @Tags Changes
// @Produce text/event-stream
// @Success 200 {string} string
// @Failure 503 {object} map[string]interface{}
// @Router /api/changes/stream [get]
func (h *Handler) Stream(c *gin.Context) {
	if h.client == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "change stream disabled"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.Status(http.StatusInternalServerError)
		return
	}

	sub := h.client.PSubscribe(c.Request.Context(), ChannelPrefix+"*")
	defer sub.Close()

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	flusher.Flush()

	ch := sub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = c.Writer.Write([]byte("event: change\n"))
			_, _ = c.Writer.Write([]byte("data: " + msg.Payload + "\n\n"))
			flusher.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
