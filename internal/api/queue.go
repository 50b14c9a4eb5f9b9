package api

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/quill/pkg/handlers"
	"github.com/JaimeStill/quill/pkg/openapi"
	"github.com/JaimeStill/quill/pkg/routes"
	"github.com/JaimeStill/quill/pkg/scheduler"
)

// QueueStatus reports the model call backlog.
type QueueStatus struct {
	QueueLength          int     `json:"queue_length"`
	EstimatedWaitSeconds float64 `json:"estimated_wait_seconds"`
}

type queueHandler struct {
	sched  *scheduler.Scheduler
	logger *slog.Logger
}

func newQueueHandler(sched *scheduler.Scheduler, logger *slog.Logger) *queueHandler {
	return &queueHandler{
		sched:  sched,
		logger: logger.With("handler", "queue"),
	}
}

func (h *queueHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/queue",
		Tags:   []string{"Queue"},
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.status, OpenAPI: queueOp},
		},
	}
}

func (h *queueHandler) status(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, QueueStatus{
		QueueLength:          h.sched.QueueLength(),
		EstimatedWaitSeconds: h.sched.EstimatedWait().Seconds(),
	})
}

var queueOp = &openapi.Operation{
	Summary:     "Model queue status",
	Description: "Number of model calls waiting to start and the estimated wait for a new one.",
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Current queue status", "QueueStatus"),
	},
}
