package handler

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"interntrack/internal/activity"
	"interntrack/internal/metrics"
	"interntrack/internal/records"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) bool

type Handler struct {
	svc   *records.Service
	feed  *activity.Publisher // nil when the queue is off
	redis HealthCheck         // nil when redis is not used
}

func New(svc *records.Service, feed *activity.Publisher, redis HealthCheck) *Handler {
	return &Handler{svc: svc, feed: feed, redis: redis}
}

// Register mounts every route on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/add", h.AddIntern)
	r.POST("/login", h.Login)
	r.POST("/logout", h.Logout)
	r.POST("/assign_task", h.AssignTask)
	r.POST("/complete_task", h.CompleteTask)
}

// ---------- Health ----------

func (h *Handler) Healthz(c *gin.Context) {
	storeHealthy := h.svc.Ping(c.Request.Context()) == nil
	body := gin.H{"status": "ok", "store": storeHealthy}
	healthy := storeHealthy
	if h.redis != nil {
		redisHealthy := h.redis(c.Request.Context())
		body["redis"] = redisHealthy
		healthy = healthy && redisHealthy
	}
	status := http.StatusOK
	if !healthy {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}
	c.JSON(status, body)
}

// ---------- Interns ----------

type addInternRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
}

func (h *Handler) AddIntern(c *gin.Context) {
	var req addInternRequest
	if !bind(c, "add", &req) {
		return
	}
	in, err := h.svc.AddIntern(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		fail(c, "add", err)
		return
	}
	metrics.Operations.WithLabelValues("add", "ok").Inc()
	h.feed.Publish(activity.InternAdded, in.Name)
	c.JSON(http.StatusOK, gin.H{"message": records.InternAddedMessage(in.Name)})
}

// ---------- Attendance ----------

type sessionRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req sessionRequest
	if !bind(c, "login", &req) {
		return
	}
	rec, err := h.svc.Login(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, "login", err)
		return
	}
	metrics.Operations.WithLabelValues("login", "ok").Inc()
	h.feed.Publish(activity.Login, rec.Name)
	c.JSON(http.StatusOK, gin.H{"message": records.LoginMessage(rec)})
}

func (h *Handler) Logout(c *gin.Context) {
	var req sessionRequest
	if !bind(c, "logout", &req) {
		return
	}
	outcome, at, err := h.svc.Logout(c.Request.Context(), req.Name)
	if err != nil {
		fail(c, "logout", err)
		return
	}
	metrics.Operations.WithLabelValues("logout", outcome.String()).Inc()
	if outcome == records.Matched {
		h.feed.Publish(activity.Logout, req.Name)
	}
	c.JSON(http.StatusOK, gin.H{"message": records.LogoutMessage(req.Name, outcome, at)})
}

// ---------- Tasks ----------

// assignTaskRequest still accepts deadline and priority so older clients keep
// working. Neither is stored.
type assignTaskRequest struct {
	InternName string `json:"intern_name" binding:"required"`
	Task       string `json:"task" binding:"required"`
	Deadline   any    `json:"deadline"`
	Priority   any    `json:"priority"`
}

type completeTaskRequest struct {
	InternName string `json:"intern_name" binding:"required"`
	Task       string `json:"task" binding:"required"`
}

func (h *Handler) AssignTask(c *gin.Context) {
	var req assignTaskRequest
	if !bind(c, "assign_task", &req) {
		return
	}
	if req.Deadline != nil || req.Priority != nil {
		log.Printf("assign_task: deadline/priority are not stored, ignoring them for %q", req.InternName)
	}
	t, err := h.svc.AssignTask(c.Request.Context(), req.InternName, req.Task)
	if err != nil {
		fail(c, "assign_task", err)
		return
	}
	metrics.Operations.WithLabelValues("assign_task", "ok").Inc()
	h.feed.Publish(activity.TaskAssigned, t.InternName)
	c.JSON(http.StatusOK, gin.H{"message": records.TaskAssignedMessage(t.InternName)})
}

func (h *Handler) CompleteTask(c *gin.Context) {
	var req completeTaskRequest
	if !bind(c, "complete_task", &req) {
		return
	}
	outcome, err := h.svc.CompleteTask(c.Request.Context(), req.InternName, req.Task)
	if err != nil {
		fail(c, "complete_task", err)
		return
	}
	metrics.Operations.WithLabelValues("complete_task", outcome.String()).Inc()
	if outcome == records.Matched {
		h.feed.Publish(activity.TaskCompleted, req.InternName)
	}
	c.JSON(http.StatusOK, gin.H{"message": records.TaskCompletedMessage(req.InternName, outcome)})
}

// ---------- helpers ----------

func bind(c *gin.Context, op string, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		metrics.Operations.WithLabelValues(op, "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

func fail(c *gin.Context, op string, err error) {
	if errors.Is(err, records.ErrInvalidInput) {
		metrics.Operations.WithLabelValues(op, "invalid").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	metrics.Operations.WithLabelValues(op, "error").Inc()
	log.Printf("%s failed: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
