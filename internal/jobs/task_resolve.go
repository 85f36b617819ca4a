package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"

	"github.com/mediashelf/mediashelf/internal/models"
	"github.com/mediashelf/mediashelf/internal/resolver"
)

// ──────── Payloads ────────

type ResolveBatchPayload struct {
	BatchID string             `json:"batch_id"`
	Files   []models.MediaFile `json:"files"`
}

// EventNotifier receives progress events for connected clients.
type EventNotifier interface {
	Broadcast(event string, data interface{})
}

// ──────── Batch resolve handler ────────

type ResolveBatchHandler struct {
	resolver *resolver.Resolver
	notifier EventNotifier
}

func NewResolveBatchHandler(res *resolver.Resolver, notifier EventNotifier) *ResolveBatchHandler {
	return &ResolveBatchHandler{resolver: res, notifier: notifier}
}

func (h *ResolveBatchHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload ResolveBatchPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal resolve batch payload: %w", err)
	}

	log.Printf("Jobs: resolving batch %s (%d files)", payload.BatchID, len(payload.Files))
	h.broadcast(payload.BatchID, "running", 0, len(payload.Files))

	err := h.resolver.ResolveBatch(ctx, payload.Files, func(completed, total int) {
		h.broadcast(payload.BatchID, "running", completed, total)
	})
	if err != nil {
		h.broadcast(payload.BatchID, "failed", 0, len(payload.Files))
		return fmt.Errorf("resolve batch %s: %w", payload.BatchID, err)
	}

	h.broadcast(payload.BatchID, "complete", len(payload.Files), len(payload.Files))
	log.Printf("Jobs: batch %s complete", payload.BatchID)
	return nil
}

func (h *ResolveBatchHandler) broadcast(batchID, status string, completed, total int) {
	if h.notifier == nil {
		return
	}
	h.notifier.Broadcast("task:update", map[string]interface{}{
		"task_id":   batchID,
		"type":      TaskResolveBatch,
		"status":    status,
		"completed": completed,
		"total":     total,
	})
}

// ──────── Register all handlers ────────

func RegisterHandlers(q *Queue, res *resolver.Resolver, notifier EventNotifier) {
	q.RegisterHandler(TaskResolveBatch, NewResolveBatchHandler(res, notifier))
}
