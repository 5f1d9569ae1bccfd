package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"hero_store/internal/config"
	"hero_store/internal/domain"
	"hero_store/internal/http/dto"
	"hero_store/internal/http/resp"
	"hero_store/internal/model"
	"hero_store/internal/service/feed"
	"hero_store/internal/service/heroes"
	"hero_store/internal/sse"
)

type Handler struct {
	cfg     *config.Config
	svc     *heroes.Service
	feed    *feed.Feed
	hub     *sse.Hub
	log     *zap.Logger
	eventID atomic.Int64
}

func NewHandler(cfg *config.Config, svc *heroes.Service, changes *feed.Feed, hub *sse.Hub, logger *zap.Logger) *Handler {
	return &Handler{cfg: cfg, svc: svc, feed: changes, hub: hub, log: logger}
}

func (h *Handler) ListHeroes(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		list []model.Hero
		err  error
	)
	if term, ok := c.GetQuery("q"); ok {
		list, err = h.svc.SearchByName(ctx, term).Await(ctx)
	} else {
		list, err = h.svc.GetAll(ctx).Await(ctx)
	}
	if err != nil {
		h.failed(c, "list heroes failed", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Snapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Snapshot())
}

func (h *Handler) GetHero(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")
	hero, err := h.svc.GetByID(ctx, id).Await(ctx)
	if err != nil {
		h.failed(c, "get hero failed", err, zap.String("hero_id", id))
		return
	}
	if hero == nil {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: (&domain.NotFoundError{ID: id}).Error()})
		return
	}
	c.JSON(http.StatusOK, hero)
}

func (h *Handler) CreateHero(c *gin.Context) {
	var req dto.CreateHeroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	create := req.ToModel()
	if err := domain.ValidateCreate(create); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
		return
	}

	ctx := committed(c)
	created, err := h.svc.Create(ctx, create).Await(ctx)
	if err != nil {
		h.failed(c, "create hero failed", err, zap.String("name", create.Name))
		return
	}
	h.feed.Announce(ctx, domain.EventHeroCreated, created.ID, &created)
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateHero(c *gin.Context) {
	id := c.Param("id")
	var req dto.UpdateHeroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	patch := req.ToModel()
	if err := domain.ValidatePatch(patch); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: err.Error()})
		return
	}

	ctx := committed(c)
	updated, err := h.svc.Update(ctx, id, patch).Await(ctx)
	if err != nil {
		h.failed(c, "update hero failed", err, zap.String("hero_id", id))
		return
	}
	h.feed.Announce(ctx, domain.EventHeroUpdated, updated.ID, &updated)
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteHero(c *gin.Context) {
	ctx := committed(c)
	id := c.Param("id")
	if _, err := h.svc.Delete(ctx, id).Await(ctx); err != nil {
		h.failed(c, "delete hero failed", err, zap.String("hero_id", id))
		return
	}
	h.feed.Announce(ctx, domain.EventHeroDeleted, id, nil)
	c.Status(http.StatusNoContent)
}

func (h *Handler) ResetHeroes(c *gin.Context) {
	h.svc.ResetToInitialState()
	h.feed.Announce(c.Request.Context(), domain.EventHeroesReset, "", nil)
	c.Status(http.StatusNoContent)
}

// committed returns the context for awaiting a mutation. The effect is applied
// when the service is called, so its outcome is collected and announced even
// if the client goes away before delivery.
func committed(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

// failed maps a delivered failure to a response. NotFound is expected and
// logged at warn; anything else is an internal error.
func (h *Handler) failed(c *gin.Context, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	switch {
	case errors.Is(err, domain.ErrHeroNotFound):
		h.log.Warn(msg, fields...)
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		h.log.Warn(msg, fields...)
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Code: resp.CodeUnavailable, Message: "request cancelled"})
	default:
		h.log.Error(msg, fields...)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "internal error"})
	}
}

// Events streams change notifications. The first frame carries the current
// snapshot so an observer can render without a separate request.
func (h *Handler) Events(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	client := &sse.Client{Ch: make(chan model.HeroEvent, 16)}
	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := h.writeFrame(c.Writer, "snapshot", h.svc.Snapshot()); err != nil {
		h.log.Error("write snapshot failed", zap.Error(err))
		return
	}
	flusher.Flush()

	interval := h.cfg.SSEHeartbeat
	if interval <= 0 {
		interval = 15 * time.Second
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-heartbeat.C:
			if _, err := fmt.Fprint(c.Writer, ": ping\n\n"); err != nil {
				h.log.Error("heartbeat write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		case event, ok := <-client.Ch:
			if !ok {
				return
			}
			if err := h.writeFrame(c.Writer, "hero", event); err != nil {
				h.log.Error("write hero event failed", zap.String("type", event.Type), zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Handler) writeFrame(w http.ResponseWriter, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", h.eventID.Add(1), event, data)
	return err
}
