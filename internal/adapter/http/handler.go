package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"lorekeeper/internal/app/action"
	"lorekeeper/internal/app/encounter"
	"lorekeeper/internal/app/ports"
	"lorekeeper/internal/app/replay"
	"lorekeeper/internal/app/rules"
	"lorekeeper/internal/app/status"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Handler struct {
	EncounterUC encounter.UseCase
	ActionUC    action.UseCase
	StatusUC    status.UseCase
	ReplayUC    replay.UseCase
	RulesUC     rules.UseCase
	KPI         kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	combatGroup := s.Group("/api/combat")
	combatGroup.POST("/start", h.start)
	combatGroup.POST("/participant", h.addParticipant)
	combatGroup.POST("/action", h.action)
	combatGroup.POST("/next-turn", h.nextTurn)
	combatGroup.POST("/end", h.end)
	combatGroup.GET("/state", h.state)
	combatGroup.GET("/replay", h.replay)

	s.GET("/rules/index.json", h.rulesIndex)
	s.GET("/rules/*filepath", h.rulesFile)
	s.GET("/ops/kpi", h.kpi)
}

func (h Handler) start(c context.Context, ctx *app.RequestContext) {
	var body encounter.StartRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.EncounterUC.Start(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusCreated, resp)
}

func (h Handler) addParticipant(c context.Context, ctx *app.RequestContext) {
	var body encounter.AddParticipantRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.EncounterUC.AddParticipant(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	var body action.Request
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.ActionUC.Execute(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) nextTurn(c context.Context, ctx *app.RequestContext) {
	var body encounter.TurnRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.EncounterUC.NextTurn(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) end(c context.Context, ctx *app.RequestContext) {
	var body encounter.EndRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.EncounterUC.End(c, body)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	encounterID := strings.TrimSpace(string(ctx.Query("encounter_id")))
	resp, err := h.StatusUC.Execute(c, status.Request{EncounterID: encounterID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	encounterID := strings.TrimSpace(string(ctx.Query("encounter_id")))
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		EncounterID:  encounterID,
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) rulesIndex(c context.Context, ctx *app.RequestContext) {
	b, err := h.RulesUC.Index(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "application/json", b)
}

func (h Handler) rulesFile(c context.Context, ctx *app.RequestContext) {
	path := strings.TrimPrefix(string(ctx.Param("filepath")), "/")
	if path == "" {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_filepath", "invalid filepath")
		return
	}

	b, err := h.RulesUC.File(c, path)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "text/plain; charset=utf-8", b)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, encounter.ErrCombatAlreadyActive):
		writeErrorBody(ctx, consts.StatusConflict, "combat_already_active", err.Error())
	case errors.Is(err, encounter.ErrAlreadyParticipant):
		writeErrorBody(ctx, consts.StatusConflict, "already_participant", err.Error())
	case errors.Is(err, encounter.ErrNoActiveCombat):
		writeErrorBody(ctx, consts.StatusConflict, "no_active_combat", err.Error())
	case action.IsConflict(err):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	case errors.Is(err, action.ErrInvalidRequest),
		errors.Is(err, encounter.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
