package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	owguides "github.com/creamtown0420/ow-guides"
	"github.com/creamtown0420/ow-guides/internal/domain"
	"github.com/creamtown0420/ow-guides/internal/infra/localstore"
	"github.com/creamtown0420/ow-guides/internal/present/rest/presenter"
	"github.com/creamtown0420/ow-guides/internal/search"
	"github.com/creamtown0420/ow-guides/internal/service"
	"github.com/creamtown0420/ow-guides/internal/usecase"
)

type Handler struct {
	config     domain.Config
	codes      *usecase.CodeUsecase
	likes      *usecase.LikeUsecase
	profiles   *usecase.ProfileUsecase
	auth       *service.AuthService
	signal     *service.SignalService
	engagement *localstore.EngagementStore
	remote     bool
}

// NewHandler wires the REST surface. auth, likes and profiles are nil in
// local-only mode; remote reports which mode is active.
func NewHandler(
	config domain.Config,
	codes *usecase.CodeUsecase,
	likes *usecase.LikeUsecase,
	profiles *usecase.ProfileUsecase,
	auth *service.AuthService,
	signal *service.SignalService,
	engagement *localstore.EngagementStore,
	remote bool,
) *Handler {
	return &Handler{
		config:     config,
		codes:      codes,
		likes:      likes,
		profiles:   profiles,
		auth:       auth,
		signal:     signal,
		engagement: engagement,
		remote:     remote,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/codes", h.handleBrowse)
	e.GET("/api/v1/codes/:id", h.handleGetCode)
	e.POST("/api/v1/codes", h.handleCreateCode)
	e.PUT("/api/v1/codes/:id", h.handleUpdateCode)
	e.DELETE("/api/v1/codes/:id", h.handleDeleteCode)
	e.PUT("/api/v1/codes/:id/like", h.handleLike)
	e.DELETE("/api/v1/codes/:id/like", h.handleUnlike)
	e.GET("/api/v1/likes", h.handleLikeCounts)
	e.GET("/api/v1/likes/mine", h.handleLikedByMe)
	e.POST("/api/v1/codes/:id/copy", h.handleCopy)
	e.POST("/api/v1/codes/:id/like/local", h.handleLocalLike)
	e.GET("/api/v1/engagement", h.handleEngagement)
	e.POST("/api/v1/auth/link", h.handleAuthLink)
	e.POST("/api/v1/auth/redeem", h.handleAuthRedeem)
	e.POST("/api/v1/auth/signout", h.handleAuthSignOut)
	e.GET("/api/v1/profile", h.handleGetProfile)
	e.PUT("/api/v1/profile", h.handleSetProfile)
	e.GET("/realtime", h.handleRealtime)
}

func requesterID(ctx context.Context) string {
	id, _ := ctx.Value(domain.RequesterIdCtxKey).(string)
	return id
}

// loadEngagement assembles the ranking inputs for the active mode: copy
// counts are always this device's, likes come from the backend aggregate
// when one is connected and from the local toggles otherwise.
func (h *Handler) loadEngagement(ctx context.Context) (domain.Engagement, error) {
	eng := domain.Engagement{
		CopyCounts: h.engagement.CopyCounts(),
		Remote:     h.remote,
	}
	if h.remote {
		counts, err := h.likes.Counts(ctx)
		if err != nil {
			return domain.Engagement{}, err
		}
		eng.LikeCounts = counts
	} else {
		eng.Liked = h.engagement.LikedIDs()
	}
	return eng, nil
}

func (h *Handler) handleBrowse(c echo.Context) error {
	ctx := c.Request().Context()

	role := domain.Role(c.QueryParam("role"))
	if role != "" && !role.Valid() {
		return presenter.BadRequestMessage(c, "invalid role parameter")
	}
	mode := domain.Mode(c.QueryParam("mode"))
	if mode != "" && !mode.Valid() {
		return presenter.BadRequestMessage(c, "invalid mode parameter")
	}

	eng, err := h.loadEngagement(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}

	result, err := h.codes.Browse(ctx, usecase.BrowseInput{
		Filters: search.Filters{
			Role: role,
			Mode: mode,
			Tag:  c.QueryParam("tag"),
		},
		Query: c.QueryParam("q"),
		Sort:  domain.ParseSortKey(c.QueryParam("sort")),
	}, eng)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.OK(c, result)
}

func (h *Handler) handleGetCode(c echo.Context) error {
	ctx := c.Request().Context()

	code, err := h.codes.Get(ctx, c.Param("id"))
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.OK(c, code)
}

type codeRequest struct {
	Code        string   `json:"code"`
	Title       string   `json:"title"`
	Description string   `json:"desc"`
	Heroes      []string `json:"heroes"`
	Maps        []string `json:"maps"`
	Tags        []string `json:"tags"`
	Role        string   `json:"role"`
	Mode        string   `json:"mode"`
}

// authorFor picks the display name shown on a record: the profile name
// when one is set, otherwise the account e-mail.
func (h *Handler) authorFor(ctx context.Context, userID string) string {
	if profile, err := h.profiles.Get(ctx, userID); err == nil && profile.DisplayName != "" {
		return profile.DisplayName
	}
	if user, err := h.auth.User(ctx, userID); err == nil {
		return user.Email
	}
	return ""
}

func (h *Handler) codeInput(ctx context.Context, req codeRequest, userID string) usecase.CodeInput {
	return usecase.CodeInput{
		Code:        req.Code,
		Title:       req.Title,
		Description: req.Description,
		Heroes:      req.Heroes,
		Maps:        req.Maps,
		Tags:        req.Tags,
		Role:        domain.Role(req.Role),
		Mode:        domain.Mode(req.Mode),
		Author:      h.authorFor(ctx, userID),
	}
}

func (h *Handler) handleCreateCode(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.FromError(c, domain.ErrReadOnly)
	}

	requester := requesterID(ctx)
	if requester == "" {
		return presenter.FromError(c, domain.ErrSignInRequired)
	}

	var req codeRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	code, err := h.codes.Create(ctx, h.codeInput(ctx, req, requester), requester)
	if err != nil {
		return presenter.FromError(c, err)
	}

	h.signal.Publish(ctx, owguides.Event{
		Type:      owguides.EventCodeCreated,
		CodeID:    code.ID,
		UserID:    requester,
		Timestamp: time.Now().UTC(),
	})
	return presenter.Created(c, code)
}

func (h *Handler) handleUpdateCode(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.FromError(c, domain.ErrReadOnly)
	}

	requester := requesterID(ctx)
	if requester == "" {
		return presenter.FromError(c, domain.ErrSignInRequired)
	}

	var req codeRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	code, err := h.codes.Update(ctx, c.Param("id"), h.codeInput(ctx, req, requester), requester)
	if err != nil {
		return presenter.FromError(c, err)
	}

	h.signal.Publish(ctx, owguides.Event{
		Type:      owguides.EventCodeUpdated,
		CodeID:    code.ID,
		UserID:    requester,
		Timestamp: time.Now().UTC(),
	})
	return presenter.OK(c, code)
}

func (h *Handler) handleDeleteCode(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.FromError(c, domain.ErrReadOnly)
	}

	requester := requesterID(ctx)
	if requester == "" {
		return presenter.FromError(c, domain.ErrSignInRequired)
	}

	id := c.Param("id")
	if err := h.codes.Delete(ctx, id, requester); err != nil {
		return presenter.FromError(c, err)
	}

	h.signal.Publish(ctx, owguides.Event{
		Type:      owguides.EventCodeDeleted,
		CodeID:    id,
		UserID:    requester,
		Timestamp: time.Now().UTC(),
	})
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleLike(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.FromError(c, domain.ErrReadOnly)
	}

	requester := requesterID(ctx)
	id := c.Param("id")
	if err := h.likes.Like(ctx, requester, id); err != nil {
		return presenter.FromError(c, err)
	}

	h.signal.Publish(ctx, owguides.Event{
		Type:      owguides.EventLikeChanged,
		CodeID:    id,
		UserID:    requester,
		Timestamp: time.Now().UTC(),
	})
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleUnlike(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.FromError(c, domain.ErrReadOnly)
	}

	requester := requesterID(ctx)
	id := c.Param("id")
	if err := h.likes.Unlike(ctx, requester, id); err != nil {
		return presenter.FromError(c, err)
	}

	h.signal.Publish(ctx, owguides.Event{
		Type:      owguides.EventLikeChanged,
		CodeID:    id,
		UserID:    requester,
		Timestamp: time.Now().UTC(),
	})
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleLikeCounts(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.OK(c, map[string]int{})
	}

	counts, err := h.likes.Counts(ctx)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, counts)
}

func (h *Handler) handleLikedByMe(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.FromError(c, domain.ErrReadOnly)
	}

	ids, err := h.likes.Liked(ctx, requesterID(ctx))
	if err != nil {
		return presenter.FromError(c, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return presenter.OK(c, ids)
}

func (h *Handler) handleCopy(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if _, err := h.codes.Get(ctx, id); err != nil {
		return presenter.FromError(c, err)
	}

	count, err := h.engagement.IncrementCopy(id)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"id": id, "copies": count})
}

func (h *Handler) handleLocalLike(c echo.Context) error {
	ctx := c.Request().Context()

	id := c.Param("id")
	if _, err := h.codes.Get(ctx, id); err != nil {
		return presenter.FromError(c, err)
	}

	liked, err := h.engagement.ToggleLike(id)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	return presenter.OK(c, echo.Map{"id": id, "liked": liked})
}

func (h *Handler) handleEngagement(c echo.Context) error {
	return presenter.OK(c, echo.Map{
		"copyCounts": h.engagement.CopyCounts(),
		"liked":      h.engagement.LikedIDs(),
		"remote":     h.remote,
	})
}

func (h *Handler) handleAuthLink(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.FromError(c, domain.ErrReadOnly)
	}

	var req owguides.LoginLinkRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.auth.RequestLink(ctx, req.Email); err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleAuthRedeem(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.FromError(c, domain.ErrReadOnly)
	}

	var req owguides.RedeemRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	session, err := h.auth.Redeem(ctx, req.Token)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.OK(c, session)
}

func (h *Handler) handleAuthSignOut(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.FromError(c, domain.ErrReadOnly)
	}

	authHeader := c.Request().Header.Get("authorization")
	split := strings.Split(authHeader, " ")
	if len(split) != 2 || split[0] != "Bearer" {
		return presenter.Unauthorized(c, "sign-in required")
	}

	if err := h.auth.SignOut(ctx, split[1]); err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleGetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.FromError(c, domain.ErrReadOnly)
	}

	profile, err := h.profiles.Get(ctx, requesterID(ctx))
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.OK(c, profile)
}

type profileRequest struct {
	DisplayName string `json:"displayName"`
}

func (h *Handler) handleSetProfile(c echo.Context) error {
	ctx := c.Request().Context()
	if !h.remote {
		return presenter.FromError(c, domain.ErrReadOnly)
	}

	var req profileRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	profile, err := h.profiles.Set(ctx, requesterID(ctx), req.DisplayName)
	if err != nil {
		return presenter.FromError(c, err)
	}
	return presenter.OK(c, profile)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type  string   `json:"type"`
	Types []string `json:"types"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer func() {
		ws.Close()
	}()

	// Teardown is signalled by cancelling ctx; Realtime owns output and
	// closes it on exit, so no channel is ever closed under a sender.
	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	input := make(chan []string)
	output := make(chan owguides.Event)

	go h.signal.Realtime(ctx, input, output)

	go func() {
		for {
			var req realtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {

				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}

				cancel()
				return
			}

			switch req.Type {
			case "listen":
				select {
				case input <- req.Types:
				case <-ctx.Done():
					return
				}
				slog.DebugContext(
					ctx, fmt.Sprintf("Socket subscribe: %s", req.Types),
					slog.String("module", "socket"),
				)
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-output:
			if !ok {
				return nil
			}
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}
