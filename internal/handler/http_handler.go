package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MuhammadYassa/WatchMate/internal/domain"
	"github.com/MuhammadYassa/WatchMate/internal/service"
	pkglog "github.com/MuhammadYassa/WatchMate/pkg/log"
	"github.com/MuhammadYassa/WatchMate/pkg/middleware"
	"github.com/MuhammadYassa/WatchMate/pkg/response"
)

// Error codes returned in the error envelope.
const (
	CodeSelfFollow          = "SELF_FOLLOW_ERROR"
	CodeAlreadyFollowing    = "ALREADY_FOLLOWING_ERROR"
	CodeNotFollowing        = "NOT_FOLLOWING_ERROR"
	CodeUserBlocked         = "USER_BLOCKED"
	CodeUnauthorizedRequest = "UNAUTHORIZED_FOLLOW_REQUEST_ACCESS"
	CodeUserNotFound        = "USER_NOT_FOUND"
	CodeRequestNotFound     = "FOLLOW_REQUEST_NOT_FOUND"
)

// Handler handles HTTP requests for the social graph service.
type Handler struct {
	svc            service.SocialGraphService
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(svc service.SocialGraphService, authMiddleware *middleware.AuthMiddleware) *Handler {
	return &Handler{
		svc:            svc,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes onto the Gin engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	social := r.Group("/api/v1/social", h.authMiddleware.RequireAuth())
	{
		social.POST("/follow/:user_id", h.Follow)
		social.DELETE("/follow/:user_id", h.Unfollow)
		social.GET("/follow-status/:user_id", h.GetFollowStatus)
		social.POST("/block/:user_id", h.ToggleBlock)
		social.GET("/profiles/:user_id", h.GetUserProfile)

		requests := social.Group("/follow-requests")
		{
			requests.GET("/received", h.ReceivedRequests)
			requests.GET("/sent", h.SentRequests)
			requests.POST("/:request_id/accept", h.respond(domain.RequestAccepted))
			requests.POST("/:request_id/reject", h.respond(domain.RequestRejected))
			requests.DELETE("/:request_id", h.respond(domain.RequestCanceled))
		}

		me := social.Group("/me")
		{
			me.GET("/followers", h.FollowersList)
			me.GET("/following", h.FollowingList)
			me.GET("/blocked", h.BlockedList)
			me.PUT("/privacy", h.UpdatePrivacy)
		}
	}
}

// Follow handles POST /api/v1/social/follow/:user_id.
func (h *Handler) Follow(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	status, err := h.svc.Follow(c.Request.Context(), actorID, c.Param("user_id"))
	if err != nil {
		h.writeError(c, err, "failed to follow user")
		return
	}
	response.Success(c, domain.FollowStatusResponse{FollowStatus: status})
}

// Unfollow handles DELETE /api/v1/social/follow/:user_id.
func (h *Handler) Unfollow(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	status, err := h.svc.Unfollow(c.Request.Context(), actorID, c.Param("user_id"))
	if err != nil {
		h.writeError(c, err, "failed to unfollow user")
		return
	}
	response.Success(c, domain.FollowStatusResponse{FollowStatus: status})
}

// GetFollowStatus handles GET /api/v1/social/follow-status/:user_id.
func (h *Handler) GetFollowStatus(c *gin.Context) {
	viewerID := middleware.GetUserID(c)
	status, err := h.svc.GetFollowStatus(c.Request.Context(), viewerID, c.Param("user_id"))
	if err != nil {
		h.writeError(c, err, "failed to get follow status")
		return
	}
	response.Success(c, domain.FollowStatusResponse{FollowStatus: status})
}

// ToggleBlock handles POST /api/v1/social/block/:user_id.
func (h *Handler) ToggleBlock(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	status, err := h.svc.ToggleBlock(c.Request.Context(), actorID, c.Param("user_id"))
	if err != nil {
		h.writeError(c, err, "failed to toggle block")
		return
	}
	response.Success(c, domain.FollowStatusResponse{FollowStatus: status})
}

// GetUserProfile handles GET /api/v1/social/profiles/:user_id.
// Content pages are selected with watchlist_page, watchlist_size, review_page and review_size.
func (h *Handler) GetUserProfile(c *gin.Context) {
	watchlists, ok := parsePage(c, "watchlist_page", "watchlist_size")
	if !ok {
		return
	}
	reviews, ok := parsePage(c, "review_page", "review_size")
	if !ok {
		return
	}

	viewerID := middleware.GetUserID(c)
	view, err := h.svc.GetUserProfile(c.Request.Context(), viewerID, c.Param("user_id"), service.ProfileOptions{
		Watchlists: watchlists,
		Reviews:    reviews,
	})
	if err != nil {
		h.writeError(c, err, "failed to get user profile")
		return
	}
	response.Success(c, view)
}

// respond builds the handler for one follow request decision.
func (h *Handler) respond(decision domain.FollowRequestStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID, err := strconv.ParseUint(c.Param("request_id"), 10, 64)
		if err != nil {
			response.BadRequest(c, "request_id must be a positive integer")
			return
		}

		actorID := middleware.GetUserID(c)
		res, err := h.svc.RespondToFollowRequest(c.Request.Context(), requestID, actorID, decision)
		if err != nil {
			h.writeError(c, err, "failed to respond to follow request")
			return
		}
		response.Success(c, res)
	}
}

// ReceivedRequests handles GET /api/v1/social/follow-requests/received.
func (h *Handler) ReceivedRequests(c *gin.Context) {
	page, ok := parsePage(c, "page", "size")
	if !ok {
		return
	}
	res, err := h.svc.ReceivedRequests(c.Request.Context(), middleware.GetUserID(c), page)
	if err != nil {
		h.writeError(c, err, "failed to list follow requests")
		return
	}
	response.Paged(c, res.Items, res.Page, res.Size, res.Total)
}

// SentRequests handles GET /api/v1/social/follow-requests/sent.
func (h *Handler) SentRequests(c *gin.Context) {
	page, ok := parsePage(c, "page", "size")
	if !ok {
		return
	}
	res, err := h.svc.SentRequests(c.Request.Context(), middleware.GetUserID(c), page)
	if err != nil {
		h.writeError(c, err, "failed to list follow requests")
		return
	}
	response.Paged(c, res.Items, res.Page, res.Size, res.Total)
}

// FollowersList handles GET /api/v1/social/me/followers.
func (h *Handler) FollowersList(c *gin.Context) {
	page, ok := parsePage(c, "page", "size")
	if !ok {
		return
	}
	res, err := h.svc.FollowersList(c.Request.Context(), middleware.GetUserID(c), page)
	if err != nil {
		h.writeError(c, err, "failed to list followers")
		return
	}
	response.Paged(c, res.Items, res.Page, res.Size, res.Total)
}

// FollowingList handles GET /api/v1/social/me/following.
func (h *Handler) FollowingList(c *gin.Context) {
	page, ok := parsePage(c, "page", "size")
	if !ok {
		return
	}
	res, err := h.svc.FollowingList(c.Request.Context(), middleware.GetUserID(c), page)
	if err != nil {
		h.writeError(c, err, "failed to list following")
		return
	}
	response.Paged(c, res.Items, res.Page, res.Size, res.Total)
}

// BlockedList handles GET /api/v1/social/me/blocked.
func (h *Handler) BlockedList(c *gin.Context) {
	page, ok := parsePage(c, "page", "size")
	if !ok {
		return
	}
	res, err := h.svc.BlockedList(c.Request.Context(), middleware.GetUserID(c), page)
	if err != nil {
		h.writeError(c, err, "failed to list blocked users")
		return
	}
	response.Paged(c, res.Items, res.Page, res.Size, res.Total)
}

// updatePrivacyRequest is the request body for PUT /me/privacy.
type updatePrivacyRequest struct {
	PrivacyStatus string `json:"privacy_status" binding:"required"`
}

// UpdatePrivacy handles PUT /api/v1/social/me/privacy.
func (h *Handler) UpdatePrivacy(c *gin.Context) {
	l := pkglog.Ctx(c.Request.Context())

	var req updatePrivacyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid privacy request")
		response.BadRequest(c, err.Error())
		return
	}
	status, err := domain.ParsePrivacyStatus(req.PrivacyStatus)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.UpdatePrivacy(c.Request.Context(), middleware.GetUserID(c), status)
	if err != nil {
		h.writeError(c, err, "failed to update privacy status")
		return
	}
	response.Success(c, user)
}

// parsePage reads a 0-based page and a size from the query string. Non-integers are
// rejected. A negative page is read as 0 and a size below 1 as 1; the service caps the
// size and fills in defaults for missing values.
func parsePage(c *gin.Context, pageKey, sizeKey string) (domain.PageRequest, bool) {
	var p domain.PageRequest
	if v := c.Query(pageKey); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, pageKey+" must be an integer")
			return p, false
		}
		p.Page = max(n, 0)
	}
	if v := c.Query(sizeKey); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(c, sizeKey+" must be an integer")
			return p, false
		}
		p.Size = max(n, 1)
	}
	return p, true
}

// writeError maps service errors onto the error envelope.
func (h *Handler) writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrSelfAction):
		response.Error(c, http.StatusBadRequest, CodeSelfFollow, err.Error())
	case errors.Is(err, service.ErrRequestAlreadyPending):
		response.Error(c, http.StatusConflict, CodeAlreadyFollowing, "a follow request is already pending")
	case errors.Is(err, service.ErrAlreadyFollowing):
		response.Error(c, http.StatusConflict, CodeAlreadyFollowing, err.Error())
	case errors.Is(err, service.ErrNotFollowing):
		response.Error(c, http.StatusNotFound, CodeNotFollowing, err.Error())
	case errors.Is(err, service.ErrBlocked):
		response.Error(c, http.StatusForbidden, CodeUserBlocked, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		response.Error(c, http.StatusForbidden, CodeUnauthorizedRequest, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, CodeUserNotFound, err.Error())
	case errors.Is(err, service.ErrFollowRequestNotFound):
		response.Error(c, http.StatusNotFound, CodeRequestNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidDecision), errors.Is(err, service.ErrInvalidPrivacyStatus):
		response.BadRequest(c, err.Error())
	default:
		l := pkglog.Ctx(c.Request.Context())
		l.Error().Err(err).Msg(msg)
		response.InternalError(c, msg)
	}
}
