package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"campushub/internal/domain"
)

type NoticeResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
	UpvoteCount int64  `json:"upvoteCount"`
}

type createNoticeRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

func noticeToResponse(n domain.Notice) NoticeResponse {
	return NoticeResponse{
		ID:          n.ID,
		Title:       n.Title,
		Date:        n.Date,
		Description: n.Description,
		UpvoteCount: n.UpvoteCount,
	}
}

func (h *Handler) listNotices(c *gin.Context) {
	notices, err := h.svc.Notices.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]NoticeResponse, len(notices))
	for i := range notices {
		resp[i] = noticeToResponse(notices[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getNotice(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	notice, err := h.svc.Notices.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, noticeToResponse(*notice))
}

func (h *Handler) createNotice(c *gin.Context) {
	var req createNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalidInput("malformed body"))
		return
	}

	notice, err := h.svc.Notices.Create(c.Request.Context(), identity(c), req.Title, req.Date, req.Description)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, noticeToResponse(*notice))
}

func (h *Handler) deleteLatestNotice(c *gin.Context) {
	notice, err := h.svc.Notices.DeleteLatest(c.Request.Context(), identity(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": noticeToResponse(*notice)})
}

func (h *Handler) markRead(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.svc.Engagement.MarkRead(c.Request.Context(), domain.ServerBacked(identity(c).ID), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// toggleUpvote ignores any request body; the count comes from the store.
func (h *Handler) toggleUpvote(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	res, err := h.svc.Engagement.ToggleUpvote(c.Request.Context(), domain.ServerBacked(identity(c).ID), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) engagementState(c *gin.Context) {
	state, err := h.svc.Engagement.State(c.Request.Context(), domain.ServerBacked(identity(c).ID))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (h *Handler) pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.writeError(c, invalidInput("invalid id"))
		return 0, false
	}
	return id, true
}
