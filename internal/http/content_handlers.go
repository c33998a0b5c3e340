package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campushub/internal/domain"
)

type PostResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

type CommentResponse struct {
	ID        int64  `json:"id"`
	Body      string `json:"body"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

type ResourceResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

type createPostRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type createCommentRequest struct {
	Body string `json:"body"`
}

type createResourceRequest struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

func postToResponse(p domain.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		Author:    p.AuthorName,
		CreatedAt: p.CreatedAt.Format(time.RFC3339),
	}
}

func commentToResponse(cm domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        cm.ID,
		Body:      cm.Body,
		Author:    cm.AuthorName,
		CreatedAt: cm.CreatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.svc.Forum.ListPosts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]PostResponse, len(posts))
	for i := range posts {
		resp[i] = postToResponse(posts[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	post, err := h.svc.Forum.GetPost(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, postToResponse(*post))
}

func (h *Handler) createPost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalidInput("malformed body"))
		return
	}

	post, err := h.svc.Forum.CreatePost(c.Request.Context(), identity(c), req.Title, req.Body)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, postToResponse(*post))
}

func (h *Handler) listComments(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	comments, err := h.svc.Forum.ListComments(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]CommentResponse, len(comments))
	for i := range comments {
		resp[i] = commentToResponse(comments[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) addComment(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalidInput("malformed body"))
		return
	}

	comment, err := h.svc.Forum.AddComment(c.Request.Context(), identity(c), id, req.Body)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, commentToResponse(*comment))
}

func (h *Handler) listResources(c *gin.Context) {
	resources, err := h.svc.Resources.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	resp := make([]ResourceResponse, len(resources))
	for i, r := range resources {
		resp[i] = ResourceResponse{ID: r.ID, Title: r.Title, URL: r.URL}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) createResource(c *gin.Context) {
	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalidInput("malformed body"))
		return
	}

	r, err := h.svc.Resources.Create(c.Request.Context(), identity(c), req.Title, req.URL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ResourceResponse{ID: r.ID, Title: r.Title, URL: r.URL})
}

func (h *Handler) submitContact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, invalidInput("malformed body"))
		return
	}

	if err := h.svc.Contact.Submit(c.Request.Context(), req.Name, req.Email, req.Message); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Message received!"})
}

func (h *Handler) upload(c *gin.Context) {
	if h.svc.Uploads == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable", "message": "storage service not configured"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody)
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too_large", "message": "file too large"})
			return
		}
		h.writeError(c, invalidInput("no file uploaded"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer f.Close()

	loc, err := h.svc.Uploads.Upload(c.Request.Context(), identity(c), fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": loc})
}
