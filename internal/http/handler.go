package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"campushub/internal/service"
)

// CookieConfig describes the session cookie handed out on login.
type CookieConfig struct {
	Name   string
	Path   string
	Secure bool
}

// Services groups the domain services the API depends on. Uploads may be nil.
type Services struct {
	Sessions   service.SessionService
	Profiles   service.ProfileService
	Engagement service.EngagementService
	Notices    service.NoticeService
	Forum      service.ForumService
	Resources  service.ResourceService
	Contact    service.ContactService
	Uploads    service.UploadService
}

// Options carries transport level settings.
type Options struct {
	Cookie         CookieConfig
	AllowedOrigins []string
	MaxUploadBytes int64
	Logger         *logrus.Logger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	svc     Services
	cookie  CookieConfig
	origins map[string]struct{}
	maxBody int64
	logger  *logrus.Logger
}

func NewHandler(svc Services, opts Options) *Handler {
	if opts.Cookie.Name == "" {
		opts.Cookie.Name = "sid"
	}
	if opts.Cookie.Path == "" {
		opts.Cookie.Path = "/api"
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	origins := make(map[string]struct{}, len(opts.AllowedOrigins))
	for _, o := range opts.AllowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		origins[o] = struct{}{}
	}

	return &Handler{
		svc:     svc,
		cookie:  opts.Cookie,
		origins: origins,
		maxBody: opts.MaxUploadBytes,
		logger:  opts.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestLogger(), h.corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": true})
		})

		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.POST("/auth/logout", h.logout)

		api.GET("/notices", h.listNotices)
		api.GET("/notices/:id", h.getNotice)
		api.GET("/forum", h.listPosts)
		api.GET("/forum/:id", h.getPost)
		api.GET("/forum/:id/comments", h.listComments)
		api.GET("/resources", h.listResources)
		api.POST("/contact", h.submitContact)
	}

	authed := api.Group("", h.requireAuth())
	{
		authed.GET("/me", h.getProfile)
		authed.POST("/me", h.updateProfile)
		authed.GET("/me/engagement", h.engagementState)

		authed.POST("/notices", h.createNotice)
		authed.DELETE("/notices/latest", h.deleteLatestNotice)
		authed.POST("/notices/:id/read", h.markRead)
		authed.POST("/notices/:id/upvote", h.toggleUpvote)

		authed.POST("/forum", h.createPost)
		authed.POST("/forum/:id/comments", h.addComment)
		authed.POST("/resources", h.createResource)
		authed.POST("/upload", h.upload)
	}
}
