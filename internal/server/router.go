package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/foliolabs/folio-api/internal/admins"
	"github.com/foliolabs/folio-api/internal/apperr"
	"github.com/foliolabs/folio-api/internal/assist"
	"github.com/foliolabs/folio-api/internal/blog"
	"github.com/foliolabs/folio-api/internal/cache"
	"github.com/foliolabs/folio-api/internal/contact"
	"github.com/foliolabs/folio-api/internal/content"
	"github.com/foliolabs/folio-api/internal/revalidate"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const adminIDContextKey = "folio_admin_id"

// Cache tags, one per public collection.
const (
	cacheTagSkills       = "skills"
	cacheTagProjects     = "projects"
	cacheTagEducation    = "education"
	cacheTagExperience   = "experience"
	cacheTagAchievements = "achievements"
	cacheTagPosts        = "posts"
)

var (
	errMissingSessionManager = errors.New("session manager dependency required")
	errMissingAdminsService  = errors.New("admins service dependency required")
	errMissingContentService = errors.New("content service dependency required")
	errMissingBlogService    = errors.New("blog service dependency required")
	errMissingContactService = errors.New("contact service dependency required")
)

// SessionGate validates the admin session cookie on a request.
type SessionGate interface {
	CookieName() string
	SessionTTL() time.Duration
	Issue(adminID string) (string, time.Time, error)
	ValidateRequest(r *http.Request) (string, error)
}

// Dependencies wires the services behind the HTTP surface.
type Dependencies struct {
	Sessions       SessionGate
	Admins         *admins.Service
	ContentService *content.Service
	BlogService    *blog.Service
	ContactService *contact.Service
	AssistService  *assist.Service
	Revalidator    *revalidate.Client
	Cache          *cache.TagCache
	AllowedOrigins []string
	Logger         *zap.Logger
}

// NewHTTPHandler assembles the public and admin routes.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Sessions == nil {
		return nil, errMissingSessionManager
	}
	if deps.Admins == nil {
		return nil, errMissingAdminsService
	}
	if deps.ContentService == nil {
		return nil, errMissingContentService
	}
	if deps.BlogService == nil {
		return nil, errMissingBlogService
	}
	if deps.ContactService == nil {
		return nil, errMissingContactService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	readCache := deps.Cache
	if readCache == nil {
		readCache = cache.NewTagCache()
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	handler := &httpHandler{
		sessions:    deps.Sessions,
		admins:      deps.Admins,
		content:     deps.ContentService,
		blog:        deps.BlogService,
		contact:     deps.ContactService,
		assist:      deps.AssistService,
		revalidator: deps.Revalidator,
		cache:       readCache,
		logger:      logger,
	}

	router.GET("/healthz", handler.handleHealth)

	public := router.Group("/api")
	public.GET("/skill-categories", handler.handleListSkillCategories)
	public.GET("/projects", handler.handleListProjects)
	public.GET("/education", handler.handleListEducation)
	public.GET("/experience", handler.handleListExperience)
	public.GET("/achievements", handler.handleListAchievements)
	public.GET("/posts", handler.handleListPublishedPosts)
	public.GET("/posts/:slug", handler.handleGetPostBySlug)
	public.POST("/contact", handler.handleContactSubmit)
	public.POST("/chat", handler.handleChat)
	public.POST("/admin/login", handler.handleLogin)

	admin := router.Group("/api/admin")
	admin.Use(handler.requireAdmin)
	admin.POST("/logout", handler.handleLogout)

	admin.GET("/skill-categories", handler.handleAdminListSkillCategories)
	admin.POST("/skill-categories", handler.handleCreateSkillCategory)
	admin.PUT("/skill-categories/:id", handler.handleUpdateSkillCategory)
	admin.DELETE("/skill-categories/:id", handler.handleDeleteSkillCategory)
	admin.POST("/skill-categories/reorder", handler.handleReorderSkillCategories)

	admin.GET("/skills", handler.handleAdminListSkills)
	admin.POST("/skills", handler.handleCreateSkill)
	admin.PUT("/skills/:id", handler.handleUpdateSkill)
	admin.DELETE("/skills/:id", handler.handleDeleteSkill)
	admin.POST("/skills/reorder", handler.handleReorderSkills)

	admin.GET("/projects", handler.handleAdminListProjects)
	admin.POST("/projects", handler.handleCreateProject)
	admin.GET("/projects/:id", handler.handleGetProject)
	admin.PUT("/projects/:id", handler.handleUpdateProject)
	admin.DELETE("/projects/:id", handler.handleDeleteProject)
	admin.POST("/projects/reorder", handler.handleReorderProjects)

	admin.GET("/education", handler.handleAdminListEducation)
	admin.POST("/education", handler.handleCreateEducation)
	admin.PUT("/education/:id", handler.handleUpdateEducation)
	admin.DELETE("/education/:id", handler.handleDeleteEducation)
	admin.POST("/education/reorder", handler.handleReorderEducation)

	admin.GET("/experience", handler.handleAdminListExperience)
	admin.POST("/experience", handler.handleCreateExperience)
	admin.PUT("/experience/:id", handler.handleUpdateExperience)
	admin.DELETE("/experience/:id", handler.handleDeleteExperience)
	admin.POST("/experience/reorder", handler.handleReorderExperience)

	admin.GET("/achievements", handler.handleAdminListAchievements)
	admin.POST("/achievements", handler.handleCreateAchievement)
	admin.PUT("/achievements/:id", handler.handleUpdateAchievement)
	admin.DELETE("/achievements/:id", handler.handleDeleteAchievement)
	admin.POST("/achievements/reorder", handler.handleReorderAchievements)

	admin.GET("/posts", handler.handleAdminListPosts)
	admin.POST("/posts", handler.handleCreatePost)
	admin.PUT("/posts/:id", handler.handleUpdatePost)
	admin.DELETE("/posts/:id", handler.handleDeletePost)

	admin.GET("/tags", handler.handleListTags)
	admin.POST("/tags", handler.handleCreateTag)
	admin.DELETE("/tags/:id", handler.handleDeleteTag)

	admin.GET("/categories", handler.handleListBlogCategories)
	admin.POST("/categories", handler.handleCreateBlogCategory)
	admin.DELETE("/categories/:id", handler.handleDeleteBlogCategory)

	admin.GET("/messages", handler.handleListMessages)
	admin.DELETE("/messages/:id", handler.handleDeleteMessage)

	admin.POST("/assist", handler.handleAssist)

	return router, nil
}

type httpHandler struct {
	sessions    SessionGate
	admins      *admins.Service
	content     *content.Service
	blog        *blog.Service
	contact     *contact.Service
	assist      *assist.Service
	revalidator *revalidate.Client
	cache       *cache.TagCache
	logger      *zap.Logger
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requireAdmin rejects requests without a valid session cookie. Anonymous
// access to a mutating endpoint never silently succeeds.
func (h *httpHandler) requireAdmin(c *gin.Context) {
	adminID, err := h.sessions.ValidateRequest(c.Request)
	if err != nil {
		h.logger.Warn("admin session rejected", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(adminIDContextKey, adminID)
	c.Next()
}

// respondError classifies a service error into the HTTP taxonomy, leaking
// no internal detail to the client.
func (h *httpHandler) respondError(c *gin.Context, err error) {
	if validationErr, ok := apperr.AsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": validationErr.Fields})
		return
	}
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}
	if errors.Is(err, apperr.ErrUnauthorized) || errors.Is(err, admins.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}

// contentChanged invalidates the read cache for the touched collection and
// fires the page revalidation hook. Hook failures are logged only; the
// mutation has already committed.
func (h *httpHandler) contentChanged(c *gin.Context, tag, path string) {
	h.cache.Invalidate(tag)
	if h.revalidator == nil || !h.revalidator.Enabled() {
		return
	}
	if err := h.revalidator.Revalidate(c.Request.Context(), path); err != nil {
		h.logger.Warn("page revalidation failed", zap.String("path", path), zap.Error(err))
	}
}
