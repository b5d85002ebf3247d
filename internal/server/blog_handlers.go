package server

import (
	"net/http"
	"strconv"

	"github.com/foliolabs/folio-api/internal/blog"
	"github.com/gin-gonic/gin"
)

func (h *httpHandler) handleListPublishedPosts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	// Only the first default page is cached; deeper pages go to the
	// database directly.
	cacheable := page <= 1 && limit <= 0
	if cacheable {
		if cached, ok := h.cache.Get(cacheTagPosts); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.blog.ListPublished(c.Request.Context(), page, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if cacheable {
		h.cache.Set(cacheTagPosts, result)
	}
	c.JSON(http.StatusOK, result)
}

func (h *httpHandler) handleGetPostBySlug(c *gin.Context) {
	post, err := h.blog.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *httpHandler) handleAdminListPosts(c *gin.Context) {
	posts, err := h.blog.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *httpHandler) handleCreatePost(c *gin.Context) {
	var input blog.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	post, err := h.blog.CreatePost(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagPosts, "/blog")
	c.JSON(http.StatusCreated, post)
}

func (h *httpHandler) handleUpdatePost(c *gin.Context) {
	var input blog.PostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	post, err := h.blog.UpdatePost(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagPosts, "/blog")
	c.JSON(http.StatusOK, post)
}

func (h *httpHandler) handleDeletePost(c *gin.Context) {
	if err := h.blog.DeletePost(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagPosts, "/blog")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type namedRequestPayload struct {
	Name string `json:"name"`
}

func (h *httpHandler) handleListTags(c *gin.Context) {
	tags, err := h.blog.ListTags(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *httpHandler) handleCreateTag(c *gin.Context) {
	var request namedRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	tag, err := h.blog.CreateTag(c.Request.Context(), request.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func (h *httpHandler) handleDeleteTag(c *gin.Context) {
	if err := h.blog.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagPosts, "/blog")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *httpHandler) handleListBlogCategories(c *gin.Context) {
	categories, err := h.blog.ListCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *httpHandler) handleCreateBlogCategory(c *gin.Context) {
	var request namedRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	category, err := h.blog.CreateCategory(c.Request.Context(), request.Name)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *httpHandler) handleDeleteBlogCategory(c *gin.Context) {
	if err := h.blog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagPosts, "/blog")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
