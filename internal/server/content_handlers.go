package server

import (
	"net/http"

	"github.com/foliolabs/folio-api/internal/content"
	"github.com/gin-gonic/gin"
)

type reorderRequestPayload struct {
	ItemID      string `json:"item_id"`
	TargetIndex *int   `json:"target_index"`
	CategoryID  string `json:"category_id"`
}

func (h *httpHandler) handleReorder(c *gin.Context, scope content.ReorderScope, tag, path string) {
	var request reorderRequestPayload
	if err := c.ShouldBindJSON(&request); err != nil || request.ItemID == "" || request.TargetIndex == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	if scope.Kind == content.ScopeSkills {
		scope.CategoryID = request.CategoryID
	}
	if err := h.content.Reorder(c.Request.Context(), scope, request.ItemID, *request.TargetIndex); err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, tag, path)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *httpHandler) handleListSkillCategories(c *gin.Context) {
	if cached, ok := h.cache.Get(cacheTagSkills); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	categories, err := h.content.ListSkillCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.cache.Set(cacheTagSkills, categories)
	c.JSON(http.StatusOK, categories)
}

func (h *httpHandler) handleAdminListSkillCategories(c *gin.Context) {
	categories, err := h.content.ListSkillCategories(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *httpHandler) handleCreateSkillCategory(c *gin.Context) {
	var input content.SkillCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	category, err := h.content.CreateSkillCategory(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagSkills, "/")
	c.JSON(http.StatusCreated, category)
}

func (h *httpHandler) handleUpdateSkillCategory(c *gin.Context) {
	var input content.SkillCategoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	category, err := h.content.UpdateSkillCategory(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagSkills, "/")
	c.JSON(http.StatusOK, category)
}

func (h *httpHandler) handleDeleteSkillCategory(c *gin.Context) {
	if err := h.content.DeleteSkillCategory(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagSkills, "/")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *httpHandler) handleReorderSkillCategories(c *gin.Context) {
	h.handleReorder(c, content.ReorderScope{Kind: content.ScopeSkillCategories}, cacheTagSkills, "/")
}

func (h *httpHandler) handleAdminListSkills(c *gin.Context) {
	skills, err := h.content.ListSkills(c.Request.Context(), c.Query("category_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, skills)
}

func (h *httpHandler) handleCreateSkill(c *gin.Context) {
	var input content.SkillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	skill, err := h.content.CreateSkill(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagSkills, "/")
	c.JSON(http.StatusCreated, skill)
}

func (h *httpHandler) handleUpdateSkill(c *gin.Context) {
	var input content.SkillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	skill, err := h.content.UpdateSkill(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagSkills, "/")
	c.JSON(http.StatusOK, skill)
}

func (h *httpHandler) handleDeleteSkill(c *gin.Context) {
	if err := h.content.DeleteSkill(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagSkills, "/")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *httpHandler) handleReorderSkills(c *gin.Context) {
	h.handleReorder(c, content.ReorderScope{Kind: content.ScopeSkills}, cacheTagSkills, "/")
}

func (h *httpHandler) handleListProjects(c *gin.Context) {
	if cached, ok := h.cache.Get(cacheTagProjects); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	projects, err := h.content.ListProjects(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.cache.Set(cacheTagProjects, projects)
	c.JSON(http.StatusOK, projects)
}

func (h *httpHandler) handleAdminListProjects(c *gin.Context) {
	projects, err := h.content.ListProjects(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

func (h *httpHandler) handleGetProject(c *gin.Context) {
	project, err := h.content.GetProject(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (h *httpHandler) handleCreateProject(c *gin.Context) {
	var input content.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	project, err := h.content.CreateProject(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagProjects, "/")
	c.JSON(http.StatusCreated, project)
}

func (h *httpHandler) handleUpdateProject(c *gin.Context) {
	var input content.ProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	project, err := h.content.UpdateProject(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagProjects, "/")
	c.JSON(http.StatusOK, project)
}

func (h *httpHandler) handleDeleteProject(c *gin.Context) {
	if err := h.content.DeleteProject(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagProjects, "/")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *httpHandler) handleReorderProjects(c *gin.Context) {
	h.handleReorder(c, content.ReorderScope{Kind: content.ScopeProjects}, cacheTagProjects, "/")
}

func (h *httpHandler) handleListEducation(c *gin.Context) {
	if cached, ok := h.cache.Get(cacheTagEducation); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	entries, err := h.content.ListEducation(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.cache.Set(cacheTagEducation, entries)
	c.JSON(http.StatusOK, entries)
}

func (h *httpHandler) handleAdminListEducation(c *gin.Context) {
	entries, err := h.content.ListEducation(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *httpHandler) handleCreateEducation(c *gin.Context) {
	var input content.EducationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	entry, err := h.content.CreateEducation(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagEducation, "/")
	c.JSON(http.StatusCreated, entry)
}

func (h *httpHandler) handleUpdateEducation(c *gin.Context) {
	var input content.EducationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	entry, err := h.content.UpdateEducation(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagEducation, "/")
	c.JSON(http.StatusOK, entry)
}

func (h *httpHandler) handleDeleteEducation(c *gin.Context) {
	if err := h.content.DeleteEducation(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagEducation, "/")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *httpHandler) handleReorderEducation(c *gin.Context) {
	h.handleReorder(c, content.ReorderScope{Kind: content.ScopeEducation}, cacheTagEducation, "/")
}

func (h *httpHandler) handleListExperience(c *gin.Context) {
	if cached, ok := h.cache.Get(cacheTagExperience); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	entries, err := h.content.ListExperience(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.cache.Set(cacheTagExperience, entries)
	c.JSON(http.StatusOK, entries)
}

func (h *httpHandler) handleAdminListExperience(c *gin.Context) {
	entries, err := h.content.ListExperience(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *httpHandler) handleCreateExperience(c *gin.Context) {
	var input content.ExperienceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	entry, err := h.content.CreateExperience(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagExperience, "/")
	c.JSON(http.StatusCreated, entry)
}

func (h *httpHandler) handleUpdateExperience(c *gin.Context) {
	var input content.ExperienceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	entry, err := h.content.UpdateExperience(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagExperience, "/")
	c.JSON(http.StatusOK, entry)
}

func (h *httpHandler) handleDeleteExperience(c *gin.Context) {
	if err := h.content.DeleteExperience(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagExperience, "/")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *httpHandler) handleReorderExperience(c *gin.Context) {
	h.handleReorder(c, content.ReorderScope{Kind: content.ScopeExperience}, cacheTagExperience, "/")
}

func (h *httpHandler) handleListAchievements(c *gin.Context) {
	if cached, ok := h.cache.Get(cacheTagAchievements); ok {
		c.JSON(http.StatusOK, cached)
		return
	}
	achievements, err := h.content.ListAchievements(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.cache.Set(cacheTagAchievements, achievements)
	c.JSON(http.StatusOK, achievements)
}

func (h *httpHandler) handleAdminListAchievements(c *gin.Context) {
	achievements, err := h.content.ListAchievements(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, achievements)
}

func (h *httpHandler) handleCreateAchievement(c *gin.Context) {
	var input content.AchievementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	achievement, err := h.content.CreateAchievement(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagAchievements, "/")
	c.JSON(http.StatusCreated, achievement)
}

func (h *httpHandler) handleUpdateAchievement(c *gin.Context) {
	var input content.AchievementInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}
	achievement, err := h.content.UpdateAchievement(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagAchievements, "/")
	c.JSON(http.StatusOK, achievement)
}

func (h *httpHandler) handleDeleteAchievement(c *gin.Context) {
	if err := h.content.DeleteAchievement(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	h.contentChanged(c, cacheTagAchievements, "/")
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *httpHandler) handleReorderAchievements(c *gin.Context) {
	h.handleReorder(c, content.ReorderScope{Kind: content.ScopeAchievements}, cacheTagAchievements, "/")
}
