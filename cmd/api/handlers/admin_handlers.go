package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/cmd/api/services"
)

// @Summary List posts for admin
// @Description List all posts including scheduled ones
// @Tags admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Param category query string false "Category name"
// @Param breaking query bool false "Filter by breaking flag"
// @Success 200 {object} dto.PaginationPostDTO
// @Failure 500 {object} dto.ErrorResponseDTO
// @Security BearerAuth
// @Router /admin/posts [get]
func AdminListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := svc.AdminList(c.Request.Context(), listInput(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary Get post by id
// @Tags admin
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.PostDTO
// @Failure 404 {object} dto.ErrorResponseDTO
// @Security BearerAuth
// @Router /admin/posts/{id} [get]
func AdminGetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// @Summary Create a post
// @Description Create a post written by an editor or produced by the streaming generator
// @Tags admin
// @Accept json
// @Produce json
// @Param body body dto.CreatePostRequestDTO true "Post"
// @Success 201 {object} dto.PostDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 409 {object} dto.ErrorResponseDTO
// @Security BearerAuth
// @Router /admin/posts [post]
func AdminCreatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreatePostRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		out, err := svc.Create(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	}
}

// @Summary Update a post
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param body body dto.UpdatePostRequestDTO true "Changed fields"
// @Success 200 {object} dto.PostDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO
// @Security BearerAuth
// @Router /admin/posts/{id} [put]
func AdminUpdatePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdatePostRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		out, err := svc.Update(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary Delete a post
// @Tags admin
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} dto.MessageResponseDTO
// @Failure 404 {object} dto.ErrorResponseDTO
// @Security BearerAuth
// @Router /admin/posts/{id} [delete]
func AdminDeletePostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "post deleted successfully"})
	}
}

// @Summary Toggle featured
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param body body dto.ToggleRequestDTO true "New value"
// @Success 200 {object} dto.MessageResponseDTO
// @Security BearerAuth
// @Router /admin/posts/{id}/featured [patch]
func AdminSetFeaturedHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ToggleRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := svc.SetFeatured(c.Request.Context(), c.Param("id"), *req.Value); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "featured updated"})
	}
}

// @Summary Toggle breaking news
// @Description Setting a post as breaking clears every other breaking post in one update
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param body body dto.ToggleRequestDTO true "New value"
// @Success 200 {object} dto.MessageResponseDTO
// @Security BearerAuth
// @Router /admin/posts/{id}/breaking [patch]
func AdminSetBreakingHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.ToggleRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		if err := svc.SetBreaking(c.Request.Context(), c.Param("id"), *req.Value); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "breaking updated"})
	}
}
