package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/cmd/api/services"
	"portal-noticias/generator"
	"portal-noticias/models"
)

func parseBoolQuery(c *gin.Context, key string) *bool {
	if v := c.Query(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return &b
		}
	}
	return nil
}

func listInput(c *gin.Context) services.ListPostsInput {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return services.ListPostsInput{
		Page:     page,
		PageSize: pageSize,
		Category: c.Query("category"),
		Featured: parseBoolQuery(c, "featured"),
		Breaking: parseBoolQuery(c, "breaking"),
		Query:    c.Query("q"),
	}
}

// ListPostsHandler godoc
// @Summary      List posts
// @Description  List published posts with filters and pagination
// @Tags         posts
// @Param        page       query  int     false  "Page number (1-based)"
// @Param        page_size  query  int     false  "Page size (<=100)"
// @Param        category   query  string  false  "Category name"
// @Param        featured   query  bool    false  "Only featured posts"
// @Param        q          query  string  false  "Full text search"
// @Produce      json
// @Success      200  {object}  dto.PaginationPostDTO
// @Failure      500  {object}  dto.ErrorResponseDTO
// @Router       /posts [get]
func ListPostsHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.List(c.Request.Context(), listInput(c))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

// GetPostHandler godoc
// @Summary      Get post by slug
// @Tags         posts
// @Param        slug  path  string  true  "Post slug"
// @Produce      json
// @Success      200  {object}  dto.PostDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{slug} [get]
func GetPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.GetBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// BreakingPostHandler godoc
// @Summary      Current breaking news
// @Description  Returns the single breaking post, or 204 when there is none
// @Tags         posts
// @Produce      json
// @Success      200  {object}  dto.PostDTO
// @Success      204
// @Router       /posts/breaking [get]
func BreakingPostHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		post, err := svc.Breaking(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		if post == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, post)
	}
}

// IncrementPostViewCountHandler godoc
// @Summary      Increment post view count
// @Tags         posts
// @Param        slug  path  string  true  "Post slug"
// @Produce      json
// @Success      200  {object}  dto.MessageResponseDTO
// @Failure      404  {object}  dto.ErrorResponseDTO
// @Router       /posts/{slug}/view [post]
func IncrementPostViewCountHandler(svc *services.PostService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.IncrementViewCount(c.Request.Context(), c.Param("slug")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "view count incremented successfully"})
	}
}

// ListCategoriesHandler godoc
// @Summary      List categories
// @Tags         posts
// @Produce      json
// @Success      200  {array}  dto.CategoryDTO
// @Router       /categories [get]
func ListCategoriesHandler() gin.HandlerFunc {
	out := make([]dto.CategoryDTO, 0, len(models.AllCategories))
	for _, cat := range models.AllCategories {
		out = append(out, dto.CategoryDTO{Name: string(cat), Slug: generator.Slugify(string(cat))})
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, out)
	}
}
