package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/cmd/api/middleware"
	"portal-noticias/cmd/api/services"
	"portal-noticias/collector"
	"portal-noticias/models"
)

// runTimeout 은 수집 한 번의 상한이다. 호출자가 끊어도 실행은 이 시간까지 계속된다.
const runTimeout = 10 * time.Minute

// @Summary Run one collection
// @Description Invoked by cron (Bearer CRON_SECRET) or by an admin "run now" button
// @Tags collection
// @Produce json
// @Success 200 {object} collector.RunResult
// @Failure 401 {object} dto.ErrorResponseDTO
// @Failure 500 {object} dto.ErrorResponseDTO
// @Security BearerAuth
// @Router /collect [post]
func CollectHandler(runner collector.Runner) gin.HandlerFunc {
	return func(c *gin.Context) {
		trigger := models.TriggerManual
		if c.GetString(middleware.ContextSubject) == "cron" {
			trigger = models.TriggerCron
		}
		ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request.Context()), runTimeout)
		defer cancel()

		res, err := runner.Run(ctx, trigger)
		if err != nil {
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// @Summary List collection logs
// @Tags collection
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} dto.PaginationCollectionLogDTO
// @Security BearerAuth
// @Router /admin/collection/logs [get]
func ListCollectionLogsHandler(svc *services.CollectionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
		resp, err := svc.Logs(c.Request.Context(), page, pageSize)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// @Summary List collection config rows
// @Tags collection
// @Produce json
// @Param type query string false "site | topic | time_filter | schedule_interval | feed"
// @Success 200 {array} dto.CollectionConfigDTO
// @Security BearerAuth
// @Router /admin/collection/config [get]
func ListCollectionConfigHandler(svc *services.CollectionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svc.ListConfig(c.Request.Context(), c.Query("type"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// @Summary Create collection config row
// @Tags collection
// @Accept json
// @Produce json
// @Param body body dto.CreateCollectionConfigRequestDTO true "Row"
// @Success 201 {object} dto.CollectionConfigDTO
// @Failure 400 {object} dto.ErrorResponseDTO
// @Security BearerAuth
// @Router /admin/collection/config [post]
func CreateCollectionConfigHandler(svc *services.CollectionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.CreateCollectionConfigRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		row, err := svc.CreateConfig(c.Request.Context(), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, row)
	}
}

// @Summary Update collection config row
// @Tags collection
// @Accept json
// @Produce json
// @Param id path string true "Row ID"
// @Param body body dto.UpdateCollectionConfigRequestDTO true "Changed fields"
// @Success 200 {object} dto.CollectionConfigDTO
// @Security BearerAuth
// @Router /admin/collection/config/{id} [patch]
func UpdateCollectionConfigHandler(svc *services.CollectionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.UpdateCollectionConfigRequestDTO
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
		row, err := svc.UpdateConfig(c.Request.Context(), c.Param("id"), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, row)
	}
}

// @Summary Delete collection config row
// @Tags collection
// @Produce json
// @Param id path string true "Row ID"
// @Success 200 {object} dto.MessageResponseDTO
// @Security BearerAuth
// @Router /admin/collection/config/{id} [delete]
func DeleteCollectionConfigHandler(svc *services.CollectionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteConfig(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.MessageResponseDTO{Message: "config deleted"})
	}
}
