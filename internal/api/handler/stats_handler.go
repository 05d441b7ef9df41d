package handler

import (
	"Quill/internal/pkg/response"
	"Quill/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	statsSvc service.StatsService
}

func NewStatsHandler(statsSvc service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsSvc: statsSvc,
	}
}

func (s *StatsHandler) PostStats(c *gin.Context) {
	stats, err := s.statsSvc.PostStats(c.Request.Context(), callerFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *StatsHandler) CategoryStats(c *gin.Context) {
	stats, err := s.statsSvc.CategoryStats(c.Request.Context(), callerFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *StatsHandler) TagStats(c *gin.Context) {
	stats, err := s.statsSvc.TagStats(c.Request.Context(), callerFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}
