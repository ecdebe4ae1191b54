package handlers

import (
	"github.com/enrichhq/enrichctl/internal/utils"
	"github.com/enrichhq/enrichctl/internal/version"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Check(c *gin.Context) {
	utils.HandleSuccess(c, version.GetBuildInfo())
}
