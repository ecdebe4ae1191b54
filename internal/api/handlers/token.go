package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/enrichhq/enrichctl/internal/api/dto/common"
	"github.com/enrichhq/enrichctl/internal/credential"
	"github.com/enrichhq/enrichctl/internal/utils"

	"github.com/gin-gonic/gin"
)

// TokenStore is the credential store as seen by the dashboard
type TokenStore interface {
	List(ctx context.Context) credential.ListResult
	Create(ctx context.Context) (credential.CreateResult, error)
	Revoke(ctx context.Context, id string) credential.RevokeResult
}

type TokenHandler struct {
	store TokenStore
}

func NewTokenHandler(store TokenStore) *TokenHandler {
	return &TokenHandler{
		store: store,
	}
}

// ListTokens always answers 200; a degraded list carries a warning notice.
func (h *TokenHandler) ListTokens(c *gin.Context) {
	utils.HandleSuccess(c, h.store.List(c.Request.Context()))
}

func (h *TokenHandler) CreateToken(c *gin.Context) {
	result, err := h.store.Create(c.Request.Context())
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusInternalServerError, common.ErrCodeInternalServer, "Failed to create token")
		return
	}

	utils.HandleCreated(c, result)
}

// RevokeToken is idempotent: revoking an unknown id still answers 200.
func (h *TokenHandler) RevokeToken(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		utils.HandleAPIError(c, nil, http.StatusBadRequest, common.ErrCodeValidation, "Token id is required")
		return
	}

	utils.HandleSuccess(c, h.store.Revoke(c.Request.Context(), id))
}
