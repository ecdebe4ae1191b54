package handlers

import (
	"context"
	"net/http"

	"github.com/enrichhq/enrichctl/internal/api/dto/common"
	"github.com/enrichhq/enrichctl/internal/api/dto/v1/batch"
	"github.com/enrichhq/enrichctl/internal/jobs"
	"github.com/enrichhq/enrichctl/internal/notice"
	"github.com/enrichhq/enrichctl/internal/utils"

	"github.com/gin-gonic/gin"
)

// JobSnapshots provides the latest job snapshot
type JobSnapshots interface {
	Snapshot() jobs.Snapshot
	Refresh(ctx context.Context) jobs.Snapshot
}

type BatchHandler struct {
	snapshots JobSnapshots
	pageSize  int
}

func NewBatchHandler(snapshots JobSnapshots, pageSize int) *BatchHandler {
	if pageSize <= 0 {
		pageSize = jobs.DefaultPageSize
	}
	return &BatchHandler{
		snapshots: snapshots,
		pageSize:  pageSize,
	}
}

// ListBatches filters, sorts and paginates the current snapshot. Out of
// range pages are clamped rather than rejected.
func (h *BatchHandler) ListBatches(c *gin.Context) {
	var query batch.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeValidation, "Invalid query parameters")
		return
	}

	filter, sort, err := parseListQuery(query)
	if err != nil {
		utils.HandleAPIError(c, err, http.StatusBadRequest, common.ErrCodeValidation, err.Error())
		return
	}

	size := h.pageSize
	if query.PageSize > 0 {
		size = query.PageSize
	}

	utils.HandleSuccess(c, h.listResponse(h.snapshots.Snapshot(), filter, sort, query.Page, size))
}

// RefreshBatches forces a refresh and returns the first page with default
// ordering.
func (h *BatchHandler) RefreshBatches(c *gin.Context) {
	snap := h.snapshots.Refresh(c.Request.Context())
	if snap.Err != nil && snap.RefreshedAt.IsZero() {
		utils.HandleAPIError(c, snap.Err, http.StatusBadGateway, common.ErrCodeUpstream, "Job status service unavailable")
		return
	}

	utils.HandleSuccess(c, h.listResponse(snap, jobs.Filter{Status: jobs.StatusAll}, jobs.DefaultSort, 1, h.pageSize))
}

func (h *BatchHandler) listResponse(snap jobs.Snapshot, filter jobs.Filter, sort jobs.Sort, page, size int) batch.ListResponse {
	view := jobs.Apply(snap.Jobs, filter, sort)

	resp := batch.ListResponse{
		Page:        jobs.Paginate(view, page, size),
		Filter:      filter,
		Sort:        sort,
		RefreshedAt: snap.RefreshedAt,
	}
	if snap.Stale() {
		resp.Notices = append(resp.Notices, notice.Warning("Job list may be out of date: %v", snap.Err))
	}
	return resp
}

func parseListQuery(q batch.ListQuery) (jobs.Filter, jobs.Sort, error) {
	status, err := jobs.ParseStatus(q.Status)
	if err != nil {
		return jobs.Filter{}, jobs.Sort{}, err
	}

	sort := jobs.DefaultSort
	if q.SortBy != "" {
		field, err := jobs.ParseSortField(q.SortBy)
		if err != nil {
			return jobs.Filter{}, jobs.Sort{}, err
		}
		sort = jobs.Sort{Field: field, Direction: jobs.Asc}
	}
	if q.Direction != "" {
		dir, err := jobs.ParseDirection(q.Direction)
		if err != nil {
			return jobs.Filter{}, jobs.Sort{}, err
		}
		sort.Direction = dir
	}

	return jobs.Filter{SearchText: q.Search, Status: status}, sort, nil
}
