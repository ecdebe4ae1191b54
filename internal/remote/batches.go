package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/enrichhq/enrichctl/internal/api/dto/v1/batch"
	"github.com/enrichhq/enrichctl/internal/api/mapper"
	"github.com/enrichhq/enrichctl/internal/jobs"
)

func (c *Client) ListJobs(ctx context.Context) ([]jobs.Job, error) {
	var resp []batch.Response
	if err := c.do(ctx, http.MethodGet, "/batches", nil, nil, &resp); err != nil {
		return nil, err
	}
	return mapper.JobsFromResponses(resp), nil
}

// ExportFile downloads the rendered export of a job into the export
// directory under filename.
func (c *Client) ExportFile(ctx context.Context, jobID, format, filename string) error {
	query := url.Values{}
	query.Set("format", format)
	if filename != "" {
		query.Set("filename", filename)
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/batches/"+url.PathEscape(jobID)+"/export", query, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "*/*")

	resp, err := c.send(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(c.exportDir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}

	if filename == "" {
		filename = jobID + "." + format
	}
	dest := filepath.Join(c.exportDir, filepath.Base(filename))
	tmp, err := os.CreateTemp(c.exportDir, ".export-*")
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	tmpName := tmp.Name()

	n, err := io.Copy(tmp, resp.Body)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to download export: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save export: %w", err)
	}

	c.logger.Info("Saved %s export of %s to %s (%d bytes)", format, jobID, dest, n)
	return nil
}

// PushIntegration asks the export service to push a job to a connected
// integration.
func (c *Client) PushIntegration(ctx context.Context, jobID, integration string) error {
	path := fmt.Sprintf("/batches/%s/integrations/%s", url.PathEscape(jobID), url.PathEscape(integration))
	var resp struct{}
	return c.do(ctx, http.MethodPost, path, nil, struct{}{}, &resp)
}
