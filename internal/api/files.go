package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
)

type UploadRequest struct {
	ProjectID string
	TaskID    string
	FileType  string
	FileName  string
	Content   io.Reader
}

type UploadResult struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	URL          string `json:"url"`
}

// Files lists uploaded files, optionally filtered to one project.
func (c *Client) Files(ctx context.Context, projectID string) ([]File, error) {
	var q url.Values
	if projectID != "" {
		q = url.Values{"project_id": {projectID}}
	}
	var out []File
	if err := c.get(ctx, "/files", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadFile sends a multipart upload (project_id, task_id, file_type, file).
// The body is buffered through a pipe so large files never load fully into
// memory on this side.
func (c *Client) UploadFile(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	if req.Content == nil {
		return nil, fmt.Errorf("api: upload: content is required")
	}
	if req.FileName == "" {
		return nil, fmt.Errorf("api: upload: file name is required")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		err := writeUploadForm(mw, req)
		if cerr := mw.Close(); err == nil {
			err = cerr
		}
		pw.CloseWithError(err)
	}()

	var out UploadResult
	if err := c.do(ctx, "POST", "/files/upload", nil, pr, mw.FormDataContentType(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func writeUploadForm(mw *multipart.Writer, req UploadRequest) error {
	if req.ProjectID != "" {
		if err := mw.WriteField("project_id", req.ProjectID); err != nil {
			return err
		}
	}
	if req.TaskID != "" {
		if err := mw.WriteField("task_id", req.TaskID); err != nil {
			return err
		}
	}
	if req.FileType != "" {
		if err := mw.WriteField("file_type", req.FileType); err != nil {
			return err
		}
	}
	part, err := mw.CreateFormFile("file", req.FileName)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, req.Content)
	return err
}

func (c *Client) DeleteFile(ctx context.Context, id string) error {
	return c.del(ctx, "/files/"+url.PathEscape(id))
}
