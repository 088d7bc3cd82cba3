package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"seeshare/pkg/domain"
)

type UploadReq struct {
	FileName   string
	Content    []byte
	Domain     string
	CustomSlug string
	Private    bool
}

// fileData is the server's upload/listing record. Uploads are
// normalized into domain.UploadResult; listings keep the full record.
type fileData struct {
	StoreName    string `json:"storename"`
	Hash         string `json:"hash"`
	URL          string `json:"url"`
	Path         string `json:"path"`
	Page         string `json:"page"`
	FileName     string `json:"filename"`
	FileID       int64  `json:"file_id"`
	Size         int64  `json:"size"`
	CreatedAt    int64  `json:"created_at"`
	Delete       string `json:"delete"`
	UploadStatus int    `json:"upload_status"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// FileRecord is one entry of the remote file history.
type FileRecord struct {
	StoreName string
	Hash      string
	URL       string
	Page      string
	FileName  string
	FileID    int64
	Size      int64
	CreatedAt int64
}

// UploadFile is the one multipart operation; everything else speaks
// JSON.
func (c *Client) UploadFile(ctx context.Context, req UploadReq) (*domain.UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, errors.Wrap(err, "create multipart file field")
	}
	if _, err := part.Write(req.Content); err != nil {
		return nil, errors.Wrap(err, "write multipart content")
	}
	if req.Domain != "" {
		if err := w.WriteField("domain", req.Domain); err != nil {
			return nil, errors.Wrap(err, "write domain field")
		}
	}
	if req.CustomSlug != "" {
		if err := w.WriteField("custom_slug", req.CustomSlug); err != nil {
			return nil, errors.Wrap(err, "write custom_slug field")
		}
	}
	if req.Private {
		if err := w.WriteField("is_private", "true"); err != nil {
			return nil, errors.Wrap(err, "write is_private field")
		}
	}
	if err := w.Close(); err != nil {
		return nil, errors.Wrap(err, "finalize multipart body")
	}

	env, err := c.send(ctx, http.MethodPost, "/file/upload", &buf, w.FormDataContentType())
	if err != nil {
		return nil, err
	}
	var data fileData
	if err := decodeData(env, &data); err != nil {
		return nil, err
	}
	return &domain.UploadResult{
		StoreName: data.StoreName,
		Hash:      data.Hash,
		DirectURL: data.URL,
		PageURL:   data.Page,
		Path:      data.Path,
	}, nil
}

func (c *Client) DeleteFile(ctx context.Context, hash string) error {
	env, err := c.do(ctx, http.MethodGet, "/file/delete/"+url.PathEscape(hash), nil)
	if err != nil {
		return err
	}
	if env.Success != nil && !*env.Success {
		return domain.APIErr(http.StatusOK, "server refused file deletion")
	}
	return nil
}

func (c *Client) FileDomains(ctx context.Context) ([]string, error) {
	var out domainsData
	if err := c.get(ctx, "/file/domains", &out); err != nil {
		return nil, err
	}
	return out.Domains, nil
}

// FileHistory fetches one page of the server-side upload history.
func (c *Client) FileHistory(ctx context.Context, page int) ([]FileRecord, error) {
	if page < 1 {
		page = 1
	}
	var raw []fileData
	if err := c.get(ctx, "/files?page="+strconv.Itoa(page), &raw); err != nil {
		return nil, err
	}
	records := make([]FileRecord, 0, len(raw))
	for _, d := range raw {
		records = append(records, FileRecord{
			StoreName: d.StoreName,
			Hash:      d.Hash,
			URL:       d.URL,
			Page:      d.Page,
			FileName:  d.FileName,
			FileID:    d.FileID,
			Size:      d.Size,
			CreatedAt: d.CreatedAt,
		})
	}
	return records, nil
}

// PrivateDownloadURL returns a signed, expiring download URL for a
// private upload.
func (c *Client) PrivateDownloadURL(ctx context.Context, fileID int64) (string, error) {
	var out struct {
		FileID    int64  `json:"file_id"`
		URL       string `json:"url"`
		ExpiresAt int64  `json:"expires_at"`
	}
	path := "/file/private/download-url?file_id=" + strconv.FormatInt(fileID, 10)
	if err := c.get(ctx, path, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}
