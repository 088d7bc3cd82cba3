package mockapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
)

const maxUploadSize = 32 << 20

func (s *Server) createShort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetURL  string `json:"target_url"`
		Domain     string `json:"domain"`
		CustomSlug string `json:"custom_slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TargetURL == "" {
		writeErr(w, http.StatusBadRequest, "target_url is required")
		return
	}
	if req.Domain == "" {
		writeErr(w, http.StatusBadRequest, "domain is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasDomain(req.Domain) {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown domain %q", req.Domain))
		return
	}
	slug := req.CustomSlug
	if slug == "" {
		slug = s.nextSlug()
	}
	s.shorts[req.Domain+"/"+slug] = shortRec{TargetURL: req.TargetURL}
	writeData(w, map[string]any{
		"short_url":   "https://" + req.Domain + "/" + slug,
		"slug":        slug,
		"custom_slug": req.CustomSlug,
	})
}

func (s *Server) updateShort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Domain    string `json:"domain"`
		Slug      string `json:"slug"`
		TargetURL string `json:"target_url"`
		Title     string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := req.Domain + "/" + req.Slug
	if _, ok := s.shorts[key]; !ok {
		writeErr(w, http.StatusNotFound, "short url not found")
		return
	}
	s.shorts[key] = shortRec{TargetURL: req.TargetURL, Title: req.Title}
	writeData(w, map[string]any{})
}

func (s *Server) deleteShort(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Domain string `json:"domain"`
		Slug   string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := req.Domain + "/" + req.Slug
	if _, ok := s.shorts[key]; !ok {
		writeErr(w, http.StatusNotFound, "short url not found")
		return
	}
	delete(s.shorts, key)
	writeData(w, map[string]any{})
}

func (s *Server) listDomains(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeData(w, map[string]any{"domains": s.domains})
}

func (s *Server) visitStat(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	slug := r.URL.Query().Get("slug")
	if domain == "" || slug == "" {
		writeErr(w, http.StatusBadRequest, "domain and slug are required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shorts[domain+"/"+slug]; !ok {
		writeErr(w, http.StatusNotFound, "short url not found")
		return
	}
	// Deterministic so client tests can assert on it.
	writeData(w, map[string]any{"visit_count": 42})
}

func (s *Server) listTags(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// The real service nests the tags payload one envelope deeper.
	writeData(w, map[string]any{
		"code":    0,
		"data":    map[string]any{"tags": s.tags},
		"message": "ok",
	})
}

func (s *Server) createText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Title   string `json:"title"`
		Domain  string `json:"domain"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Content == "" {
		writeErr(w, http.StatusBadRequest, "content is required")
		return
	}
	if req.Title == "" {
		writeErr(w, http.StatusBadRequest, "title is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	domain := req.Domain
	if domain == "" {
		domain = s.defaultDomain()
	}
	slug := s.nextSlug()
	s.texts[domain+"/"+slug] = textRec{Content: req.Content, Title: req.Title}
	writeData(w, map[string]any{
		"short_url":   "https://" + domain + "/t/" + slug,
		"slug":        slug,
		"custom_slug": "",
	})
}

func (s *Server) updateText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
		Domain  string `json:"domain"`
		Slug    string `json:"slug"`
		Title   string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := req.Domain + "/" + req.Slug
	if _, ok := s.texts[key]; !ok {
		writeErr(w, http.StatusNotFound, "text share not found")
		return
	}
	s.texts[key] = textRec{Content: req.Content, Title: req.Title}
	writeData(w, map[string]any{})
}

func (s *Server) deleteText(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Domain string `json:"domain"`
		Slug   string `json:"slug"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := req.Domain + "/" + req.Slug
	if _, ok := s.texts[key]; !ok {
		writeErr(w, http.StatusNotFound, "text share not found")
		return
	}
	delete(s.texts, key)
	writeData(w, map[string]any{})
}

func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()
	content, err := io.ReadAll(file)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "unreadable file")
		return
	}
	domain := r.FormValue("domain")

	s.mu.Lock()
	defer s.mu.Unlock()
	if domain != "" && !s.hasDomain(domain) {
		writeErr(w, http.StatusBadRequest, fmt.Sprintf("unknown domain %q", domain))
		return
	}
	slug := r.FormValue("custom_slug")
	if slug == "" {
		slug = s.nextSlug()
	}
	storeName := slug + path.Ext(header.Filename)
	hash := fmt.Sprintf("fh-%s", slug)
	rec := fileRec{
		StoreName: storeName,
		FileName:  header.Filename,
		Size:      int64(len(content)),
		FileID:    int64(len(s.files) + 1),
		Private:   r.FormValue("is_private") == "true",
		CreatedAt: time.Now().Unix(),
	}
	s.files[hash] = rec
	pageDomain := domain
	if pageDomain == "" {
		pageDomain = s.defaultDomain()
	}
	writeData(w, map[string]any{
		"storename":     storeName,
		"hash":          hash,
		"url":           "https://cdn." + s.defaultDomain() + "/" + storeName,
		"path":          "/p/" + storeName,
		"page":          "https://" + pageDomain + "/p/" + storeName,
		"filename":      header.Filename,
		"file_id":       rec.FileID,
		"size":          rec.Size,
		"created_at":    rec.CreatedAt,
		"upload_status": 1,
	})
}

func (s *Server) deleteFile(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[hash]; !ok {
		writeErr(w, http.StatusNotFound, "file not found")
		return
	}
	delete(s.files, hash)
	writeJSON(w, http.StatusOK, map[string]any{
		"code":    "0",
		"message": "ok",
		"success": true,
	})
}

func (s *Server) fileHistory(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]map[string]any, 0, len(s.files))
	for hash, rec := range s.files {
		records = append(records, map[string]any{
			"storename":  rec.StoreName,
			"hash":       hash,
			"url":        "https://cdn." + s.defaultDomain() + "/" + rec.StoreName,
			"page":       "https://" + s.defaultDomain() + "/p/" + rec.StoreName,
			"filename":   rec.FileName,
			"file_id":    rec.FileID,
			"size":       rec.Size,
			"created_at": rec.CreatedAt,
		})
	}
	writeData(w, records)
}

func (s *Server) privateDownloadURL(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("file_id")
	if fileID == "" {
		writeErr(w, http.StatusBadRequest, "file_id is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.files {
		if fmt.Sprintf("%d", rec.FileID) == fileID {
			writeData(w, map[string]any{
				"file_id":    rec.FileID,
				"url":        "https://cdn." + s.defaultDomain() + "/signed/" + rec.StoreName,
				"expires_at": time.Now().Add(time.Hour).Unix(),
			})
			return
		}
	}
	writeErr(w, http.StatusNotFound, "file not found")
}

func (s *Server) usage(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeData(w, map[string]any{
		"short_urls": len(s.shorts),
		"texts":      len(s.texts),
		"files":      len(s.files),
		"plan":       "free",
	})
}
