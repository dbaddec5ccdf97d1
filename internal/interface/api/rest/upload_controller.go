package rest

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"member-portal-api/config"
	"member-portal-api/internal/apperr"
	"member-portal-api/internal/application/ports"
	"member-portal-api/internal/application/services"
	"member-portal-api/internal/domain/file"
	dto "member-portal-api/internal/interface/api/rest/dto/file"
	"member-portal-api/internal/interface/api/rest/middleware"
	"member-portal-api/internal/interface/api/rest/validator"
)

// multipart overhead allowed on top of the file bytes themselves
const formOverhead = int64(1 << 20)

var (
	itemFileRe = regexp.MustCompile(`^(?:items\[(\d+)\]\.file|files\[(\d+)\]\[file\])$`)
)

type UploadController struct {
	uploadService ports.UploadService
	logger        *zap.Logger
	limits        config.Upload
}

func NewUploadController(
	r *gin.Engine,
	uploadService ports.UploadService,
	authService ports.Auth,
	logger *zap.Logger,
	limits config.Upload,
) *UploadController {
	uc := &UploadController{
		uploadService: uploadService,
		logger:        logger,
		limits:        limits,
	}

	authMW := middleware.AuthMiddleware(authService)
	r.POST(RouteUpload, authMW, uc.CreateHandler)
	r.GET(RouteUpload, authMW, uc.GetHandler)
	r.PUT(RouteUpload, authMW, uc.RenameHandler)
	r.DELETE(RouteUpload, authMW, uc.DeleteHandler)
	r.GET(RouteUploadContent, authMW, uc.ContentHandler)

	return uc
}

// formItem is one submitted file with the index the client gave it.
type formItem struct {
	index       int
	header      *multipart.FileHeader
	displayName string
}

func (uc *UploadController) CreateHandler(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, uc.logger, "upload", apperr.Unauthorized("authentication required"))
		return
	}

	maxBody := int64(uc.limits.MaxFiles)*uc.limits.MaxFileSize + formOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBody)

	form, err := c.MultipartForm()
	if err != nil {
		writeError(c, uc.logger, "upload", apperr.InvalidInput("invalid multipart form"))
		return
	}
	defer func() { _ = form.RemoveAll() }()

	submitted := collectFormItems(form)
	if len(submitted) == 0 {
		writeError(c, uc.logger, "upload", apperr.InvalidInput("at least one file is required"))
		return
	}
	if len(submitted) > uc.limits.MaxFiles {
		writeError(c, uc.logger, "upload",
			apperr.InvalidInput(fmt.Sprintf("at most %d files per upload", uc.limits.MaxFiles)))
		return
	}

	failed := make([]dto.FailedItem, 0)
	accepted := make([]formItem, 0, len(submitted))
	items := make([]file.UploadItem, 0, len(submitted))
	for _, fi := range submitted {
		if fi.header.Size > uc.limits.MaxFileSize {
			failed = append(failed, dto.FailedItem{
				Index:        fi.index,
				OriginalName: fi.header.Filename,
				Kind:         string(apperr.KindInvalidInput),
				Error:        fmt.Sprintf("file exceeds %d bytes", uc.limits.MaxFileSize),
			})
			continue
		}
		accepted = append(accepted, fi)
		items = append(items, toUploadItem(fi))
	}

	var stored dto.Files
	if len(items) > 0 {
		results, err := uc.uploadService.Create(c.Request.Context(), me.UserID, items)
		if err != nil {
			writeError(c, uc.logger, "upload", err)
			return
		}
		for _, res := range results {
			if res.Err != nil {
				failed = append(failed, dto.FailedItem{
					Index:        accepted[res.Index].index,
					OriginalName: res.Name,
					Kind:         string(apperr.KindOf(res.Err)),
					Error:        apperr.Message(res.Err),
				})
				continue
			}
			stored = append(stored, dto.ToResponseFile(*res.Record, RouteUploadContent))
		}
	}
	sort.SliceStable(failed, func(i, j int) bool { return failed[i].Index < failed[j].Index })

	switch {
	case len(failed) == 0:
		c.JSON(http.StatusCreated, dto.UploadResponse{Success: true, Files: stored})
	case len(stored) > 0:
		c.JSON(http.StatusMultiStatus, dto.UploadResponse{Success: false, Files: stored, Failed: failed})
	default:
		c.JSON(statusOf(apperr.Kind(failed[0].Kind)), gin.H{
			"error":   "no file could be stored",
			"kind":    failed[0].Kind,
			"details": failed,
		})
	}
}

// collectFormItems accepts items[i].file / items[i].displayName and the older
// files[i][file] / files[i][displayName] form. Every file part is one item; parts sharing
// a field share its displayName. Items are ordered by index, then by submission order.
func collectFormItems(form *multipart.Form) []formItem {
	out := make([]formItem, 0)
	for field, headers := range form.File {
		m := itemFileRe.FindStringSubmatch(field)
		if m == nil {
			continue
		}

		raw, nameField := m[1], "items[%d].displayName"
		if raw == "" {
			raw, nameField = m[2], "files[%d][displayName]"
		}
		idx, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}

		var displayName string
		if vals := form.Value[fmt.Sprintf(nameField, idx)]; len(vals) > 0 {
			displayName = vals[0]
		}

		for _, fh := range headers {
			out = append(out, formItem{index: idx, header: fh, displayName: displayName})
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].index < out[j].index })
	return out
}

func toUploadItem(fi formItem) file.UploadItem {
	fh := fi.header
	return file.UploadItem{
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
		OriginalName: fh.Filename,
		DisplayName:  fi.displayName,
		MimeType:     detectMimeType(fh),
		SizeBytes:    fh.Size,
	}
}

func detectMimeType(fh *multipart.FileHeader) string {
	ct := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(fh.Filename))); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

// GetHandler lists the caller's files, or returns one when ?id= is given.
func (uc *UploadController) GetHandler(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, uc.logger, "list files", apperr.Unauthorized("authentication required"))
		return
	}

	if raw, has := c.GetQuery("id"); has {
		id, err := parseFileID(raw)
		if err != nil {
			writeError(c, uc.logger, "get file", err)
			return
		}
		rec, err := uc.uploadService.Get(c.Request.Context(), me.UserID, id)
		if err != nil {
			writeError(c, uc.logger, "get file", err)
			return
		}
		c.JSON(http.StatusOK, dto.FileResponse{File: dto.ToResponseFile(*rec, RouteUploadContent)})
		return
	}

	recs, err := uc.uploadService.List(c.Request.Context(), me.UserID)
	if err != nil {
		writeError(c, uc.logger, "list files", err)
		return
	}

	c.JSON(http.StatusOK, dto.ListResponse{Files: dto.ToResponseFiles(recs, RouteUploadContent)})
}

func (uc *UploadController) RenameHandler(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, uc.logger, "rename file", apperr.Unauthorized("authentication required"))
		return
	}

	id, err := parseFileID(c.Query("id"))
	if err != nil {
		writeError(c, uc.logger, "rename file", err)
		return
	}

	var req dto.RenameRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, uc.logger, "rename file", apperr.InvalidInput("invalid request body"))
		return
	}

	rec, err := uc.uploadService.Rename(c.Request.Context(), me.UserID, id, req.DisplayName)
	if err != nil {
		writeError(c, uc.logger, "rename file", err)
		return
	}

	f := dto.ToResponseFile(*rec, RouteUploadContent)
	c.JSON(http.StatusOK, dto.MutationResponse{Success: true, Message: "File updated successfully", File: &f})
}

func (uc *UploadController) DeleteHandler(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, uc.logger, "delete file", apperr.Unauthorized("authentication required"))
		return
	}

	id, err := parseFileID(c.Query("id"))
	if err != nil {
		writeError(c, uc.logger, "delete file", err)
		return
	}

	if err := uc.uploadService.Delete(c.Request.Context(), me.UserID, id); err != nil {
		writeError(c, uc.logger, "delete file", err)
		return
	}

	c.JSON(http.StatusOK, dto.MutationResponse{Success: true, Message: "File deleted successfully"})
}

// ContentHandler streams an owned file as an attachment.
func (uc *UploadController) ContentHandler(c *gin.Context) {
	me, ok := middleware.IdentityFrom(c)
	if !ok {
		writeError(c, uc.logger, "download file", apperr.Unauthorized("authentication required"))
		return
	}

	id, err := parseFileID(c.Query("id"))
	if err != nil {
		writeError(c, uc.logger, "download file", err)
		return
	}

	rec, body, err := uc.uploadService.Open(c.Request.Context(), me.UserID, id)
	if err != nil {
		writeError(c, uc.logger, "download file", err)
		return
	}
	defer body.Close()

	contentType := rec.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": services.DownloadFileName(rec.DisplayName, rec.OriginalName),
	})

	c.DataFromReader(http.StatusOK, rec.SizeBytes, contentType, body, map[string]string{
		"Content-Disposition":    disposition,
		"X-Content-Type-Options": "nosniff",
	})
}

func parseFileID(raw string) (file.ID, error) {
	if strings.TrimSpace(raw) == "" {
		return file.ID{}, apperr.InvalidInput("id is required")
	}
	ok, id := validator.IsUUID(raw)
	if !ok {
		return file.ID{}, apperr.InvalidInput("id must be a valid UUID")
	}
	return id, nil
}
