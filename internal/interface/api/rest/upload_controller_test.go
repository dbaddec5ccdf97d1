package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"member-portal-api/config"
	"member-portal-api/internal/apperr"
	"member-portal-api/internal/application/ports"
	"member-portal-api/internal/domain/file"
	"member-portal-api/internal/domain/identity"
	dto "member-portal-api/internal/interface/api/rest/dto/file"
)

type FakeUploadService struct {
	CreateFunc func(ctx context.Context, ownerID uuid.UUID, items []file.UploadItem) (file.ItemResults, error)
	ListFunc   func(ctx context.Context, ownerID uuid.UUID) (file.Records, error)
	GetFunc    func(ctx context.Context, ownerID uuid.UUID, id file.ID) (*file.Record, error)
	RenameFunc func(ctx context.Context, ownerID uuid.UUID, id file.ID, displayName string) (*file.Record, error)
	DeleteFunc func(ctx context.Context, ownerID uuid.UUID, id file.ID) error
	OpenFunc   func(ctx context.Context, ownerID uuid.UUID, id file.ID) (*file.Record, io.ReadCloser, error)
}

func (f *FakeUploadService) Create(ctx context.Context, ownerID uuid.UUID, items []file.UploadItem) (file.ItemResults, error) {
	if f.CreateFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateFunc(ctx, ownerID, items)
}
func (f *FakeUploadService) List(ctx context.Context, ownerID uuid.UUID) (file.Records, error) {
	if f.ListFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ListFunc(ctx, ownerID)
}
func (f *FakeUploadService) Get(ctx context.Context, ownerID uuid.UUID, id file.ID) (*file.Record, error) {
	if f.GetFunc == nil {
		return nil, errors.New("not used")
	}
	return f.GetFunc(ctx, ownerID, id)
}
func (f *FakeUploadService) Rename(ctx context.Context, ownerID uuid.UUID, id file.ID, displayName string) (*file.Record, error) {
	if f.RenameFunc == nil {
		return nil, errors.New("not used")
	}
	return f.RenameFunc(ctx, ownerID, id, displayName)
}
func (f *FakeUploadService) Delete(ctx context.Context, ownerID uuid.UUID, id file.ID) error {
	if f.DeleteFunc == nil {
		return errors.New("not used")
	}
	return f.DeleteFunc(ctx, ownerID, id)
}
func (f *FakeUploadService) Open(ctx context.Context, ownerID uuid.UUID, id file.ID) (*file.Record, io.ReadCloser, error) {
	if f.OpenFunc == nil {
		return nil, nil, errors.New("not used")
	}
	return f.OpenFunc(ctx, ownerID, id)
}

var (
	testOwner  = identity.Identity{UserID: uuid.New(), Email: "test@example.com", Role: "user"}
	authHeader = map[string]string{"Authorization": "Bearer tok"}
	testLimits = config.Upload{MaxFileSize: 16, MaxFiles: 3}
)

func setupUploadRouter(t *testing.T, us ports.UploadService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	NewUploadController(r, us, tokenAuth("tok", testOwner), zap.NewNop(), testLimits)
	return r
}

type formPart struct {
	field       string
	fileName    string
	contentType string
	content     []byte
}

func doMultipartReq(t *testing.T, r *gin.Engine, parts []formPart, fields map[string]string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.field, p.fileName))
		if p.contentType != "" {
			h.Set("Content-Type", p.contentType)
		}
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req, err := http.NewRequest(http.MethodPost, RouteUpload, &b)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// storeAll turns every item into a record the way the coordinator would.
func storeAll(owner uuid.UUID, items []file.UploadItem) file.ItemResults {
	out := make(file.ItemResults, len(items))
	for i, it := range items {
		name := it.DisplayName
		if name == "" {
			name = it.OriginalName
		}
		out[i] = file.ItemResult{Index: i, Name: it.OriginalName, Record: &file.Record{
			ID:           uuid.New(),
			OwnerID:      owner,
			OriginalName: it.OriginalName,
			DisplayName:  name,
			StorageKey:   fmt.Sprintf("key-%d", i),
			MimeType:     it.MimeType,
			SizeBytes:    it.SizeBytes,
			CreatedAt:    time.Now().UTC(),
		}}
	}
	return out
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestUploadController_RequiresSession(t *testing.T) {
	r := setupUploadRouter(t, &FakeUploadService{})
	id := uuid.NewString()

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, RouteUpload},
		{http.MethodGet, RouteUpload},
		{http.MethodGet, RouteUpload + "?id=" + id},
		{http.MethodPut, RouteUpload},
		{http.MethodDelete, RouteUpload},
		{http.MethodGet, RouteUploadContent + "?id=" + id},
	}

	for _, tt := range tests {
		for _, headers := range []map[string]string{
			nil,
			{"Authorization": "Token tok"},
			{"Authorization": "Bearer expired"},
		} {
			rr := doJSON(t, r, tt.method, tt.path, nil, headers)
			assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s %v", tt.method, tt.path, headers)
			assert.Equal(t, "unauthorized", decode[map[string]any](t, rr)["kind"])
		}
	}
}

func TestUploadController_Create(t *testing.T) {
	var got []file.UploadItem
	fus := &FakeUploadService{
		CreateFunc: func(_ context.Context, owner uuid.UUID, items []file.UploadItem) (file.ItemResults, error) {
			require.Equal(t, testOwner.UserID, owner)
			got = items
			return storeAll(owner, items), nil
		},
	}
	r := setupUploadRouter(t, fus)

	rr := doMultipartReq(t, r,
		[]formPart{
			{field: "items[1].file", fileName: "photo.png", content: []byte("png-bytes")},
			{field: "items[0].file", fileName: "report.pdf", contentType: "application/pdf", content: []byte("%PDF-1.7")},
		},
		map[string]string{"items[1].displayName": "Holiday"},
		authHeader,
	)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	require.Len(t, got, 2)
	assert.Equal(t, "report.pdf", got[0].OriginalName)
	assert.Equal(t, "application/pdf", got[0].MimeType)
	assert.Equal(t, int64(8), got[0].SizeBytes)
	assert.Equal(t, "", got[0].DisplayName)
	assert.Equal(t, "photo.png", got[1].OriginalName)
	assert.Equal(t, "image/png", got[1].MimeType)
	assert.Equal(t, "Holiday", got[1].DisplayName)

	rc, err := got[1].Open()
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "png-bytes", string(data))

	resp := decode[dto.UploadResponse](t, rr)
	assert.True(t, resp.Success)
	require.Len(t, resp.Files, 2)
	assert.Empty(t, resp.Failed)
	assert.Equal(t, "report.pdf", resp.Files[0].DisplayName)
	assert.Equal(t, "Holiday", resp.Files[1].DisplayName)
	assert.Equal(t, RouteUploadContent+"?id="+resp.Files[0].ID.String(), resp.Files[0].URL)
}

func TestUploadController_CreateLegacyFields(t *testing.T) {
	var got []file.UploadItem
	fus := &FakeUploadService{
		CreateFunc: func(_ context.Context, owner uuid.UUID, items []file.UploadItem) (file.ItemResults, error) {
			got = items
			return storeAll(owner, items), nil
		},
	}
	r := setupUploadRouter(t, fus)

	rr := doMultipartReq(t, r,
		[]formPart{{field: "files[0][file]", fileName: "notes.txt", content: []byte("hi")}},
		map[string]string{"files[0][displayName]": "Meeting notes"},
		authHeader,
	)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Len(t, got, 1)
	assert.Equal(t, "Meeting notes", got[0].DisplayName)
}

func TestUploadController_CreateSeveralFilesInOneField(t *testing.T) {
	var got []file.UploadItem
	fus := &FakeUploadService{
		CreateFunc: func(_ context.Context, owner uuid.UUID, items []file.UploadItem) (file.ItemResults, error) {
			got = items
			return storeAll(owner, items), nil
		},
	}
	r := setupUploadRouter(t, fus)

	rr := doMultipartReq(t, r,
		[]formPart{
			{field: "items[0].file", fileName: "a.txt", content: []byte("a")},
			{field: "items[0].file", fileName: "b.txt", content: []byte("bb")},
		},
		map[string]string{"items[0].displayName": "Shared"},
		authHeader,
	)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	require.Len(t, got, 2)
	assert.Equal(t, "a.txt", got[0].OriginalName)
	assert.Equal(t, "b.txt", got[1].OriginalName)
	assert.Equal(t, int64(2), got[1].SizeBytes)
	for _, it := range got {
		assert.Equal(t, "Shared", it.DisplayName)
	}

	resp := decode[dto.UploadResponse](t, rr)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Files, 2)
}

func TestUploadController_CreateSeveralFilesCountTowardsLimit(t *testing.T) {
	r := setupUploadRouter(t, &FakeUploadService{})

	parts := make([]formPart, testLimits.MaxFiles+1)
	for i := range parts {
		parts[i] = formPart{field: "items[0].file", fileName: fmt.Sprintf("%d.txt", i), content: []byte("x")}
	}

	rr := doMultipartReq(t, r, parts, nil, authHeader)
	assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
	assert.Equal(t, "invalid_input", decode[map[string]any](t, rr)["kind"])
}

func TestUploadController_CreatePartialFailure(t *testing.T) {
	calls := 0
	fus := &FakeUploadService{
		CreateFunc: func(_ context.Context, owner uuid.UUID, items []file.UploadItem) (file.ItemResults, error) {
			calls++
			require.Len(t, items, 2, "the oversized item never reaches the coordinator")
			res := storeAll(owner, items)
			res[1] = file.ItemResult{Index: 1, Name: items[1].OriginalName, Err: apperr.StorageUnavailable("failed to store file", errors.New("disk full"))}
			return res, nil
		},
	}
	r := setupUploadRouter(t, fus)

	rr := doMultipartReq(t, r,
		[]formPart{
			{field: "items[0].file", fileName: "a.txt", content: []byte("a")},
			{field: "items[1].file", fileName: "big.bin", content: bytes.Repeat([]byte("x"), 17)},
			{field: "items[2].file", fileName: "c.txt", content: []byte("c")},
		},
		nil,
		authHeader,
	)
	require.Equal(t, http.StatusMultiStatus, rr.Code, rr.Body.String())
	assert.Equal(t, 1, calls)

	resp := decode[dto.UploadResponse](t, rr)
	assert.False(t, resp.Success)
	require.Len(t, resp.Files, 1)
	assert.Equal(t, "a.txt", resp.Files[0].OriginalName)

	require.Len(t, resp.Failed, 2)
	assert.Equal(t, 1, resp.Failed[0].Index)
	assert.Equal(t, "invalid_input", resp.Failed[0].Kind)
	assert.Equal(t, 2, resp.Failed[1].Index)
	assert.Equal(t, "c.txt", resp.Failed[1].OriginalName)
	assert.Equal(t, "storage_unavailable", resp.Failed[1].Kind)
	assert.NotContains(t, rr.Body.String(), "disk full")
}

func TestUploadController_CreateErrors(t *testing.T) {
	tests := []struct {
		name       string
		parts      []formPart
		create     func(ctx context.Context, owner uuid.UUID, items []file.UploadItem) (file.ItemResults, error)
		wantStatus int
		wantKind   string
	}{
		{
			name:       "no files",
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name:       "unknown field only",
			parts:      []formPart{{field: "attachment", fileName: "a.txt", content: []byte("a")}},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name: "too many files",
			parts: []formPart{
				{field: "items[0].file", fileName: "0.txt", content: []byte("0")},
				{field: "items[1].file", fileName: "1.txt", content: []byte("1")},
				{field: "items[2].file", fileName: "2.txt", content: []byte("2")},
				{field: "items[3].file", fileName: "3.txt", content: []byte("3")},
			},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name:  "every item failed",
			parts: []formPart{{field: "items[0].file", fileName: "a.txt", content: []byte("a")}},
			create: func(_ context.Context, _ uuid.UUID, items []file.UploadItem) (file.ItemResults, error) {
				return file.ItemResults{{Index: 0, Name: "a.txt", Err: apperr.StorageUnavailable("failed to store file", errors.New("timeout"))}}, nil
			},
			wantStatus: http.StatusServiceUnavailable,
			wantKind:   "storage_unavailable",
		},
		{
			name:       "only oversized",
			parts:      []formPart{{field: "items[0].file", fileName: "big.bin", content: bytes.Repeat([]byte("x"), 17)}},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupUploadRouter(t, &FakeUploadService{CreateFunc: tt.create})
			rr := doMultipartReq(t, r, tt.parts, nil, authHeader)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())
			assert.Equal(t, tt.wantKind, decode[map[string]any](t, rr)["kind"])
		})
	}
}

func TestUploadController_Get(t *testing.T) {
	rec := storeAll(testOwner.UserID, []file.UploadItem{{OriginalName: "a.txt", MimeType: "text/plain", SizeBytes: 1}})[0].Record

	tests := []struct {
		name       string
		query      string
		fus        *FakeUploadService
		wantStatus int
		wantKind   string
	}{
		{
			name:  "list",
			query: "",
			fus: &FakeUploadService{ListFunc: func(context.Context, uuid.UUID) (file.Records, error) {
				return file.Records{rec}, nil
			}},
			wantStatus: http.StatusOK,
		},
		{
			name:  "list storage down",
			query: "",
			fus: &FakeUploadService{ListFunc: func(context.Context, uuid.UUID) (file.Records, error) {
				return nil, apperr.StorageUnavailable("failed to list files", errors.New("timeout"))
			}},
			wantStatus: http.StatusServiceUnavailable,
			wantKind:   "storage_unavailable",
		},
		{
			name:       "empty id",
			query:      "?id=",
			fus:        &FakeUploadService{},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name:       "malformed id",
			query:      "?id=42",
			fus:        &FakeUploadService{},
			wantStatus: http.StatusBadRequest,
			wantKind:   "invalid_input",
		},
		{
			name:  "one file",
			query: "?id=" + rec.ID.String(),
			fus: &FakeUploadService{GetFunc: func(_ context.Context, _ uuid.UUID, id file.ID) (*file.Record, error) {
				return rec, nil
			}},
			wantStatus: http.StatusOK,
		},
		{
			name:  "absent",
			query: "?id=" + uuid.NewString(),
			fus: &FakeUploadService{GetFunc: func(context.Context, uuid.UUID, file.ID) (*file.Record, error) {
				return nil, apperr.NotFound("file not found")
			}},
			wantStatus: http.StatusNotFound,
			wantKind:   "not_found",
		},
		{
			name:  "someone else's",
			query: "?id=" + uuid.NewString(),
			fus: &FakeUploadService{GetFunc: func(context.Context, uuid.UUID, file.ID) (*file.Record, error) {
				return nil, apperr.Forbidden("file belongs to another member")
			}},
			wantStatus: http.StatusUnauthorized,
			wantKind:   "forbidden",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := setupUploadRouter(t, tt.fus)
			rr := doJSON(t, r, http.MethodGet, RouteUpload+tt.query, nil, authHeader)
			require.Equal(t, tt.wantStatus, rr.Code, rr.Body.String())

			body := decode[map[string]any](t, rr)
			if tt.wantKind != "" {
				assert.Equal(t, tt.wantKind, body["kind"])
				return
			}
			if tt.query == "" {
				assert.Len(t, body["files"], 1)
			} else {
				assert.Contains(t, body, "file")
			}
		})
	}
}

func TestUploadController_ListEmpty(t *testing.T) {
	r := setupUploadRouter(t, &FakeUploadService{ListFunc: func(context.Context, uuid.UUID) (file.Records, error) {
		return file.Records{}, nil
	}})

	rr := doJSON(t, r, http.MethodGet, RouteUpload, nil, authHeader)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"files":[]}`, rr.Body.String())
}

func TestUploadController_Rename(t *testing.T) {
	id := uuid.New()
	var gotName string
	fus := &FakeUploadService{
		RenameFunc: func(_ context.Context, owner uuid.UUID, gotID file.ID, name string) (*file.Record, error) {
			if strings.TrimSpace(name) == "" {
				return nil, apperr.InvalidInput("displayName is required")
			}
			gotName = name
			return &file.Record{ID: gotID, OwnerID: owner, OriginalName: "a.txt", DisplayName: name}, nil
		},
	}
	r := setupUploadRouter(t, fus)

	rr := doJSON(t, r, http.MethodPut, RouteUpload+"?id="+id.String(), map[string]string{"displayName": "Minutes"}, authHeader)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "Minutes", gotName)
	resp := decode[dto.MutationResponse](t, rr)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.File)
	assert.Equal(t, "Minutes", resp.File.DisplayName)

	req, err := http.NewRequest(http.MethodPut, RouteUpload+"?id="+id.String(), strings.NewReader("displayName=Agenda"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer tok")
	form := httptest.NewRecorder()
	r.ServeHTTP(form, req)
	require.Equal(t, http.StatusOK, form.Code, form.Body.String())
	assert.Equal(t, "Agenda", gotName)

	rr = doJSON(t, r, http.MethodPut, RouteUpload, map[string]string{"displayName": "x"}, authHeader)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "missing id")

	rr = doJSON(t, r, http.MethodPut, RouteUpload+"?id="+id.String(), map[string]string{"displayName": "  "}, authHeader)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "blank name")

	rr = doJSON(t, r, http.MethodPut, RouteUpload+"?id="+id.String(), "{broken", authHeader)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "broken body")
}

func TestUploadController_Delete(t *testing.T) {
	id := uuid.New()
	deleted := map[file.ID]bool{}
	fus := &FakeUploadService{
		DeleteFunc: func(_ context.Context, _ uuid.UUID, gotID file.ID) error {
			if deleted[gotID] {
				return apperr.NotFound("file not found")
			}
			deleted[gotID] = true
			return nil
		},
	}
	r := setupUploadRouter(t, fus)

	rr := doJSON(t, r, http.MethodDelete, RouteUpload+"?id="+id.String(), nil, authHeader)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, true, decode[map[string]any](t, rr)["success"])

	rr = doJSON(t, r, http.MethodDelete, RouteUpload+"?id="+id.String(), nil, authHeader)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, r, http.MethodDelete, RouteUpload, nil, authHeader)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUploadController_Content(t *testing.T) {
	rec := &file.Record{
		ID:           uuid.New(),
		OwnerID:      testOwner.UserID,
		OriginalName: "Année 2026.pdf",
		DisplayName:  "Rapport annuel",
		MimeType:     "application/pdf",
		SizeBytes:    8,
	}
	fus := &FakeUploadService{
		OpenFunc: func(_ context.Context, _ uuid.UUID, id file.ID) (*file.Record, io.ReadCloser, error) {
			if id != rec.ID {
				return nil, nil, apperr.NotFound("file not found")
			}
			return rec, io.NopCloser(strings.NewReader("%PDF-1.7")), nil
		},
	}
	r := setupUploadRouter(t, fus)

	rr := doJSON(t, r, http.MethodGet, RouteUploadContent+"?id="+rec.ID.String(), nil, authHeader)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "%PDF-1.7", rr.Body.String())
	assert.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=rapport-annuel.pdf", rr.Header().Get("Content-Disposition"))

	rr = doJSON(t, r, http.MethodGet, RouteUploadContent+"?id="+uuid.NewString(), nil, authHeader)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
