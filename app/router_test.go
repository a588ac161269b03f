package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"localpix/gallery-api/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)

	viper.Set("storage.path", ":memory:")
	viper.Set("session.secret", "test-secret")
	viper.Set("upload.max_size", int64(10<<20))
	viper.Set("upload.allowed_types", []string{"image/", "video/"})
	viper.Set("host.cors_origins", []string{"http://localhost:5173"})
	viper.Set("tagging.enabled", false)

	router, err := NewRouter()
	require.NoError(t, err)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func loginAs(t *testing.T, router *gin.Engine, username, password string) []*http.Cookie {
	t.Helper()

	body := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)

	rec := doJSON(t, router, "POST", "/api/users", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "POST", "/api/users/login", body, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func uploadPNG(t *testing.T, router *gin.Engine, cookies []*http.Cookie, name, category string) model.MediaRecord {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, name))
	h.Set("Content-Type", "image/png")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	require.NoError(t, png.Encode(part, image.NewNRGBA(image.Rect(0, 0, 2, 2))))

	if category != "" {
		require.NoError(t, w.WriteField("category", category))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/media", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Records []model.MediaRecord `json:"records"`
		Failed  []struct{ Name, Reason string }
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result.Records, 1)

	return result.Records[0]
}

func TestRegisterLoginFlow(t *testing.T) {
	router := newTestRouter(t)

	body := `{"username":"alice","password":"hunter2"}`

	rec := doJSON(t, router, "POST", "/api/users", body, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Duplicate registration conflicts
	rec = doJSON(t, router, "POST", "/api/users", body, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Wrong password gets a generic rejection
	rec = doJSON(t, router, "POST", "/api/users/login", `{"username":"alice","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, "POST", "/api/users/login", body, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticatedRoutesRejectAnonymous(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, "GET", "/api/media", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, "GET", "/api/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUploadBrowseEditDelete(t *testing.T) {
	router := newTestRouter(t)
	cookies := loginAs(t, router, "alice", "hunter2")

	record := uploadPNG(t, router, cookies, "sunset.png", "Nature")
	assert.Equal(t, model.KindImage, record.Kind)
	assert.Equal(t, "Nature", record.Category)

	// Browse with and without filters
	rec := doJSON(t, router, "GET", "/api/media", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []model.MediaRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)

	rec = doJSON(t, router, "GET", "/api/media?search=sunset&category=Nature", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	rec = doJSON(t, router, "GET", "/api/media?search=mountain", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)

	// Categories include the sentinel
	rec = doJSON(t, router, "GET", "/api/media/categories", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	assert.Equal(t, []string{"All", "Nature"}, categories)

	// Edit the category
	rec = doJSON(t, router, "PATCH", "/api/media/"+record.ID, `{"category":"Travel"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.MediaRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Travel", updated.Category)

	// View counting
	rec = doJSON(t, router, "POST", "/api/media/"+record.ID+"/view", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"viewCount":1}`, rec.Body.String())

	// Raw serving returns the decoded bytes
	rec = doJSON(t, router, "GET", "/api/media/"+record.ID+"/raw", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "image/png")

	// Delete, then the catalog is empty; deleting again still succeeds
	rec = doJSON(t, router, "DELETE", "/api/media/"+record.ID, "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "DELETE", "/api/media/"+record.ID, "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/media", "", cookies)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed)
}

func TestRawServingIsScopedPerUser(t *testing.T) {
	router := newTestRouter(t)
	alice := loginAs(t, router, "alice", "hunter2")
	record := uploadPNG(t, router, alice, "private.png", "Nature")

	// Prime the response cache as alice
	rec := doJSON(t, router, "GET", "/api/media/"+record.ID+"/raw", "", alice)
	require.Equal(t, http.StatusOK, rec.Code)

	// Another user asking for the same id must hit their own catalog,
	// not alice's cached bytes
	bob := loginAs(t, router, "bob", "s3cret")
	rec = doJSON(t, router, "GET", "/api/media/"+record.ID+"/raw", "", bob)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBackupRestoreFlow(t *testing.T) {
	router := newTestRouter(t)
	cookies := loginAs(t, router, "alice", "hunter2")

	uploadPNG(t, router, cookies, "keep.png", "Nature")

	rec := doJSON(t, router, "GET", "/api/media/backup", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "gallery_backup_alice_")

	backup := rec.Body.Bytes()

	// Wreck the library, then restore it
	var listed []model.MediaRecord
	rec = doJSON(t, router, "GET", "/api/media", "", cookies)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	rec = doJSON(t, router, "DELETE", "/api/media/"+listed[0].ID, "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = restoreBackup(t, router, cookies, backup)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, "GET", "/api/media", "", cookies)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "keep.png", listed[0].Name)

	// A bad document changes nothing
	rec = restoreBackup(t, router, cookies, []byte(`[{"name":"no-id"}]`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, "GET", "/api/media", "", cookies)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func restoreBackup(t *testing.T, router *gin.Engine, cookies []*http.Cookie, doc []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fw, err := w.CreateFormFile("backup", "backup.json")
	require.NoError(t, err)
	_, err = fw.Write(doc)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/media/restore", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestPrefs(t *testing.T) {
	router := newTestRouter(t)
	cookies := loginAs(t, router, "alice", "hunter2")

	rec := doJSON(t, router, "GET", "/api/prefs", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"viewMode":"grid","theme":"light"}`, rec.Body.String())

	rec = doJSON(t, router, "PUT", "/api/prefs", `{"theme":"dark"}`, cookies)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"viewMode":"grid","theme":"dark"}`, rec.Body.String())

	rec = doJSON(t, router, "PUT", "/api/prefs", `{"theme":"neon"}`, cookies)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsSessionState(t *testing.T) {
	router := newTestRouter(t)
	cookies := loginAs(t, router, "alice", "hunter2")

	rec := doJSON(t, router, "POST", "/api/users/logout", "", cookies)
	require.Equal(t, http.StatusOK, rec.Code)

	// Logging out twice is fine
	rec = doJSON(t, router, "POST", "/api/users/logout", "", cookies)
	assert.Equal(t, http.StatusOK, rec.Code)
}
