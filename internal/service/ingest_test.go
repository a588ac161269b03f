package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"localpix/gallery-api/internal/catalog"
	"localpix/gallery-api/internal/model"
	"localpix/gallery-api/internal/store"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testFile struct {
	name        string
	contentType string
	data        []byte
}

func buildBatch(t *testing.T, files []testFile) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename=%q`, f.name))
		if f.contentType != "" {
			h.Set("Content-Type", f.contentType)
		}

		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}

	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["files"]
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newTestIngestor(t *testing.T) *Ingestor {
	t.Helper()

	viper.Set("upload.max_size", int64(1<<20))
	viper.Set("upload.allowed_types", []string{"image/", "video/"})
	viper.Set("tagging.enabled", false)

	db, err := gorm.Open(sqlite.Open(":memory:"))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Entry{}))

	m := catalog.NewManager(store.New(db))
	return NewIngestor(m, NewTagger())
}

func TestIngestBatch(t *testing.T) {
	ing := newTestIngestor(t)

	_, err := ing.Catalog.Add("alice", []model.NewMediaInput{{
		Name: "pre.jpg", Kind: model.KindImage, MimeType: "image/jpeg", Content: "data:image/jpeg;base64,Zm9v",
	}})
	require.NoError(t, err)

	files := buildBatch(t, []testFile{
		{name: "photo.png", data: pngBytes(t, 640, 480)},
		{name: "clip.mp4", contentType: "video/mp4", data: []byte("not really a video")},
	})

	result, err := ing.Do(context.Background(), "alice", "Trips", files)
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Empty(t, result.Failed)

	img := result.Records[0]
	assert.Equal(t, "photo.png", img.Name)
	assert.Equal(t, model.KindImage, img.Kind)
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, "Trips", img.Category)
	assert.Equal(t, 640, img.Width)
	assert.Equal(t, 480, img.Height)
	// Tagging is disabled, images degrade to the fallback sentinel
	assert.Equal(t, FallbackTags, img.Tags)

	vid := result.Records[1]
	assert.Equal(t, model.KindVideo, vid.Kind)
	assert.Equal(t, "video/mp4", vid.MimeType)
	assert.Equal(t, []string{}, vid.Tags)
	assert.Zero(t, vid.Width)
	assert.Zero(t, vid.Height)

	// Whole batch lands ahead of pre-existing records, submission order
	records, err := ing.Catalog.Records("alice")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "photo.png", records[0].Name)
	assert.Equal(t, "clip.mp4", records[1].Name)
	assert.Equal(t, "pre.jpg", records[2].Name)
	assert.NotEqual(t, records[0].ID, records[1].ID)
}

func TestIngestExcludesOnlyFailingFiles(t *testing.T) {
	ing := newTestIngestor(t)
	viper.Set("upload.max_size", int64(64))

	files := buildBatch(t, []testFile{
		{name: "huge.png", data: bytes.Repeat([]byte{0}, 128)},
		{name: "notes.txt", contentType: "text/plain", data: []byte("hello")},
		{name: "clip.mp4", contentType: "video/mp4", data: []byte("ok")},
	})

	result, err := ing.Do(context.Background(), "alice", "", files)
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "clip.mp4", result.Records[0].Name)
	assert.Equal(t, model.DefaultCategory, result.Records[0].Category)

	require.Len(t, result.Failed, 2)
	failedNames := []string{result.Failed[0].Name, result.Failed[1].Name}
	assert.Contains(t, failedNames, "huge.png")
	assert.Contains(t, failedNames, "notes.txt")
}

func TestIngestAllFailing(t *testing.T) {
	ing := newTestIngestor(t)

	files := buildBatch(t, []testFile{
		{name: "notes.txt", contentType: "text/plain", data: []byte("hello")},
	})

	result, err := ing.Do(context.Background(), "alice", "", files)
	require.NoError(t, err)
	assert.Empty(t, result.Records)
	require.Len(t, result.Failed, 1)
	assert.Equal(t, "notes.txt", result.Failed[0].Name)

	records, err := ing.Catalog.Records("alice")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestIngestUndecodableImageStillUploads(t *testing.T) {
	ing := newTestIngestor(t)

	files := buildBatch(t, []testFile{
		{name: "weird.png", contentType: "image/png", data: []byte("not a png")},
	})

	result, err := ing.Do(context.Background(), "alice", "", files)
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	r := result.Records[0]
	assert.Equal(t, model.KindImage, r.Kind)
	assert.Zero(t, r.Width)
	assert.Zero(t, r.Height)
}
