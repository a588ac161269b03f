package service

import (
	"bytes"
	"context"
	"image"
	"io"
	"mime/multipart"
	"strings"
	"sync"

	// Header-only dimension probing for the formats browsers upload
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"localpix/gallery-api/internal/catalog"
	"localpix/gallery-api/internal/model"
	"localpix/gallery-api/pkg/util"
	"localpix/gallery-api/pkg/validators"

	"go.uber.org/zap"
)

// FileError reports one file that was excluded from a batch, by name, so
// the client can tell the user exactly what failed.
type FileError struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// IngestResult is the outcome of one batch upload: the records that made
// it into the catalog plus the per-file failures.
type IngestResult struct {
	Records []model.MediaRecord `json:"records"`
	Failed  []FileError         `json:"failed"`
}

// Ingestor turns a multipart batch into catalog records. Files are
// processed concurrently (reading bytes, probing dimensions, calling the
// tagging collaborator are all independent I/O), but every success lands
// in the catalog through a single Add so the batch appears atomically.
type Ingestor struct {
	Catalog *catalog.Manager
	Tagger  *Tagger
}

func NewIngestor(m *catalog.Manager, t *Tagger) *Ingestor {
	return &Ingestor{Catalog: m, Tagger: t}
}

type outcome struct {
	idx   int
	input model.NewMediaInput
	name  string
	err   error
}

// Do processes the batch for a user. A failing file excludes only itself;
// the rest of the batch continues. Tagging failures never fail a file,
// they degrade to fallback tags inside the Tagger.
func (ing *Ingestor) Do(ctx context.Context, username, category string, files []*multipart.FileHeader) (*IngestResult, error) {
	var wg sync.WaitGroup
	outcomes := make(chan outcome, len(files))

	for i, fh := range files {
		wg.Add(1)

		go func(idx int, fh *multipart.FileHeader) {
			defer wg.Done()

			input, err := ing.processFile(ctx, category, fh)
			outcomes <- outcome{idx: idx, input: input, name: fh.Filename, err: err}
		}(i, fh)
	}

	wg.Wait()
	close(outcomes)

	// Completion order is whatever it is, the catalog batch keeps
	// submission order
	ordered := make([]*outcome, len(files))
	for o := range outcomes {
		o := o
		ordered[o.idx] = &o
	}

	result := &IngestResult{Failed: []FileError{}}
	inputs := []model.NewMediaInput{}

	for _, o := range ordered {
		if o.err != nil {
			zap.L().Warn("Excluding file from batch",
				zap.String("file", o.name),
				zap.Error(o.err),
			)

			result.Failed = append(result.Failed, FileError{Name: o.name, Reason: o.err.Error()})
			continue
		}

		inputs = append(inputs, o.input)
	}

	if len(inputs) > 0 {
		records, err := ing.Catalog.Add(username, inputs)
		if err != nil {
			return nil, err
		}

		result.Records = records
	} else {
		result.Records = []model.MediaRecord{}
	}

	return result, nil
}

func (ing *Ingestor) processFile(ctx context.Context, category string, fh *multipart.FileHeader) (model.NewMediaInput, error) {
	if err := validators.FileValidator(fh); err != nil {
		return model.NewMediaInput{}, err
	}

	f, err := fh.Open()
	if err != nil {
		return model.NewMediaInput{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return model.NewMediaInput{}, err
	}

	mime := validators.ResolveMediaType(fh, data)
	if !validators.AllowedMediaType(mime) {
		return model.NewMediaInput{}, validators.ErrFileTypeUnsupported
	}

	input := model.NewMediaInput{
		Name:      fh.Filename,
		MimeType:  mime,
		SizeBytes: int64(len(data)),
		Content:   util.EncodeDataURI(mime, data),
		Category:  category,
		Tags:      []string{},
	}

	if strings.HasPrefix(mime, "image/") {
		input.Kind = model.KindImage

		// Best effort: an undecodable image still uploads, just without
		// dimensions
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			input.Width = cfg.Width
			input.Height = cfg.Height
		}

		input.Tags = ing.Tagger.Tags(ctx, input.Content)
	} else {
		input.Kind = model.KindVideo
	}

	return input, nil
}
