package model

const (
	KindImage = "image"
	KindVideo = "video"

	// DefaultCategory is assigned to uploads that don't declare one
	DefaultCategory = "Uncategorized"
)

// MediaRecord is one uploaded asset in a user's catalog. Content holds the
// whole asset as a base64 data URI, so a record is self-contained and the
// backup file needs no side-car storage.
type MediaRecord struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Kind      string   `json:"kind"`
	MimeType  string   `json:"mimeType"`
	SizeBytes int64    `json:"sizeBytes"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	// RFC3339, set once at creation
	UploadedAt string `json:"uploadedAt"`
	ViewCount  int    `json:"viewCount"`
	// Only set for images
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// NewMediaInput is a fully processed upload waiting for an ID and a
// timestamp. The ingest pipeline produces one per successfully read file.
type NewMediaInput struct {
	Name      string
	Kind      string
	MimeType  string
	SizeBytes int64
	Content   string
	Category  string
	Tags      []string
	Width     int
	Height    int
}

// RecordPatch carries the editable fields of a record. Nil means
// "leave unchanged".
type RecordPatch struct {
	Name     *string   `json:"name,omitempty"`
	Category *string   `json:"category,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
}

// Empty reports whether the patch would change nothing.
func (p *RecordPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Tags == nil
}
