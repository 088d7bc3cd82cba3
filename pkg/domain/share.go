package domain

// ShareKind discriminates what a share (or a candidate for sharing)
// denotes: a web link, a block of text, or a local file.
type ShareKind string

const (
	KindURL  ShareKind = "url"
	KindText ShareKind = "text"
	KindFile ShareKind = "file"
)

// HistoryItem is the record of one completed share. Items are never
// mutated after creation; (ShareURL, CreatedAt) is the identity used
// for lookup and removal.
type HistoryItem struct {
	Kind      ShareKind `json:"type"`
	Title     string    `json:"title"`
	ShareURL  string    `json:"url"`
	Domain    string    `json:"domain"`
	Slug      string    `json:"slug"`
	Hash      string    `json:"hash,omitempty"`
	FileURL   string    `json:"fileUrl,omitempty"`
	CreatedAt string    `json:"createdAt"`
}

// ClassifiedContent is the classifier's ephemeral verdict on a piece of
// acquired input. It is consumed immediately and never persisted.
type ClassifiedContent struct {
	Kind         ShareKind
	RawValue     string
	ResolvedPath string
}

// UploadResult is the normalized view of a completed file upload. The
// resolver derives the shareable URL from it; the orchestrator keeps
// Hash and DirectURL on the history record and discards the rest.
type UploadResult struct {
	StoreName string
	Hash      string
	DirectURL string
	PageURL   string
	Path      string
}

// ShareResult is what a completed share action hands back to the host
// UI. HistoryErr is non-nil when the remote share succeeded but the
// local history write did not; the share itself still counts as a
// success in that case.
type ShareResult struct {
	Kind       ShareKind
	Title      string
	ShareURL   string
	HistoryErr error
}
