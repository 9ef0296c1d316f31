package domain

// MaxImageSize is the largest image the recognition service accepts.
const MaxImageSize = 25 * 1024 * 1024

// TitleKind tags which shape of title metadata a match carries.
type TitleKind int

const (
	// TitleAbsent means the service returned no title metadata at all.
	TitleAbsent TitleKind = iota
	// TitleStructured carries native/romaji/english names.
	TitleStructured
	// TitleBareID carries only the AniList identifier.
	TitleBareID
)

// TitleInfo is the AniList metadata of a match, either a structured record
// or a bare AniList id.
type TitleInfo struct {
	Kind    TitleKind
	Native  string
	Romaji  string
	English string
	ID      int64
}

// StructuredTitle builds a TitleInfo from the three title names.
func StructuredTitle(native, romaji, english string) TitleInfo {
	return TitleInfo{Kind: TitleStructured, Native: native, Romaji: romaji, English: english}
}

// BareTitleID builds a TitleInfo holding only an AniList id.
func BareTitleID(id int64) TitleInfo {
	return TitleInfo{Kind: TitleBareID, ID: id}
}

// Match is a single candidate scene, in the order the service ranked it.
type Match struct {
	Similarity      float64   `json:"similarity"`
	At              float64   `json:"at"`
	From            float64   `json:"from"`
	To              float64   `json:"to"`
	Filename        string    `json:"filename"`
	Episode         *int      `json:"episode,omitempty"`
	Title           TitleInfo `json:"-"`
	MalID           *int64    `json:"mal_id,omitempty"`
	PreviewImageURL string    `json:"image,omitempty"`
	PreviewVideoURL string    `json:"video,omitempty"`
}

// SearchResult is the validated answer of a scene search.
type SearchResult struct {
	Matches    []Match `json:"result"`
	FrameCount int64   `json:"frame_count"`
	Error      string  `json:"error,omitempty"`
}

// PreviewKind selects which preview media of the top match is rendered.
type PreviewKind string

const (
	PreviewImage PreviewKind = "image"
	PreviewVideo PreviewKind = "video"
)

// Valid reports whether k is a known preview kind.
func (k PreviewKind) Valid() bool {
	return k == PreviewImage || k == PreviewVideo
}
