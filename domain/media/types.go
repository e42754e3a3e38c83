package media

// Kind distinguishes still captures from recordings.
type Kind int

const (
	Photo Kind = iota
	Video
)

func (k Kind) String() string {
	switch k {
	case Photo:
		return "photo"
	case Video:
		return "video"
	default:
		return "unknown"
	}
}

const (
	MIMEPNG = "image/png"
	MIMEMP4 = "video/mp4"
)

// Artifact is the finished output of one capture. It is produced once and
// handed to the persistence layer; callers must not mutate Bytes.
type Artifact struct {
	Bytes    []byte
	MIMEType string
	Kind     Kind
	Filename string
}

// ContentType returns MIMEType, or the default for the artifact kind when
// the encoder did not report one.
func (a Artifact) ContentType() string {
	if a.MIMEType != "" {
		return a.MIMEType
	}
	if a.Kind == Video {
		return MIMEMP4
	}
	return MIMEPNG
}

// Size reports the payload length in bytes.
func (a Artifact) Size() int { return len(a.Bytes) }
