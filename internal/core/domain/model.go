package domain

import "math"

// DownloadPrefix is prepended to the original file name of a compressed download.
const DownloadPrefix = "compressed_"

type Attachment struct {
	FileID   string
	FileName string
	MIMEType string
	Size     int64
}

type Message struct {
	ID         int
	ChatID     int64
	Username   string
	Text       string
	Attachment *Attachment
}

type Action string

const (
	Typing          Action = "typing"
	SendingPhoto    Action = "sending_photo"
	SendingDocument Action = "sending_document"
)

// Quality is a lossy encoder factor, 0 is maximum compression and 1 maximum fidelity.
type Quality float64

func QualityFromPercent(percent int) Quality {
	return Quality(float64(percent) / 100)
}

func (q Quality) Percent() int {
	return int(math.Round(float64(q) * 100))
}

// SourceImage is an image as selected by the user. It is never modified after loading.
type SourceImage struct {
	Name     string
	MIMEType string
	Data     []byte
}

func (s SourceImage) Size() int64 {
	return int64(len(s.Data))
}

// CompressedResult is the output of a transcode of a SourceImage at a Quality.
// MIMEType is the type the encoder actually produced.
type CompressedResult struct {
	Data     []byte
	MIMEType string
	Quality  Quality
	Width    int
	Height   int
}

func (r CompressedResult) Size() int64 {
	return int64(len(r.Data))
}

type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Snapshot is a copy of a session's state at one point in time.
type Snapshot struct {
	Source     *SourceImage
	Result     *CompressedResult
	Quality    Quality
	InProgress bool
}

// DownloadName returns the file name a compressed copy of name is delivered under.
func DownloadName(name string) string {
	return DownloadPrefix + name
}

// SavedPercent returns how much smaller compressed is than original, in percent.
// It is negative when the re-encoded image grew.
func SavedPercent(original, compressed int64) float64 {
	if original <= 0 {
		return 0
	}

	return (1 - float64(compressed)/float64(original)) * 100
}
