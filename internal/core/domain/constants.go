package domain

import (
	"errors"
	"strconv"
	"strings"
)

const DefaultQualityPercent = 80

var (
	ErrDecode         = errors.New("decode failed")
	ErrEncode         = errors.New("encode failed")
	ErrTimeout        = errors.New("transcode timed out")
	ErrRead           = errors.New("reading source failed")
	ErrNoSource       = errors.New("no image loaded")
	ErrNoResult       = errors.New("no compressed result available")
	ErrInvalidQuality = errors.New("invalid quality")
	ErrUnauthorized   = errors.New("chat not authorized")
	ErrSendingFailed  = errors.New("failed to send reply")
)

const (
	msgDecode   = "Sorry, this image could not be read. Please send a valid JPEG, PNG, GIF, WebP, BMP or TIFF file."
	msgEncode   = "Sorry, the image could not be compressed. Try a different quality or file."
	msgTimeout  = "Compression took too long and was aborted. Please try again."
	msgRead     = "Sorry, the file could not be loaded. Please send it again."
	msgNoSource = "Send me an image first."
	msgNoResult = "No compressed image yet, please wait for compression to finish."
	msgQuality  = "usage: /quality <0-100>"
	msgDenied   = "You are not authorized to use this bot."
	msgGeneric  = "Something went wrong, please try again."
)

// UserMessage maps err to the text shown to a user. Internal details of err are never included.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return msgTimeout
	case errors.Is(err, ErrDecode):
		return msgDecode
	case errors.Is(err, ErrEncode):
		return msgEncode
	case errors.Is(err, ErrRead):
		return msgRead
	case errors.Is(err, ErrNoSource):
		return msgNoSource
	case errors.Is(err, ErrNoResult):
		return msgNoResult
	case errors.Is(err, ErrInvalidQuality):
		return msgQuality
	case errors.Is(err, ErrUnauthorized):
		return msgDenied
	default:
		return msgGeneric
	}
}

// ParseQualityPercent parses a user supplied percentage such as "30" or "30%".
func ParseQualityPercent(arg string) (int, error) {
	arg = strings.TrimSuffix(strings.TrimSpace(arg), "%")

	percent, err := strconv.Atoi(arg)
	if err != nil {
		return 0, errors.Join(ErrInvalidQuality, err)
	}

	if percent < 0 || percent > 100 {
		return 0, ErrInvalidQuality
	}

	return percent, nil
}
