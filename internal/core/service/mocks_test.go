package service

import (
	"context"
	"imgshrink/internal/core/domain"
	"sync"
)

type mockTextSender struct {
	mu      sync.Mutex
	err     error
	replies []string
	errs    []error
}

func (m *mockTextSender) SendMessageReply(_ context.Context, _ *domain.Message, text string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.replies = append(m.replies, text)
	return len(m.replies), m.err
}

func (m *mockTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

func (m *mockTextSender) NotifyAndReturnError(_ context.Context, err error, _ *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.replies = append(m.replies, domain.UserMessage(err))
	m.errs = append(m.errs, err)
	if m.err != nil {
		return m.err
	}
	return err
}

func (m *mockTextSender) Replies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.replies...)
}

func (m *mockTextSender) Errors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]error(nil), m.errs...)
}

type sentFile struct {
	file    domain.File
	caption string
}

type mockImageSender struct {
	mu        sync.Mutex
	err       error
	images    []sentFile
	documents []sentFile
}

func (m *mockImageSender) SendImageFileReply(_ context.Context, _ *domain.Message, file domain.File,
	caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.images = append(m.images, sentFile{file: file, caption: caption})
	return m.err
}

func (m *mockImageSender) SendDocumentReply(_ context.Context, _ *domain.Message, file domain.File,
	caption string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.documents = append(m.documents, sentFile{file: file, caption: caption})
	return m.err
}

func (m *mockImageSender) Images() []sentFile {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]sentFile(nil), m.images...)
}

func (m *mockImageSender) Documents() []sentFile {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]sentFile(nil), m.documents...)
}

type mockTranscoder struct {
	fn func(ctx context.Context, src domain.SourceImage, quality domain.Quality) (domain.CompressedResult, error)
}

func (m *mockTranscoder) Transcode(ctx context.Context, src domain.SourceImage,
	quality domain.Quality) (domain.CompressedResult, error) {
	return m.fn(ctx, src, quality)
}

// shrinkBy returns a transcoder producing len(src)*quality bytes.
func shrinkBy() *mockTranscoder {
	return &mockTranscoder{fn: func(_ context.Context, src domain.SourceImage,
		quality domain.Quality) (domain.CompressedResult, error) {
		n := int(float64(len(src.Data)) * float64(quality))
		return domain.CompressedResult{Data: make([]byte, n), MIMEType: src.MIMEType, Quality: quality}, nil
	}}
}

type mockFetcher struct {
	mu   sync.Mutex
	data []byte
	err  error
	ids  []string
	fn   func(ctx context.Context, fileID string) ([]byte, error)
}

func (m *mockFetcher) Fetch(ctx context.Context, fileID string) ([]byte, error) {
	m.mu.Lock()
	m.ids = append(m.ids, fileID)
	m.mu.Unlock()

	if m.fn != nil {
		return m.fn(ctx, fileID)
	}
	return m.data, m.err
}
