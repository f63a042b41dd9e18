package command

import (
	"context"
	"imgshrink/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {
	// mocked
}

func (m *MockSender) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	args := m.Called(ctx, err, message)
	return args.Error(0)
}

func (m *MockSender) SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error) {
	args := m.Called(ctx, message, text)
	return args.Int(0), args.Error(1)
}

type MockCompressor struct {
	mock.Mock
}

func (m *MockCompressor) SelectFile(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockCompressor) ChangeQuality(ctx context.Context, message *domain.Message, percent int) error {
	args := m.Called(ctx, message, percent)
	return args.Error(0)
}

func (m *MockCompressor) Download(ctx context.Context, message *domain.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockCompressor) Status(chatID int64) domain.Snapshot {
	args := m.Called(chatID)
	return args.Get(0).(domain.Snapshot)
}
