package service

import (
	"context"
	"errors"
	"testing"

	"imgshrink/internal/core/domain"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestNewAuthorizer(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		wantErr  bool
		expected []int64
	}{
		{
			name: "loads allowed chat IDs",
			setup: func() {
				viper.Set("telegram.allowed_chat_ids", []int64{1, 2, 3})
			},
			wantErr:  false,
			expected: []int64{1, 2, 3},
		},
		{
			name: "invalid type returns error",
			setup: func() {
				viper.Set("telegram.allowed_chat_ids", "not a slice")
			},
			wantErr: true,
		},
		{
			name: "empty list is fine",
			setup: func() {
				viper.Set("telegram.allowed_chat_ids", []int64{})
			},
			wantErr:  false,
			expected: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Reset viper between tests
			viper.Reset()
			tt.setup()
			auth, err := NewAuthorizer(&mockTextSender{})

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, auth)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, auth)
				assert.Equal(t, tt.expected, auth.allowlist)
			}
		})
	}
}

func TestChatAuthorizer_IsAuthorized(t *testing.T) {
	tests := []struct {
		name         string
		allowlist    []int64
		admin        string
		chatID       int64
		sendErr      error
		want         bool
		expectSend   bool
		expectedText string
	}{
		{
			name:       "chatID is allowed",
			allowlist:  []int64{123, 456},
			chatID:     123,
			want:       true,
			expectSend: false,
		},
		{
			name:       "empty allowlist admits everyone",
			allowlist:  nil,
			chatID:     42,
			want:       true,
			expectSend: false,
		},
		{
			name:         "chatID not allowed sends message",
			allowlist:    []int64{111, 222},
			admin:        "adminuser",
			chatID:       333,
			expectSend:   true,
			want:         false,
			expectedText: "You are not authorized to use this bot. Please contact @adminuser with this ID to get access: 333",
		},
		{
			name:         "no admin configured sends generic text",
			allowlist:    []int64{111},
			chatID:       333,
			expectSend:   true,
			want:         false,
			expectedText: "You are not authorized to use this bot.",
		},
		{
			name:         "Send message fails for unauthorized chatID",
			allowlist:    []int64{999},
			admin:        "adminuser",
			chatID:       888,
			expectSend:   true,
			want:         false,
			sendErr:      errors.New("send failed"),
			expectedText: "You are not authorized to use this bot. Please contact @adminuser with this ID to get access: 888",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSender := &mockTextSender{err: tt.sendErr}
			a := &ChatAuthorizer{
				allowlist: tt.allowlist,
				admin:     tt.admin,
				sender:    mockSender,
			}

			got := a.IsAuthorized(context.Background(), &domain.Message{ChatID: tt.chatID})

			assert.Equal(t, tt.want, got)
			replies := mockSender.Replies()
			if tt.expectSend {
				assert.NotEmpty(t, replies, "SendMessageReply should have been called")
				assert.Equal(t, tt.expectedText, replies[0])
			} else {
				assert.Empty(t, replies, "SendMessageReply should not have been called")
			}
		})
	}
}
