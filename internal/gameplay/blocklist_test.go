package gameplay_test

import (
	"encoding/json"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/solspace/solspace-backend/internal/gameplay"
	"github.com/solspace/solspace-backend/internal/mocks"
)

func TestLoadBlocklist(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		setupMocks   func(*mocks.MockFileSystem, *mocks.MockJSON)
		expectedErr  string // Error message to assert, empty means no error expected
		validateFunc func(t *testing.T, bl gameplay.Blocklist)
	}{
		{
			name: "successful load with valid JSON",
			path: "blocklist.json",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.
					EXPECT().
					ReadFile("blocklist.json").
					Return([]byte(`{"identities": ["`+testBlocked+`", "  W1  ", ""]}`), nil)
				mockJSON.
					EXPECT().
					Unmarshal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(data []byte, v interface{}) error {
						return json.Unmarshal(data, v)
					})
			},
			validateFunc: func(t *testing.T, bl gameplay.Blocklist) {
				assert.Equal(t, 2, bl.Len())
				assert.True(t, bl.IsBlocked(testBlocked))
				assert.True(t, bl.IsBlocked("W1"))
				assert.False(t, bl.IsBlocked(testIdentity))
			},
		},
		{
			name: "identities are case-sensitive",
			path: "blocklist.json",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.
					EXPECT().
					ReadFile("blocklist.json").
					Return([]byte(`{"identities": ["Wallet"]}`), nil)
				mockJSON.
					EXPECT().
					Unmarshal(gomock.Any(), gomock.Any()).
					DoAndReturn(func(data []byte, v interface{}) error {
						return json.Unmarshal(data, v)
					})
			},
			validateFunc: func(t *testing.T, bl gameplay.Blocklist) {
				assert.True(t, bl.IsBlocked("Wallet"))
				assert.False(t, bl.IsBlocked("wallet"))
			},
		},
		{
			name:       "empty path yields empty blocklist",
			path:       "",
			setupMocks: func(*mocks.MockFileSystem, *mocks.MockJSON) {},
			validateFunc: func(t *testing.T, bl gameplay.Blocklist) {
				assert.Zero(t, bl.Len())
				assert.False(t, bl.IsBlocked(testBlocked))
			},
		},
		{
			name: "file read error",
			path: "blocklist.json",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				mockFS.
					EXPECT().
					ReadFile("blocklist.json").
					Return(nil, assert.AnError)
			},
			expectedErr: "failed to read blocklist file",
		},
		{
			name: "JSON parse error",
			path: "blocklist.json",
			setupMocks: func(mockFS *mocks.MockFileSystem, mockJSON *mocks.MockJSON) {
				data := []byte(`invalid json`)
				mockFS.
					EXPECT().
					ReadFile("blocklist.json").
					Return(data, nil)
				mockJSON.
					EXPECT().
					Unmarshal(data, gomock.Any()).
					Return(assert.AnError)
			},
			expectedErr: "failed to parse blocklist JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			mockFS := mocks.NewMockFileSystem(ctrl)
			mockJSON := mocks.NewMockJSON(ctrl)
			tt.setupMocks(mockFS, mockJSON)

			bl, err := gameplay.LoadBlocklist(mockFS, mockJSON, tt.path)
			if tt.expectedErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedErr)
				assert.Nil(t, bl)
				return
			}

			assert.NoError(t, err)
			tt.validateFunc(t, bl)
		})
	}
}
