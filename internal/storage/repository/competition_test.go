package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tmmoscow/internal/model"
)

func TestFileLinks(t *testing.T) {
	tests := []struct {
		name    string
		fileIdx []int
		fileIDs []int64
		want    []model.FileContentLine
		wantErr bool
	}{
		{
			name:    "distinct files",
			fileIdx: []int{1, 0},
			fileIDs: []int64{10, 20},
			want: []model.FileContentLine{
				{FileID: 20, ContentLineID: 5, Position: 0},
				{FileID: 10, ContentLineID: 5, Position: 1},
			},
		},
		{
			name:    "same content under two urls",
			fileIdx: []int{0, 1, 2},
			fileIDs: []int64{10, 10, 30},
			want: []model.FileContentLine{
				{FileID: 10, ContentLineID: 5, Position: 0},
				{FileID: 30, ContentLineID: 5, Position: 1},
			},
		},
		{
			name:    "no files",
			fileIDs: []int64{10},
		},
		{
			name:    "unknown file",
			fileIdx: []int{3},
			fileIDs: []int64{10},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links, err := fileLinks(5, tt.fileIdx, tt.fileIDs)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, links)
		})
	}
}
