package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMode_Valid(t *testing.T) {
	assert.True(t, ModeCompletion.Valid())
	assert.True(t, ModeRegeneration.Valid())
	assert.False(t, Mode("refresh").Valid())
	assert.False(t, Mode("").Valid())
}

func TestBatchPosition(t *testing.T) {
	tests := []struct {
		name    string
		pos     BatchPosition
		isFirst bool
		isLast  bool
	}{
		{"single document", BatchPosition{Index: 0, Total: 1}, true, true},
		{"first of three", BatchPosition{Index: 0, Total: 3}, true, false},
		{"middle of three", BatchPosition{Index: 1, Total: 3}, false, false},
		{"last of three", BatchPosition{Index: 2, Total: 3}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isFirst, tt.pos.IsFirst())
			assert.Equal(t, tt.isLast, tt.pos.IsLast())
		})
	}
}

func TestProcessDocumentRequest_Validate(t *testing.T) {
	valid := ProcessDocumentRequest{
		DocumentID: "a3bb189e-8bf9-4c8b-9e71-5b3e1c2d4f6a",
		Mode:       "completion",
		BatchIndex: 0,
		BatchTotal: 1,
	}
	assert.NoError(t, valid.Validate())

	badMode := valid
	badMode.Mode = "refresh"
	assert.Error(t, badMode.Validate())

	badID := valid
	badID.DocumentID = "not-a-uuid"
	assert.Error(t, badID.Validate())

	badIndex := valid
	badIndex.BatchIndex = 1
	assert.Error(t, badIndex.Validate(), "index must be below total")

	zeroTotal := valid
	zeroTotal.BatchTotal = 0
	assert.Error(t, zeroTotal.Validate())
}
