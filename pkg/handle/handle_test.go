// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package handle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yomira-id/pkg/handle"
)

func TestUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "Alice", "alice"},
		{"trimmed", "  bob_99  ", "bob_99"},
		{"full_width", "ＡＬＩＣＥ", "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, handle.Username(tt.input))
		})
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "a@x.com", handle.Email(" A@X.com "))
}

func TestValid(t *testing.T) {
	assert.True(t, handle.Valid("alice"))
	assert.True(t, handle.Valid("a.b_c"))
	assert.False(t, handle.Valid("al"))
	assert.False(t, handle.Valid("has space"))
	assert.False(t, handle.Valid("tÿ"))
}
