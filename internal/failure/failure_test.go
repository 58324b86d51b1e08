package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{400, Validation},
		{401, Unauthorized},
		{404, Validation},
		{409, Validation},
		{500, Server},
		{503, Server},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			err := FromStatus(tt.status, "nope")
			assert.Equal(t, tt.want, err.Kind)
			assert.Equal(t, tt.status, err.Status)
		})
	}
}

func TestKindThroughWrapping(t *testing.T) {
	base := New(Network, "", errors.New("connection refused"))
	wrapped := fmt.Errorf("failed to list clients: %w", base)

	assert.Equal(t, Network, KindOf(wrapped))
	assert.True(t, Is(wrapped, Network))
	assert.False(t, Is(wrapped, Unauthorized))
	assert.False(t, Is(nil, Unknown))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Name and email are required", Message(FromStatus(400, "Name and email are required")))
	assert.Equal(t, "", Message(errors.New("plain")))
	assert.Equal(t, "local_validation: custom description is empty", Localf("custom description is %s", "empty").Error())
}
