package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportStatusTransitions(t *testing.T) {
	tests := []struct {
		status      SupportStatus
		canComplete bool
		canFail     bool
	}{
		{SupportPending, true, true},
		{SupportCompleted, true, false},
		{SupportFailed, false, false},
		{SupportRefunded, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.canComplete, tt.status.CanComplete())
			assert.Equal(t, tt.canFail, tt.status.CanFail())
		})
	}
}

func TestPlatformFee(t *testing.T) {
	assert.Equal(t, int64(100), PlatformFee(1000, 10))
	assert.Equal(t, int64(15), PlatformFee(150, 10))
	assert.Equal(t, int64(15), PlatformFee(155, 10))
	assert.Equal(t, int64(0), PlatformFee(150, 0))
	assert.Equal(t, int64(0), PlatformFee(0, 10))
	assert.Equal(t, int64(37), PlatformFee(1000, 3.75))
}
