package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	info := Info{CommitHash: "0123456789", BuildTime: "today", Version: "0.4.1"}
	assert.Equal(t, "sith 0.4.1 (commit 0123456789, built today)", info.String())
	assert.Equal(t, "0123456", info.Short())

	info = Info{CommitHash: "abc", BuildTime: "today", Version: "dev"}
	assert.Equal(t, "sith dev (commit abc, built today)", info.String())
	assert.Equal(t, "abc", info.Short())
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name       string
		running    string
		constraint string
		wantErr    bool
	}{
		{"no constraint", "0.1.0", "", false},
		{"dev build", "dev", ">= 9", false},
		{"satisfied", "0.4.1", ">= 0.4, < 1", false},
		{"too old", "0.3.9", ">= 0.4", true},
		{"bad constraint", "0.4.1", "not a constraint", true},
		{"bad version", "four", ">= 0.4", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(tt.running, tt.constraint)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
