package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantErr     bool
		errContains string
	}{
		{name: "simple name", input: "store"},
		{name: "with underscore", input: "order_items"},
		{name: "with digits", input: "v2stats"},
		{name: "empty", input: "", wantErr: true, errContains: "cannot be empty"},
		{name: "single character", input: "a", wantErr: true, errContains: "at least 2 characters"},
		{name: "too long", input: strings.Repeat("a", 51), wantErr: true, errContains: "less than 50"},
		{name: "starts with digit", input: "2fast", wantErr: true, errContains: "must start with a letter"},
		{name: "hyphenated", input: "my-app", wantErr: true, errContains: "must start with a letter"},
		{name: "python keyword", input: "class", wantErr: true, errContains: "Python keyword"},
		{name: "reserved django", input: "django", wantErr: true, errContains: "reserved"},
		{name: "reserved apps", input: "apps", wantErr: true, errContains: "reserved"},
		{name: "reserved uppercase", input: "Admin", wantErr: true, errContains: "reserved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AppName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProjectNameErrorNamesTheField(t *testing.T) {
	err := ProjectName("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project name")
}

func TestAppNames(t *testing.T) {
	assert.NoError(t, AppNames([]string{"store", "billing"}, nil))

	err := AppNames([]string{"store", "store"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	err = AppNames([]string{"billing"}, []string{"billing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	err = AppNames([]string{"store", "class"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Python keyword")
}
