package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptProfile(t *testing.T) {
	in := strings.NewReader("0\n1\n/src\n/dst\n/key.jpg\n640\njpg\n")
	var out bytes.Buffer

	prof, err := PromptProfile(NewPrompter(in, &out))
	require.NoError(t, err)

	assert.Equal(t, &Profile{
		LeftIndex:  0,
		RightIndex: 1,
		SourceDir:  "/src",
		DestDir:    "/dst",
		KeyFrame:   "/key.jpg",
		Width:      640,
		Format:     "jpg",
	}, prof)
	assert.True(t, strings.HasPrefix(out.String(), "Enter index of left camera: "))
	assert.NotContains(t, out.String(), "Please enter a number.")
}

func TestPromptIntRepromptsOnNonNumeric(t *testing.T) {
	in := strings.NewReader("left\n 3 \n")
	var out bytes.Buffer

	n, err := NewPrompter(in, &out).Int("Enter index of left camera: ")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1, strings.Count(out.String(), "Please enter a number."))
	assert.Equal(t, 2, strings.Count(out.String(), "Enter index of left camera: "))
}

func TestPromptProfileAbortsOnEOF(t *testing.T) {
	in := strings.NewReader("0\n1\n/src\n/dst\n/key.jpg\nwide\n")
	var out bytes.Buffer

	prof, err := PromptProfile(NewPrompter(in, &out))
	assert.Nil(t, prof)
	assert.Equal(t, ErrAborted, err)
	assert.Contains(t, out.String(), "Please enter a number.")
}
