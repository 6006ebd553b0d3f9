// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	re := regexp.MustCompile(`^image-\d+-[0-9a-f-]{36}\.jpg$`)

	a := NewKey("image", ".JPG")
	b := NewKey("image", "jpg")
	assert.Regexp(t, re, a)
	assert.Regexp(t, re, b)
	assert.NotEqual(t, a, b)

	assert.False(t, strings.Contains(NewKey("image", ""), "."), "no extension when none given")
}

func TestCleanKey(t *testing.T) {
	for _, bad := range []string{"", "../etc/passwd", "a/../../b", "/abs", `a\b`, "a//b"} {
		_, err := cleanKey(bad)
		assert.Error(t, err, "key %q", bad)
	}
	got, err := cleanKey("cars/image-1.png")
	require.NoError(t, err)
	assert.Equal(t, "cars/image-1.png", got)
}

func TestLocalUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	l, err := NewLocal(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, l.Dir())

	ref, err := l.Upload(context.Background(), "image-1.png", "image/png", strings.NewReader("pixels"), 6)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/image-1.png", ref)

	data, err := os.ReadFile(filepath.Join(dir, "image-1.png"))
	require.NoError(t, err)
	assert.Equal(t, "pixels", string(data))

	_, err = l.Upload(context.Background(), "image-1.png", "image/png", strings.NewReader("again"), 5)
	assert.Error(t, err, "existing files are never overwritten")

	_, err = l.Upload(context.Background(), "../escape.png", "image/png", strings.NewReader("x"), 1)
	assert.Error(t, err)
}

func TestNewS3Disabled(t *testing.T) {
	c, err := NewS3("", "fsn1", "", "", "bucket", "")
	require.NoError(t, err)
	assert.Nil(t, c)

	_, err = NewS3("https://s3.example.com", "fsn1", "ak", "sk", "", "")
	assert.Error(t, err)
}

func TestS3URLs(t *testing.T) {
	c, err := NewS3("https://s3.example.com/", "fsn1", "ak", "sk", "autoparc", "")
	require.NoError(t, err)

	assert.Equal(t, "https://s3.example.com/autoparc/image-1.png", c.FileURL("image-1.png"))

	key, ok := c.ExtractKey("https://s3.example.com/autoparc/image-1.png")
	assert.True(t, ok)
	assert.Equal(t, "image-1.png", key)

	_, ok = c.ExtractKey("https://elsewhere.example.com/image-1.png")
	assert.False(t, ok)

	cdn, err := NewS3("https://s3.example.com", "fsn1", "ak", "sk", "autoparc", "https://cdn.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/image-1.png", cdn.FileURL("image-1.png"))
	key, ok = cdn.ExtractKey("https://cdn.example.com/image-1.png")
	assert.True(t, ok)
	assert.Equal(t, "image-1.png", key)
}

var (
	_ Uploader = (*S3)(nil)
	_ Uploader = (*Local)(nil)
)
