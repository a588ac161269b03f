package validators

import (
	"mime/multipart"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestUsernameValidator(t *testing.T) {
	assert.NoError(t, UsernameValidator("alice"))
	assert.NoError(t, UsernameValidator("Bob_42.x-y"))

	assert.ErrorIs(t, UsernameValidator(""), ErrUsernameEmpty)
	assert.ErrorIs(t, UsernameValidator(strings.Repeat("a", 65)), ErrUsernameTooLong)
	assert.ErrorIs(t, UsernameValidator("al ice"), ErrUsernameInvalid)
	assert.ErrorIs(t, UsernameValidator("al/ice"), ErrUsernameInvalid)
}

func TestPasswordValidator(t *testing.T) {
	assert.NoError(t, PasswordValidator("x"))

	assert.ErrorIs(t, PasswordValidator(""), ErrPasswordEmpty)
	assert.ErrorIs(t, PasswordValidator(strings.Repeat("a", 256)), ErrPasswordTooLong)
}

func TestFileValidator(t *testing.T) {
	viper.Set("upload.max_size", int64(100))

	assert.ErrorIs(t, FileValidator(nil), ErrNoFile)

	assert.NoError(t, FileValidator(&multipart.FileHeader{Filename: "a.png", Size: 100}))
	assert.ErrorIs(t, FileValidator(&multipart.FileHeader{Filename: "a.png", Size: 101}), ErrFileTooLarge)
	assert.ErrorIs(t, FileValidator(&multipart.FileHeader{Filename: strings.Repeat("a", 256), Size: 1}), ErrFileNameTooLong)
}

func TestAllowedMediaType(t *testing.T) {
	viper.Set("upload.allowed_types", []string{"image/", "video/"})

	assert.True(t, AllowedMediaType("image/png"))
	assert.True(t, AllowedMediaType("video/mp4"))
	assert.False(t, AllowedMediaType("text/plain"))
	assert.False(t, AllowedMediaType("application/pdf"))
}
