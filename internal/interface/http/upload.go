package handlers

import (
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// saveTempFile writes an uploaded form file into the OS temp dir and returns
// its path. Callers defer removeTempFile on the result; the media collaborator
// additionally consumes the file during the upload attempt.
func saveTempFile(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	dst := filepath.Join(os.TempDir(), uuid.NewString()+filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", err
	}
	return dst, nil
}

// optionalTempFile saves the named form file when present; empty path means
// the field was not sent.
func optionalTempFile(c *gin.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	return saveTempFile(c, fh)
}

// removeTempFile deletes a saved upload if it is still on disk. Handlers defer
// this so requests that fail before reaching the media collaborator do not
// strand files in the temp dir; after a completed upload it is a no-op.
func removeTempFile(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}
