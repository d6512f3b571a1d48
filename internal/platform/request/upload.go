// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/taibuivan/yomira-id/internal/platform/constants"
	"github.com/taibuivan/yomira-id/internal/platform/validate"
)

// # Multipart Uploads

/*
ParseMultipart parses a multipart form body capped at [constants.MaxUploadSize].

Returns:
  - error: validate.ErrInvalidMultipart if the body is not a valid form
*/
func ParseMultipart(writer http.ResponseWriter, request *http.Request) error {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadSize)
	if err := request.ParseMultipartForm(constants.MaxMultipartMemory); err != nil {
		return validate.ErrInvalidMultipart
	}
	return nil
}

/*
SpoolFile copies the named multipart file into a local temporary file.

The media collaborator uploads from a local path, so every file part is
spooled to dir first. The caller must always invoke the returned cleanup.

Returns:
  - string: local path, "" if the field is absent
  - func(): removes the temporary file (never nil)
  - error: I/O failures while spooling
*/
func SpoolFile(request *http.Request, field, dir string) (string, func(), error) {
	noop := func() {}

	file, header, err := request.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", noop, nil
	}
	if err != nil {
		return "", noop, fmt.Errorf("request_spool_open_failed: %w", err)
	}
	defer file.Close()

	if header.Size == 0 {
		return "", noop, nil
	}

	temp, err := os.CreateTemp(dir, constants.UploadTempPattern+filepath.Ext(header.Filename))
	if err != nil {
		return "", noop, fmt.Errorf("request_spool_create_failed: %w", err)
	}
	cleanup := func() { _ = os.Remove(temp.Name()) }

	if _, err := io.Copy(temp, file); err != nil {
		_ = temp.Close()
		cleanup()
		return "", noop, fmt.Errorf("request_spool_copy_failed: %w", err)
	}
	if err := temp.Close(); err != nil {
		cleanup()
		return "", noop, fmt.Errorf("request_spool_close_failed: %w", err)
	}

	return temp.Name(), cleanup, nil
}
