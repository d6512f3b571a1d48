// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
)

// ErrUploadDisabled is returned by a [MemoryUploader] switched to failure mode.
var ErrUploadDisabled = errors.New("media: uploads disabled")

// MemoryUploader keeps uploaded bytes in memory.
//
// Intended for tests and local development without object storage.
type MemoryUploader struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failing bool
}

// NewMemoryUploader creates an empty in-memory uploader.
func NewMemoryUploader() *MemoryUploader {
	return &MemoryUploader{objects: make(map[string][]byte)}
}

// Upload reads localPath and stores its bytes under a fresh key.
func (uploader *MemoryUploader) Upload(_ context.Context, localPath string) (*Asset, error) {
	if localPath == "" {
		return nil, ErrEmptyPath
	}

	uploader.mu.Lock()
	failing := uploader.failing
	uploader.mu.Unlock()
	if failing {
		return nil, ErrUploadDisabled
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return nil, fmt.Errorf("media: read %s: %w", localPath, err)
	}

	key := "memory/" + uuid.NewString()

	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	uploader.objects[key] = data

	return &Asset{URL: "memory://" + key, PublicID: key}, nil
}

// Delete forgets the object stored under publicID.
func (uploader *MemoryUploader) Delete(_ context.Context, publicID string) error {
	uploader.mu.Lock()
	defer uploader.mu.Unlock()

	delete(uploader.objects, publicID)
	uploader.deleted = append(uploader.deleted, publicID)
	return nil
}

// SetFailing makes every following Upload fail with [ErrUploadDisabled].
func (uploader *MemoryUploader) SetFailing(failing bool) {
	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	uploader.failing = failing
}

// Stored reports how many objects are currently held.
func (uploader *MemoryUploader) Stored() int {
	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	return len(uploader.objects)
}

// Deleted returns the keys passed to Delete, in call order.
func (uploader *MemoryUploader) Deleted() []string {
	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	return append([]string(nil), uploader.deleted...)
}
