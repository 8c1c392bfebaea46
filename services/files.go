package services

import (
	"bytes"
	"context"
	"errors"

	"WardCare360/upload"
	"WardCare360/util"

	log "github.com/sirupsen/logrus"
)

// DownloadFile reads an uploaded file fully so a failed read never leaves a partial response.
func DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	var buf bytes.Buffer
	if err := uploader.Download(ctx, fileID, &buf); err != nil {
		if errors.Is(err, upload.ErrFileNotFound) {
			return nil, util.NotFound(util.FILE_NOT_FOUND)
		}
		log.Println("Error from uploader.Download: ", err)
		return nil, util.Upstream(util.FILE_NOT_FOUND, err)
	}
	return buf.Bytes(), nil
}
