package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"WardCare360/util"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrFileNotFound = errors.New("file not found")

type FileRef struct {
	FileID   string `json:"fileId"`
	FileName string `json:"fileName"`
	URL      string `json:"url"`
}

type Uploader interface {
	Upload(ctx context.Context, data []byte, filename string, folderID string) (FileRef, error)
	Download(ctx context.Context, fileID string, w io.Writer) error
}

func fileURL(baseURL string, fileID string) string {
	return strings.TrimRight(baseURL, "/") + "/" + fileID
}

type GridFSUploader struct {
	bucket  *gridfs.Bucket
	baseURL string
}

func NewGridFSUploader(database *mongo.Database, baseURL string) (*GridFSUploader, error) {
	bucket, err := gridfs.NewBucket(database, options.GridFSBucket().SetName(util.UploadBucket))
	if err != nil {
		return nil, err
	}
	return &GridFSUploader{bucket: bucket, baseURL: baseURL}, nil
}

func (g *GridFSUploader) Upload(ctx context.Context, data []byte, filename string, folderID string) (FileRef, error) {
	opts := options.GridFSUpload().SetMetadata(bson.M{"folderId": folderID})
	id, err := g.bucket.UploadFromStream(filename, bytes.NewReader(data), opts)
	if err != nil {
		log.Println("Error from gridfs while uploading: ", err)
		return FileRef{}, err
	}
	fileID := id.Hex()
	return FileRef{FileID: fileID, FileName: filename, URL: fileURL(g.baseURL, fileID)}, nil
}

func (g *GridFSUploader) Download(ctx context.Context, fileID string, w io.Writer) error {
	id, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return ErrFileNotFound
	}
	if _, err := g.bucket.DownloadToStream(id, w); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrFileNotFound
		}
		return err
	}
	return nil
}

type storedFile struct {
	name   string
	folder string
	data   []byte
}

type MemoryUploader struct {
	mu      sync.Mutex
	files   map[string]storedFile
	baseURL string
	// Err, when set, is returned by every Upload.
	Err error
}

func NewMemoryUploader(baseURL string) *MemoryUploader {
	return &MemoryUploader{files: map[string]storedFile{}, baseURL: baseURL}
}

func (m *MemoryUploader) Upload(ctx context.Context, data []byte, filename string, folderID string) (FileRef, error) {
	if m.Err != nil {
		return FileRef{}, m.Err
	}
	fileID := uuid.NewString()
	m.mu.Lock()
	m.files[fileID] = storedFile{name: filename, folder: folderID, data: append([]byte(nil), data...)}
	m.mu.Unlock()
	return FileRef{FileID: fileID, FileName: filename, URL: fileURL(m.baseURL, fileID)}, nil
}

func (m *MemoryUploader) Download(ctx context.Context, fileID string, w io.Writer) error {
	m.mu.Lock()
	file, ok := m.files[fileID]
	m.mu.Unlock()
	if !ok {
		return ErrFileNotFound
	}
	_, err := w.Write(file.data)
	return err
}

// Folder reports the folder a stored file was uploaded into.
func (m *MemoryUploader) Folder(fileID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.files[fileID].folder
}
