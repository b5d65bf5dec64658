package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriveStorage exposes one Google Drive folder through a service account.
type DriveStorage struct {
	service  *drive.Service
	folderID string
}

// NewDriveStorage authenticates with a service account key (JSON) and
// binds the store to folderID.
func NewDriveStorage(ctx context.Context, credentialsJSON []byte, folderID string) (*DriveStorage, error) {
	jwtConfig, err := google.JWTConfigFromJSON(credentialsJSON, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account key: %w", err)
	}

	service, err := drive.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}

	return &DriveStorage{service: service, folderID: folderID}, nil
}

func (s *DriveStorage) List(ctx context.Context) ([]Object, error) {
	query := fmt.Sprintf("'%s' in parents and trashed=false", s.folderID)

	var objects []Object
	err := s.service.Files.List().
		Q(query).
		Fields("nextPageToken, files(id, name, modifiedTime, size)").
		PageSize(1000).
		Pages(ctx, func(page *drive.FileList) error {
			for _, f := range page.Files {
				modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)
				objects = append(objects, Object{
					ID:         f.Id,
					Name:       f.Name,
					ModifiedAt: modified,
					Size:       f.Size,
				})
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("drive list failed: %w", err)
	}

	return objects, nil
}

func (s *DriveStorage) Download(ctx context.Context, id string) (io.ReadCloser, error) {
	resp, err := s.service.Files.Get(id).Context(ctx).Download()
	if err != nil {
		if isDriveNotFound(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("drive download failed: %w", err)
	}
	return resp.Body, nil
}

func (s *DriveStorage) Upload(ctx context.Context, id string, content io.Reader, contentType string) error {
	_, err := s.service.Files.Update(id, &drive.File{}).
		Media(content, googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		if isDriveNotFound(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return fmt.Errorf("drive upload failed: %w", err)
	}
	return nil
}

func (s *DriveStorage) Create(ctx context.Context, name string, content io.Reader, contentType string) (Object, error) {
	f, err := s.service.Files.Create(&drive.File{Name: name, Parents: []string{s.folderID}}).
		Media(content, googleapi.ContentType(contentType)).
		Fields("id, name, modifiedTime, size").
		Context(ctx).
		Do()
	if err != nil {
		return Object{}, fmt.Errorf("drive create failed: %w", err)
	}

	modified, _ := time.Parse(time.RFC3339, f.ModifiedTime)
	return Object{ID: f.Id, Name: f.Name, ModifiedAt: modified, Size: f.Size}, nil
}

func isDriveNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}
