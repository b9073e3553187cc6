package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kumar-pranav/dojotrack-api/internal/models"
)

type memoryPhotoRepo struct {
	records []models.ProfilePhoto
}

func (m *memoryPhotoRepo) Create(ctx context.Context, record *models.ProfilePhoto) error {
	record.ID = uint(len(m.records) + 1)
	m.records = append(m.records, *record)
	return nil
}

func (m *memoryPhotoRepo) LatestForOwner(ctx context.Context, ownerID string) (*models.ProfilePhoto, error) {
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].OwnerID == ownerID {
			record := m.records[i]
			return &record, nil
		}
	}
	return nil, nil
}

type fakeStorage struct {
	uploaded []string
}

func (f *fakeStorage) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	if _, err := io.ReadAll(reader); err != nil {
		return "", err
	}
	f.uploaded = append(f.uploaded, name)
	return "https://cdn.example.com/" + name, nil
}

func multipartFile(t *testing.T, name string, payload []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}

var pngPayload = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, make([]byte, 64)...)

func TestPhotoUploadStoresImage(t *testing.T) {
	storage := &fakeStorage{}
	repo := &memoryPhotoRepo{}
	svc := NewPhotoService(storage, repo, 5, testLogger())

	resp, err := svc.Upload(context.Background(), "instructor-1", multipartFile(t, "me.png", pngPayload))
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/me.png", resp.URL)
	require.Equal(t, "image/png", resp.MimeType)
	require.Len(t, repo.records, 1)

	latest, err := svc.Latest(context.Background(), "instructor-1")
	require.NoError(t, err)
	require.Equal(t, resp.URL, latest.URL)
}

func TestPhotoUploadRejectsNonImage(t *testing.T) {
	svc := NewPhotoService(&fakeStorage{}, &memoryPhotoRepo{}, 5, testLogger())

	_, err := svc.Upload(context.Background(), "instructor-1", multipartFile(t, "notes.txt", []byte("plain text, not an image")))
	require.ErrorIs(t, err, ErrPhotoTypeNotAllowed)
}

func TestPhotoUploadRejectsOversizedFile(t *testing.T) {
	storage := &fakeStorage{}
	svc := NewPhotoService(storage, &memoryPhotoRepo{}, 1, testLogger())

	big := append(append([]byte{}, pngPayload...), make([]byte, 2*1024*1024)...)
	_, err := svc.Upload(context.Background(), "instructor-1", multipartFile(t, "huge.png", big))
	require.ErrorIs(t, err, ErrPhotoTooLarge)
	require.Empty(t, storage.uploaded)
}

func TestPhotoLatestMissing(t *testing.T) {
	svc := NewPhotoService(&fakeStorage{}, &memoryPhotoRepo{}, 5, testLogger())

	_, err := svc.Latest(context.Background(), "instructor-1")
	require.ErrorIs(t, err, ErrPhotoNotFound)
}
