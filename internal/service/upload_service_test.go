package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"career-compass-be/internal/constant"
	"career-compass-be/internal/dto"
	"career-compass-be/internal/entity"
	"career-compass-be/pkg/quota"
	"career-compass-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type uploadServiceFixture struct {
	uow     *MockUnitOfWork
	storage *MockStorage
	bus     *MockEventBus
	service IUploadService
}

func newUploadServiceFixture() *uploadServiceFixture {
	f := &uploadServiceFixture{
		uow:     NewMockUnitOfWork(),
		storage: new(MockStorage),
		bus:     new(MockEventBus),
	}
	f.service = NewUploadService(
		&mockUowFactory{uow: f.uow},
		quota.NewTracker(quota.DefaultPolicy()),
		f.storage,
		f.bus,
		nopLogger{},
	)
	return f
}

// makeFileHeader builds a real multipart file header with content, so
// the service can Open() it.
func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestStoreUpload_Success(t *testing.T) {
	f := newUploadServiceFixture()
	ctx := context.Background()
	userId := uuid.New()

	f.uow.Uploads.On("Count", ctx, mock.Anything).Return(int64(0), nil).Twice()
	f.storage.On("Save", ctx, mock.Anything, mock.Anything).Return(&storage.StoredObject{
		Path:      "/data/uploads/x.pdf",
		PublicURL: "http://localhost:3000/uploads/x.pdf",
	}, nil).Once()
	f.uow.Uploads.On("Create", ctx, mock.MatchedBy(func(r *entity.UploadRecord) bool {
		return r.UserId == userId && r.Kind == constant.UploadKindPdf && r.FileName == "resume.pdf"
	})).Return(nil).Once()
	f.bus.On("Publish", mock.Anything, mock.Anything).Return(nil).Once()

	res, err := f.service.StoreUpload(ctx, userId, nil, makeFileHeader(t, "resume.pdf", []byte("%PDF-1.4 fake")))

	assert.NoError(t, err)
	if assert.NotNil(t, res) {
		assert.Equal(t, constant.UploadKindPdf, res.Kind)
		assert.Equal(t, "resume.pdf", res.FileName)
	}
	f.storage.AssertExpectations(t)
	f.uow.Uploads.AssertExpectations(t)
}

func TestStoreUpload_DailyLimitDeniedBeforeStorage(t *testing.T) {
	f := newUploadServiceFixture()
	ctx := context.Background()
	userId := uuid.New()

	// Two pdfs already stored today: counts come back 2 and 0.
	f.uow.Uploads.On("Count", ctx, mock.Anything).Return(int64(2), nil).Once()
	f.uow.Uploads.On("Count", ctx, mock.Anything).Return(int64(0), nil).Once()

	_, err := f.service.StoreUpload(ctx, userId, nil, makeFileHeader(t, "third.pdf", []byte("x")))

	var quotaErr *dto.QuotaExceededError
	if assert.ErrorAs(t, err, &quotaErr) {
		assert.Equal(t, dto.QuotaKindDailyUploads, quotaErr.Kind)
		assert.Equal(t, 2, quotaErr.Limit)
		assert.Equal(t, 2, quotaErr.Used)
	}

	// The denied file never touched storage or the database.
	f.storage.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	f.uow.Uploads.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestStoreUpload_ImageAllowedWhenPdfsExhausted(t *testing.T) {
	f := newUploadServiceFixture()
	ctx := context.Background()
	userId := uuid.New()

	f.uow.Uploads.On("Count", ctx, mock.Anything).Return(int64(2), nil).Once() // pdfs
	f.uow.Uploads.On("Count", ctx, mock.Anything).Return(int64(1), nil).Once() // images
	f.storage.On("Save", ctx, mock.Anything, mock.Anything).Return(&storage.StoredObject{Path: "p", PublicURL: "u"}, nil).Once()
	f.uow.Uploads.On("Create", ctx, mock.Anything).Return(nil).Once()
	f.bus.On("Publish", mock.Anything, mock.Anything).Return(nil)

	res, err := f.service.StoreUpload(ctx, userId, nil, makeFileHeader(t, "photo.png", []byte("png")))

	assert.NoError(t, err)
	assert.Equal(t, constant.UploadKindImage, res.Kind)
}

func TestStoreUpload_RejectsUnknownExtension(t *testing.T) {
	f := newUploadServiceFixture()

	_, err := f.service.StoreUpload(context.Background(), uuid.New(), nil, makeFileHeader(t, "malware.exe", []byte("x")))

	var fiberErr *fiber.Error
	if assert.ErrorAs(t, err, &fiberErr) {
		assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
	}
	f.uow.Uploads.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
}

func TestStoreUpload_RejectsOversizedFile(t *testing.T) {
	f := newUploadServiceFixture()

	header := &multipart.FileHeader{
		Filename: "huge.png",
		Size:     constant.MaxImageUploadBytes + 1,
	}

	_, err := f.service.StoreUpload(context.Background(), uuid.New(), nil, header)

	var fiberErr *fiber.Error
	if assert.ErrorAs(t, err, &fiberErr) {
		assert.Equal(t, fiber.StatusRequestEntityTooLarge, fiberErr.Code)
	}
}

func TestStoreUpload_CleansUpFileWhenRecordFails(t *testing.T) {
	f := newUploadServiceFixture()
	ctx := context.Background()
	userId := uuid.New()

	f.uow.Uploads.On("Count", ctx, mock.Anything).Return(int64(0), nil).Twice()
	f.storage.On("Save", ctx, mock.Anything, mock.Anything).Return(&storage.StoredObject{Path: "p", PublicURL: "u"}, nil).Once()
	f.uow.Uploads.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()
	f.storage.On("Delete", ctx, mock.Anything).Return(nil).Once()

	_, err := f.service.StoreUpload(ctx, userId, nil, makeFileHeader(t, "doc.pdf", []byte("x")))

	assert.Error(t, err)
	f.storage.AssertExpectations(t)
}
