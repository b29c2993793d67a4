package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"go-skin-analyzer/internal/errors"
	"go-skin-analyzer/internal/logger"
)

// azureStore writes artifacts to local disk and mirrors them to an Azure
// blob container. The local path is the authoritative reference; a failed
// upload is logged but does not fail the save.
type azureStore struct {
	local     ArtifactStore
	client    *azblob.Client
	container string
}

// NewAzureStore wraps a local store with blob mirroring using shared key
// credentials.
func NewAzureStore(dir, accountName, accountKey, container string) (ArtifactStore, error) {
	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, errors.NewPersistenceError("invalid azure credentials", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(
		fmt.Sprintf("https://%s.blob.core.windows.net", accountName),
		credential,
		nil,
	)
	if err != nil {
		return nil, errors.NewPersistenceError("create azure client", err)
	}

	return &azureStore{
		local:     NewLocalStore(dir),
		client:    client,
		container: container,
	}, nil
}

func (s *azureStore) SavePNG(ctx context.Context, name string, img image.Image) (string, error) {
	path, err := s.local.SavePNG(ctx, name, img)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		logger.WithError(err).Warn("azure mirror skipped, artifact encoding failed")
		return path, nil
	}
	if _, err := s.client.UploadBuffer(ctx, s.container, name, buf.Bytes(), nil); err != nil {
		logger.WithError(err).Warn("azure mirror upload failed")
	}
	return path, nil
}
