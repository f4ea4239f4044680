package providers

import (
	"github.com/samber/do/v2"

	"github.com/encoreapp/encore-server/internal/config"
	"github.com/encoreapp/encore-server/internal/logger"
	"github.com/encoreapp/encore-server/internal/media/artwork"
	"github.com/encoreapp/encore-server/internal/media/images"
)

// ProvideImageStorage provides the on-disk artwork storage.
func ProvideImageStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)

	return images.NewStorageWithSubdir(cfg.Data.BasePath, "artwork")
}

// ProvideArtworkDownloader provides the artwork downloader used by seeding
// and festival lineup loading.
func ProvideArtworkDownloader(i do.Injector) (*artwork.Downloader, error) {
	storage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	return artwork.NewDownloader(storage, log.Logger), nil
}
