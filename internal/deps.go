package internal

import (
	"localpix/gallery-api/internal/account"
	"localpix/gallery-api/internal/catalog"
	"localpix/gallery-api/internal/service"
	"localpix/gallery-api/internal/store"

	"gorm.io/gorm"
)

type Deps struct {
	DB        *gorm.DB
	Store     *store.Store
	Directory *account.Directory
	Catalog   *catalog.Manager
	Tagger    *service.Tagger
	Ingestor  *service.Ingestor
}
