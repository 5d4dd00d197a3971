package server

import (
	"github.com/barkbase/barkbase/pkg/catalog"
	"github.com/barkbase/barkbase/pkg/registry"
	"github.com/barkbase/barkbase/pkg/storage"
)

type WebServer struct {
	Catalog  *catalog.Catalog
	Registry *registry.Registry
	Db       storage.Provider
	Cache    *Cache
	Auth     AuthHandler
}
