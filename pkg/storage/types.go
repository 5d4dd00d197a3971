package storage

import (
	"fmt"
	"path"
	"time"
)

// Provider is the snapshot surface the catalog, the registry and the
// reminder worker persist through.
type Provider interface {
	SaveJson(data any, filename string) error
	LoadJson(data any, filename string) error
	SaveGzippedJson(data any, filename string) error
	LoadGzippedJson(data any, filename string) error
}

type DiskStorage struct {
	RootFolder string
}

func NewDiskStorage(rootFolder string) *DiskStorage {
	return &DiskStorage{
		RootFolder: rootFolder,
	}
}

func (ds *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(ds.RootFolder, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}
