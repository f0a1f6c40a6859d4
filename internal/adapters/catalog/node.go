package catalog

import (
	"context"
	"path/filepath"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/grindlemire/graft"
	"go.trai.ch/navcache/internal/adapters/config"
	"go.trai.ch/navcache/internal/adapters/fs"
	"go.trai.ch/navcache/internal/adapters/logger"
	"go.trai.ch/navcache/internal/adapters/tilestore"
	"go.trai.ch/navcache/internal/core/ports"
	"go.trai.ch/zerr"
)

// NodeID is the unique identifier for the content catalog node.
const NodeID graft.ID = "adapter.catalog"

func init() {
	graft.Register(graft.Node[ports.ContentCatalog]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.SettingsNodeID, fs.HasherNodeID, logger.NodeID, tilestore.IndexNodeID},
		Run: func(ctx context.Context) (ports.ContentCatalog, error) {
			settings, err := graft.Dep[*config.Settings](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			index, err := graft.Dep[ports.ContentIndex](ctx)
			if err != nil {
				return nil, err
			}

			dirs := make([]string, len(settings.Content.DataDirs))
			for i, d := range settings.Content.DataDirs {
				abs, err := filepath.Abs(d)
				if err != nil {
					return nil, zerr.With(zerr.Wrap(err, "failed to resolve data directory"), "dir", d)
				}
				dirs[i] = abs
			}

			return New(osfs.New("/"), dirs, settings.Content.Builtin, hasher, log, WithIndex(index)), nil
		},
	})
}
