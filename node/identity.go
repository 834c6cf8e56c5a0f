package node

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/hubsync/go-hub/common/types"
)

const identityFileName = "identity"

// LoadIdentity reads the peer id persisted in dataDir, creating one on first start.
func LoadIdentity(logger *zap.Logger, dataDir string) (types.PeerID, error) {
	path := filepath.Join(dataDir, identityFileName)
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		id := types.RandomPeerID()
		if err := atomic.WriteFile(path, bytes.NewBufferString(id.String()+"\n")); err != nil {
			return types.NoPeer, fmt.Errorf("write identity %s: %w", path, err)
		}
		logger.Info("created new identity", zap.Stringer("peer", id), zap.String("path", path))
		return id, nil
	case err != nil:
		return types.NoPeer, fmt.Errorf("read identity %s: %w", path, err)
	}
	id := types.PeerID(strings.TrimSpace(string(data)))
	if id == types.NoPeer {
		return types.NoPeer, fmt.Errorf("identity file %s is empty", path)
	}
	logger.Info("loaded identity", zap.Stringer("peer", id), zap.String("path", path))
	return id, nil
}
