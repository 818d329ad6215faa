package compare

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sdejongh/stemdiff/pkg/storage"
)

func mustLocal(t *testing.T, root string) *storage.Local {
	t.Helper()
	local, err := storage.NewLocal(root)
	require.NoError(t, err)
	return local
}
