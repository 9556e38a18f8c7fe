package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/repository"
	"github.com/sysu-ecnc-dev/hhcrsp-ltga/backend/internal/utils"
)

var opts = utils.GenerateOptions{
	Activities:  5,
	Shifts:      2,
	Threshold:   0.5,
	MaxD:        10,
	MaxP:        10,
	MaxStart:    50,
	MaxWindow:   20,
	MaxDuration: 100,
	WX:          1,
	WY:          1,
	WZ:          1,
}

func openStore(t *testing.T) *repository.ProblemStore {
	t.Helper()
	store, err := repository.OpenProblemStore("")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSeedRandomProblems(t *testing.T) {
	store := openStore(t)

	ids, err := SeedRandomProblems(store, opts, 10, 4)
	require.NoError(t, err)
	assert.Len(t, ids, 4)

	listed, err := store.ListProblemIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, listed)

	// 不同的种子生成不同的实例
	a, err := store.GetProblem(ids[0])
	require.NoError(t, err)
	b, err := store.GetProblem(ids[1])
	require.NoError(t, err)
	assert.NotEqual(t, a.Travel, b.Travel)
}

func TestImportProblemFiles(t *testing.T) {
	store := openStore(t)
	dir := t.TempDir()

	generated := openStore(t)
	ids, err := SeedRandomProblems(generated, opts, 1, 2)
	require.NoError(t, err)
	for _, id := range ids {
		p, err := generated.GetProblem(id)
		require.NoError(t, err)
		p.ID = ""
		require.NoError(t, repository.SaveProblemFile(filepath.Join(dir, "instance-"+id[:8]+".json"), p))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	imported, err := ImportProblemFiles(store, dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"instance-" + min(ids[0][:8], ids[1][:8]), "instance-" + max(ids[0][:8], ids[1][:8])}, imported)

	_, err = ImportProblemFiles(store, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
