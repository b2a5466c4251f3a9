package sampler

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func testGroupConfig(t *testing.T, chainPath string, size int, nchain int) GroupConfig {
	return GroupConfig{
		Size:      size,
		Nchain:    nchain,
		BaseSeed:  4357,
		Init:      initParams(),
		Steps:     DefaultSteps(testInit, 0.01),
		ChainPath: chainPath,
		Post:      testPosterior(t),
	}
}

func TestNewGroupValidation(t *testing.T) {
	assert := assert.New(t)

	cfg := testGroupConfig(t, filepath.Join(t.TempDir(), "chains.dat"), 2, 10)

	bad := cfg
	bad.Size = 0
	g, err := NewGroup(bad)
	assert.Nil(g)
	assert.Error(err)

	bad = cfg
	bad.ChainPath = ""
	g, err = NewGroup(bad)
	assert.Nil(g)
	assert.Error(err)

	bad = cfg
	bad.Nchain = 0
	g, err = NewGroup(bad)
	assert.Nil(g)
	assert.Error(err)

	g, err = NewGroup(cfg)
	assert.NotNil(g)
	assert.NoError(err)
}

func TestGroupMergeOrdering(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)

	const size, nchain = 3, 10
	chainPath := filepath.Join(t.TempDir(), "chains.dat")

	grp, err := NewGroup(testGroupConfig(t, chainPath, size, nchain))
	assert.NoError(err)

	order := []int{}
	grp.cfg.OnRankDone = func(rank int, res *RunResult) {
		order = append(order, rank)
	}

	results, err := grp.Run(context.Background())
	assert.NoError(err)
	assert.Len(results, size)
	assert.Equal([]int{0, 1, 2}, order)

	raw, err := os.ReadFile(chainPath)
	assert.NoError(err)

	lines := strings.Split(strings.TrimRight(string(raw), "\n"), "\n")
	assert.Len(lines, size*nchain)

	// every rank's block must match a solo walker with the same seed
	for rank := 0; rank < size; rank++ {
		w, err := NewWalker(testPosterior(t), rank, nchain, 4357, initParams(), DefaultSteps(testInit, 0.01))
		assert.NoError(err)
		_, err = w.Run()
		assert.NoError(err)

		var buf bytes.Buffer
		_, err = w.Chain().WriteTo(&buf)
		assert.NoError(err)

		block := strings.Join(lines[rank*nchain:(rank+1)*nchain], "\n") + "\n"
		assert.Equal(buf.String(), block, "rank %d block mismatch", rank)
	}
}

func TestGroupDeterminism(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)

	dir := t.TempDir()

	run := func(fn string) ([]byte, []*RunResult) {
		grp, err := NewGroup(testGroupConfig(t, fn, 2, 25))
		assert.NoError(err)
		results, err := grp.Run(context.Background())
		assert.NoError(err)
		raw, err := os.ReadFile(fn)
		assert.NoError(err)
		return raw, results
	}

	raw1, res1 := run(filepath.Join(dir, "a.dat"))
	raw2, res2 := run(filepath.Join(dir, "b.dat"))

	assert.Equal(raw1, raw2)
	assert.Equal(res1, res2)
}

func TestGroupCollectiveAbort(t *testing.T) {
	defer goleak.VerifyNone(t)
	assert := assert.New(t)

	// an unwritable chain path fails rank 0's write and must bring down the
	// whole group instead of leaving ranks 1+ waiting for their turn
	chainPath := filepath.Join(t.TempDir(), "no-such-dir", "chains.dat")

	grp, err := NewGroup(testGroupConfig(t, chainPath, 3, 5))
	assert.NoError(err)

	results, err := grp.Run(context.Background())
	assert.Nil(results)
	assert.Error(err)
	assert.Equal(ErrChainFile, errors.Cause(err))
}
