package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AustinOrphan/docview"
	main "github.com/AustinOrphan/docview/cmd/docview"
	"github.com/AustinOrphan/docview/mock"
)

func TestStatsCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints entry and byte occupancy", func(t *testing.T) {
		t.Parallel()

		loader := &mock.Loader{
			StatsFn: func() docview.CacheStats {
				return docview.CacheStats{
					EntryCount: 3,
					ByteUsage:  4096,
					MaxEntries: 100,
					MaxBytes:   1 << 20,
				}
			},
		}

		stdout := &bytes.Buffer{}
		deps := &main.Dependencies{
			Ctx:    context.Background(),
			Stdout: stdout,
			Stderr: &bytes.Buffer{},
			Loader: loader,
		}

		cmd := &main.StatsCmd{}

		err := cmd.Run(deps)

		require.NoError(t, err)
		output := stdout.String()
		assert.Contains(t, output, "3 / 100")
		assert.Contains(t, output, "4096 / 1048576")
	})
}
