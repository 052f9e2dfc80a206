package statefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load(t *testing.T) {
	t.Parallel()

	type state struct {
		Names []string `json:"names"`
	}

	testCases := map[string]struct {
		fileContent *string
		expected    state
		errWrapped  error
	}{
		"missing_file": {},
		"valid_file": {
			fileContent: ptrTo(`{"names": ["a", "b"]}`),
			expected:    state{Names: []string{"a", "b"}},
		},
		"corrupt_file": {
			fileContent: ptrTo(`{"names": [`),
			errWrapped:  ErrCorrupt,
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "state.json")
			if testCase.fileContent != nil {
				err := os.WriteFile(path, []byte(*testCase.fileContent), 0o600)
				require.NoError(t, err)
			}

			var target state
			err := Load(path, &target)

			assert.ErrorIs(t, err, testCase.errWrapped)
			assert.Equal(t, testCase.expected, target)
		})
	}
}

func Test_Save_then_Load(t *testing.T) {
	t.Parallel()

	type state struct {
		Counter int `json:"counter"`
	}

	path := filepath.Join(t.TempDir(), "state.json")

	err := Save(path, state{Counter: 3})
	require.NoError(t, err)

	var loaded state
	err = Load(path, &loaded)
	require.NoError(t, err)
	assert.Equal(t, state{Counter: 3}, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1) // no temporary file left behind
}

func ptrTo[T any](value T) *T { return &value }
