package diff

import (
	"path/filepath"
	"testing"

	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeSnapshot(assetOwners ...string) Snapshot {
	assets := make([]models.Asset, len(assetOwners))
	for i, owner := range assetOwners {
		assets[i] = models.Asset{
			Domain:     "a.com",
			Owner:      owner,
			RecordType: "A",
			Value:      "203.0.113.5",
		}
	}
	return Capture(assets, nil)
}

func Test_Snapshot_NewAssets(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		current   Snapshot
		lastAck   Snapshot
		newOwners []string
	}{
		"diff_with_self_is_empty": {
			current: makeSnapshot("www", "mail"),
			lastAck: makeSnapshot("www", "mail"),
		},
		"one_addition": {
			current:   makeSnapshot("www", "mail", "api"),
			lastAck:   makeSnapshot("www", "mail"),
			newOwners: []string{"api"},
		},
		"empty_ack_reports_everything": {
			current:   makeSnapshot("www"),
			newOwners: []string{"www"},
		},
		"removal_is_not_new": {
			current: makeSnapshot("www"),
			lastAck: makeSnapshot("www", "mail"),
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			newAssets := testCase.current.NewAssets(testCase.lastAck)

			owners := make([]string, len(newAssets))
			for i, asset := range newAssets {
				owners[i] = asset.Owner
			}
			assert.ElementsMatch(t, testCase.newOwners, owners)
		})
	}
}

func Test_Snapshot_field_change_is_not_new(t *testing.T) {
	t.Parallel()

	previous := models.Asset{Domain: "a.com", Owner: "www",
		RecordType: "A", Value: "203.0.113.5",
		Status: models.AssetStatusActive}
	changed := previous
	changed.Status = models.AssetStatusRemoved
	changed.Source = models.SourceMultiple

	current := Capture([]models.Asset{changed}, nil)
	lastAck := Capture([]models.Asset{previous}, nil)

	assert.Empty(t, current.NewAssets(lastAck))
}

func Test_Snapshot_acknowledge_cycle(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "snapshot-test.json")

	// bootstrap: no acknowledged snapshot yet
	lastAck, err := LoadSnapshot(path)
	require.NoError(t, err)

	current := makeSnapshot("www")
	require.Len(t, current.NewAssets(lastAck), 1)

	// acknowledging with zero new items must also advance
	require.NoError(t, SaveSnapshot(path, current))

	// the same diff right after acknowledging yields nothing
	lastAck, err = LoadSnapshot(path)
	require.NoError(t, err)
	assert.Empty(t, current.NewAssets(lastAck))
}
