package notify

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/qdm12/dns-inventory/internal/diff"
	"github.com/qdm12/dns-inventory/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	messages []string
	err      error
}

func (d *recordingDispatcher) Notify(message string) error {
	d.messages = append(d.messages, message)
	return d.err
}

type testLogger struct{}

func (l testLogger) Debug(_ string) {}
func (l testLogger) Info(_ string)  {}
func (l testLogger) Warn(_ string)  {}

func newTestConsumer(t *testing.T, kind Kind,
	dispatcher Dispatcher) *Consumer {
	t.Helper()
	return NewConsumer(ConsumerSettings{
		Name:         "test",
		Kind:         kind,
		SnapshotPath: filepath.Join(t.TempDir(), "snapshot-test.json"),
		MaxItems:     20,
		Dispatcher:   dispatcher,
		Logger:       testLogger{},
	})
}

func Test_Consumer_Process(t *testing.T) {
	t.Parallel()

	asset := models.Asset{Domain: "a.com", Owner: "www", RecordType: "A",
		Value: "203.0.113.5", Source: models.SourceGoDaddy,
		DiscoveryDate: "2025-06-01"}
	snapshot := diff.Capture([]models.Asset{asset}, nil)

	t.Run("first_run_notifies_then_quiesces", func(t *testing.T) {
		t.Parallel()

		dispatcher := &recordingDispatcher{}
		consumer := newTestConsumer(t, KindAssets, dispatcher)

		require.NoError(t, consumer.Process(snapshot))
		require.Len(t, dispatcher.messages, 1)
		assert.Contains(t, dispatcher.messages[0], "1 new DNS record discovered")
		assert.Contains(t, dispatcher.messages[0], "A www.a.com -> 203.0.113.5")

		// same snapshot again sends nothing
		require.NoError(t, consumer.Process(snapshot))
		assert.Len(t, dispatcher.messages, 1)
	})

	t.Run("failed_dispatch_does_not_acknowledge", func(t *testing.T) {
		t.Parallel()

		errDispatch := errors.New("service unavailable")
		dispatcher := &recordingDispatcher{err: errDispatch}
		consumer := newTestConsumer(t, KindAssets, dispatcher)

		err := consumer.Process(snapshot)
		assert.ErrorIs(t, err, errDispatch)

		// dispatch recovers and the same item is retried
		dispatcher.err = nil
		require.NoError(t, consumer.Process(snapshot))
		assert.Len(t, dispatcher.messages, 2)
	})

	t.Run("empty_diff_still_acknowledges", func(t *testing.T) {
		t.Parallel()

		dispatcher := &recordingDispatcher{}
		consumer := newTestConsumer(t, KindAssets, dispatcher)

		require.NoError(t, consumer.Process(diff.Snapshot{}))
		assert.Empty(t, dispatcher.messages)

		lastAcknowledged, err := diff.LoadSnapshot(consumer.snapshotPath)
		require.NoError(t, err)
		assert.NotNil(t, lastAcknowledged.Assets)
	})

	t.Run("domains_consumer", func(t *testing.T) {
		t.Parallel()

		dispatcher := &recordingDispatcher{}
		consumer := newTestConsumer(t, KindDomains, dispatcher)

		domain := models.Domain{Name: "a.com",
			Status: models.DomainStatusActive,
			Source: models.SourceGoDaddy, DiscoveryDate: "2025-06-01"}
		require.NoError(t, consumer.Process(
			diff.Capture(nil, []models.Domain{domain})))

		require.Len(t, dispatcher.messages, 1)
		assert.Contains(t, dispatcher.messages[0], "1 new domain discovered")
		assert.Contains(t, dispatcher.messages[0], "a.com [ACTIVE]")
	})
}

func Test_formatMessage_truncation(t *testing.T) {
	t.Parallel()

	lines := []string{"one", "two", "three", "four"}

	message := formatMessage("item", lines, 2)

	assert.Contains(t, message, "4 new items discovered")
	assert.Contains(t, message, "- one")
	assert.Contains(t, message, "- two")
	assert.NotContains(t, message, "- three")
	assert.Contains(t, message, "... and 2 more")
}
