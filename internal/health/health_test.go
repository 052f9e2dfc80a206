package health

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeDatabase struct {
	lastRunTime time.Time
	lastRunErr  error
}

func (db fakeDatabase) LastRun() (time.Time, error) {
	return db.lastRunTime, db.lastRunErr
}

func Test_isHealthy(t *testing.T) {
	t.Parallel()

	errRun := errors.New("provider unreachable")

	testCases := map[string]struct {
		db         fakeDatabase
		errWrapped error
	}{
		"no_run_yet": {
			db:         fakeDatabase{},
			errWrapped: errNoRunCompleted,
		},
		"last_run_failed": {
			db: fakeDatabase{
				lastRunTime: time.Now(),
				lastRunErr:  errRun,
			},
			errWrapped: errRun,
		},
		"healthy": {
			db: fakeDatabase{
				lastRunTime: time.Now(),
			},
		},
	}

	for name, testCase := range testCases {
		testCase := testCase
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := isHealthy(testCase.db)

			if testCase.errWrapped != nil {
				assert.ErrorIs(t, err, testCase.errWrapped)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
