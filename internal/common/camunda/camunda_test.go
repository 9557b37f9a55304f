// internal/common/camunda/camunda_test.go
package camunda

import (
	"errors"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/stretchr/testify/assert"

	"survey-workers/internal/common/config"
	"survey-workers/internal/common/logger"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("rpc error: code = Unavailable desc = connection refused"), true},
		{errors.New("context deadline exceeded"), true},
		{errors.New("write: broken pipe"), true},
		{errors.New("rpc error: code = NotFound desc = job not found"), false},
		{errors.New("permission denied"), false},
		{nil, false},
	}
	for _, tt := range tests {
		name := "nil"
		if tt.err != nil {
			name = tt.err.Error()
		}
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestWorkers_DisabledWorkerIsNotOpened(t *testing.T) {
	w := NewWorkers(nil, logger.NewTestLogger(t))

	started := w.Start("extract-chart", config.WorkerConfig{Enabled: false}, func(worker.JobClient, entities.Job) {})

	assert.False(t, started)
	assert.Empty(t, w.TaskTypes())
	w.Close()
}
