package assistant

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	t.Run("wrapped sentinel", func(t *testing.T) {
		err := fmt.Errorf("provider says no: %w", ErrRateLimited)
		assert.Equal(t, FailureRateLimited, Classify(err))
	})

	t.Run("phrase fallback", func(t *testing.T) {
		cases := []string{
			"upstream Rate Limit exceeded",
			"daily token limit reached",
			"quota exhausted for project",
			"429 Too Many Requests",
		}
		for _, msg := range cases {
			assert.Equal(t, FailureRateLimited, Classify(errors.New(msg)), msg)
		}
	})

	t.Run("other errors are service failures", func(t *testing.T) {
		assert.Equal(t, FailureService, Classify(errors.New("connection refused")))
		assert.Equal(t, FailureService, Classify(errors.New("model not found")))
		assert.Equal(t, FailureService, Classify(nil))
	})
}
