package bot

import (
	"testing"

	"github.com/ParallelMatter/Pillo-sub000/internal/config"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewRequiresToken(t *testing.T) {
	b, err := New(&config.Config{Timezone: "UTC"}, zap.NewNop())
	assert.ErrorIs(t, err, config.ErrMissingToken)
	assert.Nil(t, b)
}
