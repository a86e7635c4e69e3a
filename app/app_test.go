package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/lambda-feedback/msgbody/app/lambda"
	"github.com/lambda-feedback/msgbody/app/standalone"
	"github.com/lambda-feedback/msgbody/config"
	"github.com/lambda-feedback/msgbody/internal/shell"
)

func TestModules_Validate(t *testing.T) {
	shared := SharedModule(config.Config{})

	t.Run("standalone", func(t *testing.T) {
		s := shell.New(zaptest.NewLogger(t), shared)
		assert.NoError(t, s.Validate(standalone.Module(standalone.Config{})))
	})

	t.Run("lambda", func(t *testing.T) {
		s := shell.New(zaptest.NewLogger(t), shared)
		assert.NoError(t, s.Validate(lambda.Module(lambda.Config{})))
	})

	t.Run("missing shared module", func(t *testing.T) {
		s := shell.New(zaptest.NewLogger(t))
		assert.Error(t, s.Validate(standalone.Module(standalone.Config{})))
	})
}
