package jobs

import (
	"context"
	"testing"

	"github.com/gitscope/gitscope/pkg/config"
	"github.com/matryer/is"
)

type noopRunner struct{}

func (noopRunner) Spec(context.Context) string { return "@every 1h" }
func (noopRunner) Func(context.Context) func() { return func() {} }

func TestRegisterAndList(t *testing.T) {
	is := is.New(t)
	Register("noop", noopRunner{})

	list := List()
	is.True(list["noop"] != nil)
	is.True(list["sync"] != nil) // registered by init
	is.Equal(list["noop"].Runner.Spec(context.TODO()), "@every 1h")
}

func TestSyncJobSpec(t *testing.T) {
	is := is.New(t)
	cfg := config.DefaultConfig()
	cfg.Jobs.Sync = "@every 5m"
	ctx := config.WithContext(context.TODO(), cfg)

	is.Equal(syncJob{}.Spec(ctx), "@every 5m")
}
