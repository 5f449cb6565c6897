package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestModulesResolve(t *testing.T) {
	for name, module := range map[string]fx.Option{
		"api":    APIModule,
		"worker": WorkerModule,
		"seed":   SeedModule,
	} {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, fx.ValidateApp(module, fx.NopLogger))
		})
	}
}
