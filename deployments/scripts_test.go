package deployments_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/EscanBE/valueiou/deployments"
	iotypes "github.com/EscanBE/valueiou/types"
)

func recording(order *[]string, name string, tags []string, deps ...string) deployments.Script {
	return deployments.Script{
		Name:         name,
		Tags:         tags,
		Dependencies: deps,
		Func: func(_ context.Context, _ *deployments.Environment) error {
			*order = append(*order, name)
			return nil
		},
	}
}

func TestRegistry_Run(t *testing.T) {
	tests := []struct {
		name    string
		scripts func(order *[]string) []deployments.Script
		tags    []string
		want    []string
	}{
		{
			name: "pass - all scripts sorted by name",
			scripts: func(order *[]string) []deployments.Script {
				return []deployments.Script{
					recording(order, "002_b", []string{"B"}),
					recording(order, "001_a", []string{"A"}),
					recording(order, "003_c", []string{"C"}),
				}
			},
			want: []string{"001_a", "002_b", "003_c"},
		},
		{
			name: "pass - only tagged",
			scripts: func(order *[]string) []deployments.Script {
				return []deployments.Script{
					recording(order, "001_a", []string{"A"}),
					recording(order, "002_b", []string{"B"}),
				}
			},
			tags: []string{"B"},
			want: []string{"002_b"},
		},
		{
			name: "pass - dependencies first",
			scripts: func(order *[]string) []deployments.Script {
				return []deployments.Script{
					recording(order, "001_token", []string{"Token"}, "Oracle"),
					recording(order, "002_oracle", []string{"Oracle"}),
				}
			},
			tags: []string{"Token"},
			want: []string{"002_oracle", "001_token"},
		},
		{
			name: "pass - each script once",
			scripts: func(order *[]string) []deployments.Script {
				return []deployments.Script{
					recording(order, "001_a", []string{"A", "Core"}),
					recording(order, "002_b", []string{"B"}, "A"),
				}
			},
			tags: []string{"A", "B", "Core"},
			want: []string{"001_a", "002_b"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var order []string
			registry, err := deployments.NewRegistry(tt.scripts(&order)...)
			require.NoError(t, err)

			err = registry.Run(context.Background(), &deployments.Environment{Network: "test"}, tt.tags...)
			require.NoError(t, err)
			require.Equal(t, tt.want, order)
		})
	}
}

func TestRegistry_Invalid(t *testing.T) {
	var order []string

	t.Run("fail - duplicated name", func(t *testing.T) {
		_, err := deployments.NewRegistry(
			recording(&order, "001_a", nil),
			recording(&order, "001_a", nil),
		)
		require.ErrorIs(t, err, iotypes.ErrInvalidScript)
	})

	t.Run("fail - no function", func(t *testing.T) {
		_, err := deployments.NewRegistry(deployments.Script{Name: "001_a"})
		require.ErrorIs(t, err, iotypes.ErrInvalidScript)
	})

	t.Run("fail - cycle", func(t *testing.T) {
		registry, err := deployments.NewRegistry(
			recording(&order, "001_a", []string{"A"}, "B"),
			recording(&order, "002_b", []string{"B"}, "A"),
		)
		require.NoError(t, err)

		_, err = registry.Plan()
		require.ErrorIs(t, err, iotypes.ErrInvalidScript)
	})

	t.Run("fail - unknown tag", func(t *testing.T) {
		registry, err := deployments.NewRegistry(recording(&order, "001_a", []string{"A"}))
		require.NoError(t, err)

		err = registry.Run(context.Background(), &deployments.Environment{}, "Nope")
		require.ErrorIs(t, err, iotypes.ErrInvalidScript)
	})

	t.Run("fail - unknown dependency", func(t *testing.T) {
		registry, err := deployments.NewRegistry(recording(&order, "001_a", []string{"A"}, "Nope"))
		require.NoError(t, err)

		_, err = registry.Plan()
		require.ErrorIs(t, err, iotypes.ErrInvalidScript)
	})

	require.Empty(t, order)
}

func TestRegistry_Run_StopsOnError(t *testing.T) {
	var order []string
	boom := errors.New("boom")

	registry, err := deployments.NewRegistry(
		deployments.Script{
			Name: "001_fail",
			Func: func(context.Context, *deployments.Environment) error { return boom },
		},
		recording(&order, "002_after", nil),
	)
	require.NoError(t, err)

	err = registry.Run(context.Background(), &deployments.Environment{})
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "001_fail")
	require.Empty(t, order)
}
