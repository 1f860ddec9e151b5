package deployments

import (
	"context"
	"sort"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"

	iotypes "github.com/EscanBE/valueiou/types"
)

// Environment is what a deploy script runs against.
type Environment struct {
	Network     string
	Deployments *Deployments
	Accounts    *NamedAccounts
	Logger      log.Logger
}

// DeployFunc is the body of a deploy script.
type DeployFunc func(ctx context.Context, env *Environment) error

// Script is a named, tagged deploy step.
type Script struct {
	Name string
	Tags []string

	// Dependencies are tags whose scripts must run before this one.
	Dependencies []string

	Func DeployFunc
}

func (s Script) hasTag(tag string) bool {
	for _, t := range s.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Registry holds deploy scripts.
type Registry struct {
	scripts map[string]Script
}

// NewRegistry creates a registry holding scripts.
func NewRegistry(scripts ...Script) (*Registry, error) {
	r := &Registry{scripts: make(map[string]Script)}
	for _, script := range scripts {
		if err := r.Register(script); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a script. Names must be unique.
func (r *Registry) Register(script Script) error {
	if script.Name == "" {
		return errorsmod.Wrap(iotypes.ErrInvalidScript, "empty name")
	}
	if script.Func == nil {
		return errorsmod.Wrapf(iotypes.ErrInvalidScript, "%s has no function", script.Name)
	}
	if _, found := r.scripts[script.Name]; found {
		return errorsmod.Wrapf(iotypes.ErrInvalidScript, "duplicated script %s", script.Name)
	}
	r.scripts[script.Name] = script
	return nil
}

// Scripts returns all scripts sorted by name.
func (r *Registry) Scripts() []Script {
	scripts := make([]Script, 0, len(r.scripts))
	for _, script := range r.scripts {
		scripts = append(scripts, script)
	}
	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].Name < scripts[j].Name
	})
	return scripts
}

func (r *Registry) tagged(tag string) []Script {
	var scripts []Script
	for _, script := range r.Scripts() {
		if script.hasTag(tag) {
			scripts = append(scripts, script)
		}
	}
	return scripts
}

// Plan resolves the scripts to run for tags, all when tags is empty, in execution order.
func (r *Registry) Plan(tags ...string) ([]Script, error) {
	var selected []Script
	if len(tags) == 0 {
		selected = r.Scripts()
	} else {
		for _, tag := range tags {
			scripts := r.tagged(tag)
			if len(scripts) == 0 {
				return nil, errorsmod.Wrapf(iotypes.ErrInvalidScript, "no script has tag %s", tag)
			}
			selected = append(selected, scripts...)
		}
	}

	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)
	var plan []Script

	var visit func(script Script) error
	visit = func(script Script) error {
		switch state[script.Name] {
		case done:
			return nil
		case visiting:
			return errorsmod.Wrapf(iotypes.ErrInvalidScript, "dependency cycle through %s", script.Name)
		}
		state[script.Name] = visiting

		for _, dep := range script.Dependencies {
			deps := r.tagged(dep)
			if len(deps) == 0 {
				return errorsmod.Wrapf(iotypes.ErrInvalidScript, "%s depends on unknown tag %s", script.Name, dep)
			}
			for _, d := range deps {
				if err := visit(d); err != nil {
					return err
				}
			}
		}

		state[script.Name] = done
		plan = append(plan, script)
		return nil
	}

	for _, script := range selected {
		if err := visit(script); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

// Run executes the scripts selected by tags against env, each at most once.
func (r *Registry) Run(ctx context.Context, env *Environment, tags ...string) error {
	plan, err := r.Plan(tags...)
	if err != nil {
		return err
	}

	logger := env.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}

	for _, script := range plan {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Debug("running deploy script", "script", script.Name, "network", env.Network)
		if err := script.Func(ctx, env); err != nil {
			return errorsmod.Wrapf(err, "deploy script %s", script.Name)
		}
	}
	return nil
}
