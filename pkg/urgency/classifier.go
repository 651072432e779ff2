package urgency

import (
	"context"
	"fmt"

	"ai-helpdesk-be/pkg/schema"
)

// Classifier scores a message against a workspace's urgency rules. Both
// implementations return the identical UrgencyResult shape so callers
// stay classifier-agnostic.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, message string, rules []schema.UrgencyRule) (*schema.UrgencyResult, error)
}

// Registry is an explicit name→classifier lookup built at startup and
// passed to call sites. There is no package-level mutable registry.
type Registry struct {
	classifiers map[string]Classifier
}

func NewRegistry(classifiers ...Classifier) *Registry {
	r := &Registry{classifiers: map[string]Classifier{}}
	for _, c := range classifiers {
		r.classifiers[c.Name()] = c
	}
	return r
}

func (r *Registry) Register(c Classifier) {
	r.classifiers[c.Name()] = c
}

func (r *Registry) Get(name string) (Classifier, error) {
	c, ok := r.classifiers[name]
	if !ok {
		return nil, fmt.Errorf("unknown urgency classifier: %s", name)
	}
	return c, nil
}
