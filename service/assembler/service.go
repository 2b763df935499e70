// Package assembler compiles free-form recipe text into workflow images. A
// recipe is a line-oriented DSL: every non-blank line is one feature
// descriptor, classified by its command tag into the ordered step graph or
// the rule graph.
package assembler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/complyflow/complyflow/model"
	"github.com/complyflow/complyflow/model/expr"
	"github.com/complyflow/complyflow/model/graph"
	"github.com/complyflow/complyflow/service/assembler/descriptor"
	"github.com/complyflow/complyflow/service/dao"
	"github.com/complyflow/complyflow/tracing"
)

// ImageStore is the persistence contract Compile needs.
type ImageStore interface {
	Save(ctx context.Context, image *model.Image) error
}

// namedLookup is implemented by stores that can resolve an image by name,
// letting Compile keep a stable uuid across re-assemblies.
type namedLookup interface {
	LoadByName(ctx context.Context, name string) (*model.Image, error)
}

// Service assembles recipes into images.
type Service struct {
	images ImageStore
}

// Option customises the assembler.
type Option func(*Service)

// WithImageStore sets the store Compile persists through.
func WithImageStore(store ImageStore) Option {
	return func(s *Service) { s.images = store }
}

// New creates an assembler service.
func New(options ...Option) *Service {
	ret := &Service{}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Assemble parses recipe text into an image without persisting it. It never
// fails: malformed lines degrade to best-effort features and only log.
func (s *Service) Assemble(name, text string) *model.Image {
	image := model.NewImage(name)
	seen := map[string]bool{}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		feature := descriptor.Parse(line)
		feature.ID = uniqueID(feature.ID, seen)
		seen[feature.ID] = true

		if feature.Cmd == graph.RuleCmd {
			image.AddRule(s.newRule(feature))
			continue
		}
		image.AddStep(graph.NewStep(feature))
	}
	return image
}

// newRule builds a rule and caches its parsed test and action so that
// advancement never re-parses expressions. A rule with an unparseable test
// or action keeps a nil AST and can never fire.
func (s *Service) newRule(feature graph.Feature) *graph.Rule {
	rule := graph.NewRule(feature)
	if rule.TestPattern != "" {
		test, err := expr.ParseComparison(rule.TestPattern)
		if err != nil {
			log.Printf("assembler: rule %s has unparseable test %q: %v", rule.ID, rule.TestPattern, err)
		} else {
			rule.Test = test
		}
	}
	if rule.TrueAction != "" {
		action, err := expr.ParseCall(rule.TrueAction)
		if err != nil {
			log.Printf("assembler: rule %s has unparseable action %q: %v", rule.ID, rule.TrueAction, err)
		} else {
			rule.Action = action
		}
	}
	return rule
}

// Compile assembles a recipe and persists the resulting image,
// create-or-update by name: re-compiling an existing recipe replaces the
// whole step and rule graph under the same uuid. Instances created from the
// prior graph keep their own copies.
func (s *Service) Compile(ctx context.Context, recipe *model.Recipe) (*model.Image, error) {
	ctx, span := tracing.StartSpan(ctx, "assembler.compile")
	var err error
	defer func() {
		tracing.EndSpan(span, err)
	}()

	if s.images == nil {
		err = fmt.Errorf("assembler has no image store")
		return nil, err
	}
	if recipe == nil {
		err = fmt.Errorf("recipe was nil")
		return nil, err
	}

	image := s.Assemble(recipe.Name, recipe.Text)
	image.Recipe = recipe

	if lookup, ok := s.images.(namedLookup); ok {
		var existing *model.Image
		existing, err = lookup.LoadByName(ctx, recipe.Name)
		switch {
		case err == nil:
			image.UUID = existing.UUID
		case !errors.Is(err, dao.ErrNotFound):
			return nil, err
		default:
			err = nil
		}
	}

	if issues := image.Validate(); len(issues) > 0 {
		err = fmt.Errorf("recipe %s compiled to an invalid image: %w", recipe.Name, issues[0])
		return nil, err
	}
	if err = s.images.Save(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}

// Text renders an image back into recipe text. The transform is best-effort
// and lossy: free-form properties and comments do not survive.
func (s *Service) Text(image *model.Image) string {
	var lines []string
	for _, id := range image.StepOrder {
		step := image.Steps[id]
		if step == nil {
			continue
		}
		cmd := step.Cmd
		if cmd == "" {
			cmd = "step"
		}
		lines = append(lines, fmt.Sprintf("<%s prompt=%q id=%q>", cmd, step.Text, step.ID))
	}
	for _, id := range image.RuleOrder {
		rule := image.Rules[id]
		if rule == nil {
			continue
		}
		lines = append(lines, fmt.Sprintf("<%s test=%q true=%q id=%q>", graph.RuleCmd, rule.TestPattern, rule.TrueAction, rule.ID))
	}
	return strings.Join(lines, "\n")
}

// uniqueID resolves id collisions within one parse batch by suffixing until
// unique; deterministic for a fixed input sequence.
func uniqueID(id string, seen map[string]bool) string {
	for seen[id] {
		id += "_"
	}
	return id
}
