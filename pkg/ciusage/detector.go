package ciusage

import (
	"strings"

	"github.com/m-mizutani/cistudy/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Detector tells whether a workflow file runs a build or test command in one of its jobs
type Detector struct {
	matcher     CommandMatcher
	requirePush bool
}

type Option func(*Detector)

// WithPushTrigger additionally requires the workflow to be triggered on push
func WithPushTrigger() Option {
	return func(x *Detector) {
		x.requirePush = true
	}
}

func New(matcher CommandMatcher, options ...Option) *Detector {
	d := &Detector{matcher: matcher}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// UsesCI returns true if the workflow is a YAML file and some "run" step under its top-level "jobs"
// matches the command matcher. A file that cannot be parsed is reported as an error.
func (x *Detector) UsesCI(wf model.WorkflowContent) (bool, error) {
	if !(model.WorkflowFile{Name: wf.Name}).IsYAML() {
		return false, nil
	}

	var doc yaml.Node
	// YAML forbids tabs for indentation, but workflows in the wild contain them
	text := strings.ReplaceAll(wf.Text, "\t", " ")
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return false, goerr.Wrap(err, "failed to parse workflow", goerr.V("name", wf.Name))
	}

	if x.requirePush && !triggeredOnPush(lookup(&doc, "on")) {
		return false, nil
	}

	jobs := lookup(&doc, "jobs")
	if jobs == nil {
		return false, nil
	}

	return x.walk(jobs, 0), nil
}

const maxDepth = 64

func (x *Detector) walk(node *yaml.Node, depth int) bool {
	if node == nil || depth > maxDepth {
		return false
	}

	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, child := range node.Content {
			if x.walk(child, depth+1) {
				return true
			}
		}

	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], resolve(node.Content[i+1])
			if key.Value == "run" && value != nil && value.Kind == yaml.ScalarNode && value.ShortTag() == "!!str" {
				if x.matcher.Match(value.Value) {
					return true
				}
				continue
			}
			if x.walk(value, depth+1) {
				return true
			}
		}

	case yaml.AliasNode:
		return x.walk(node.Alias, depth+1)
	}

	return false
}

// lookup returns the value of key in the top-level mapping of a document
func lookup(doc *yaml.Node, key string) *yaml.Node {
	root := doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil
		}
		root = root.Content[0]
	}
	root = resolve(root)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value == key {
			value := resolve(root.Content[i+1])
			if value == nil || value.Tag == "!!null" {
				return nil
			}
			return value
		}
	}
	return nil
}

func resolve(node *yaml.Node) *yaml.Node {
	for i := 0; node != nil && node.Kind == yaml.AliasNode && i < maxDepth; i++ {
		node = node.Alias
	}
	return node
}

func triggeredOnPush(on *yaml.Node) bool {
	if on == nil {
		return false
	}

	switch on.Kind {
	case yaml.ScalarNode:
		return on.Value == "push"
	case yaml.SequenceNode:
		for _, item := range on.Content {
			if resolve(item).Value == "push" {
				return true
			}
		}
	case yaml.MappingNode:
		for i := 0; i < len(on.Content); i += 2 {
			if on.Content[i].Value == "push" {
				return true
			}
		}
	}
	return false
}
