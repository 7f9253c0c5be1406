// Package interview walks the user through an ordered table of question
// stages, submitting each answer to the backend.
package interview

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultInitialStage is where a flow starts unless configured otherwise.
const DefaultInitialStage = "foundations"

//go:embed default_stages.yaml
var defaultStagesYAML []byte

// Stage is a named, ordered group of questions with an optional successor.
type Stage struct {
	Key       string   `yaml:"-"`
	Name      string   `yaml:"name"`
	Questions []string `yaml:"questions"`
	Next      string   `yaml:"next,omitempty"`
}

// IsLast reports whether the walk ends after this stage.
func (s Stage) IsLast() bool {
	return s.Next == ""
}

// StageTable is an immutable, ordered set of stages.
type StageTable struct {
	stages []Stage
	index  map[string]int
}

// NewStageTable builds a table from stages in walk order and validates it.
func NewStageTable(stages []Stage) (*StageTable, error) {
	t := &StageTable{
		stages: make([]Stage, 0, len(stages)),
		index:  make(map[string]int, len(stages)),
	}
	for _, s := range stages {
		if _, dup := t.index[s.Key]; dup {
			return nil, fmt.Errorf("duplicate stage key %q", s.Key)
		}
		s.Questions = append([]string(nil), s.Questions...)
		t.index[s.Key] = len(t.stages)
		t.stages = append(t.stages, s)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseStages reads a YAML mapping of stage key to stage. Mapping order is
// kept as the table order.
func ParseStages(data []byte) (*StageTable, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse stages: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New("parse stages: empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse stages: line %d: expected a mapping of stage keys", root.Line)
	}

	stages := make([]Stage, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valueNode := root.Content[i], root.Content[i+1]
		var s Stage
		if err := valueNode.Decode(&s); err != nil {
			return nil, fmt.Errorf("parse stages: stage %q: %w", keyNode.Value, err)
		}
		s.Key = keyNode.Value
		stages = append(stages, s)
	}
	return NewStageTable(stages)
}

// LoadStages reads the stage table from a YAML file.
func LoadStages(path string) (*StageTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stages file %s: %w", path, err)
	}
	t, err := ParseStages(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// DefaultStages returns the built-in stage table.
func DefaultStages() (*StageTable, error) {
	return ParseStages(defaultStagesYAML)
}

// validate checks that every walk over the table terminates on a valid
// question.
func (t *StageTable) validate() error {
	if len(t.stages) == 0 {
		return errors.New("stage table has no stages")
	}

	var errs []error
	for _, s := range t.stages {
		if strings.TrimSpace(s.Key) == "" {
			errs = append(errs, errors.New("stage with empty key"))
			continue
		}
		if strings.TrimSpace(s.Name) == "" {
			errs = append(errs, fmt.Errorf("stage %q: name is required", s.Key))
		}
		if len(s.Questions) == 0 {
			errs = append(errs, fmt.Errorf("stage %q: at least one question is required", s.Key))
		}
		for i, q := range s.Questions {
			if strings.TrimSpace(q) == "" {
				errs = append(errs, fmt.Errorf("stage %q: question %d is blank", s.Key, i+1))
			}
		}
		if s.Next != "" {
			if _, ok := t.index[s.Next]; !ok {
				errs = append(errs, fmt.Errorf("stage %q: next stage %q does not exist", s.Key, s.Next))
			}
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	for _, s := range t.stages {
		if err := t.checkTerminates(s.Key); err != nil {
			return err
		}
	}
	return nil
}

func (t *StageTable) checkTerminates(start string) error {
	seen := map[string]bool{start: true}
	path := []string{start}
	for key := start; ; {
		next := t.stages[t.index[key]].Next
		if next == "" {
			return nil
		}
		path = append(path, next)
		if seen[next] {
			return fmt.Errorf("stage cycle: %s", strings.Join(path, " -> "))
		}
		seen[next] = true
		key = next
	}
}

// Validate checks that initial names a stage of the table.
func (t *StageTable) Validate(initial string) error {
	if _, ok := t.index[initial]; !ok {
		return fmt.Errorf("initial stage %q not found (stages: %s)", initial, strings.Join(t.Keys(), ", "))
	}
	return nil
}

// Len returns the number of stages.
func (t *StageTable) Len() int {
	return len(t.stages)
}

// Keys returns the stage keys in table order.
func (t *StageTable) Keys() []string {
	keys := make([]string, len(t.stages))
	for i, s := range t.stages {
		keys[i] = s.Key
	}
	return keys
}

// Stages returns a copy of the stages in table order.
func (t *StageTable) Stages() []Stage {
	out := make([]Stage, len(t.stages))
	copy(out, t.stages)
	return out
}

// Stage looks up a stage by key.
func (t *StageTable) Stage(key string) (Stage, bool) {
	i, ok := t.index[key]
	if !ok {
		return Stage{}, false
	}
	return t.stages[i], true
}

// IndexOf returns the position of key in table order, or -1.
func (t *StageTable) IndexOf(key string) int {
	i, ok := t.index[key]
	if !ok {
		return -1
	}
	return i
}

// QuestionCount is the total number of questions across all stages.
func (t *StageTable) QuestionCount() int {
	n := 0
	for _, s := range t.stages {
		n += len(s.Questions)
	}
	return n
}
