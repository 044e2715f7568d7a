package catalog

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/stylepath-backend/internal/domain"
)

//go:embed sample_catalog.yaml
var sampleFS embed.FS

// Catalog is the authored content tree: styles, courses, sections, per-style
// variants and their questions.
type Catalog struct {
	Version int          `yaml:"version"`
	Styles  []StyleSpec  `yaml:"styles"`
	Courses []CourseSpec `yaml:"courses"`
}

type StyleSpec struct {
	Key  string `yaml:"key"`
	Name string `yaml:"name"`
}

type CourseSpec struct {
	Key         string        `yaml:"key"`
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Sections    []SectionSpec `yaml:"sections"`
}

type SectionSpec struct {
	Key      string        `yaml:"key"`
	Kind     string        `yaml:"kind"`
	Title    string        `yaml:"title"`
	Variants []VariantSpec `yaml:"variants"`
}

// VariantSpec with an empty Style is the section's default variant.
type VariantSpec struct {
	Style     string         `yaml:"style"`
	Title     string         `yaml:"title"`
	Body      string         `yaml:"body"`
	Questions []QuestionSpec `yaml:"questions"`
}

type QuestionSpec struct {
	Key     string         `yaml:"key"`
	Prompt  string         `yaml:"prompt"`
	Choices []types.Choice `yaml:"choices"`
	Answer  string         `yaml:"answer"`
}

// Load reads a catalog from path, or the embedded sample when path is empty.
func Load(path string) (*Catalog, error) {
	var (
		data []byte
		err  error
	)
	if strings.TrimSpace(path) == "" {
		data, err = sampleFS.ReadFile("sample_catalog.yaml")
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks keys are present and unique within their parent, kinds are
// known, style references resolve and answers name one of the choices.
func Validate(c *Catalog) error {
	if c == nil {
		return errors.New("missing catalog")
	}
	styles := map[string]bool{}
	for _, s := range c.Styles {
		key := strings.TrimSpace(s.Key)
		if key == "" {
			return errors.New("style key is required")
		}
		if styles[key] {
			return fmt.Errorf("duplicate style key: %s", key)
		}
		styles[key] = true
	}

	courses := map[string]bool{}
	for _, course := range c.Courses {
		ck := strings.TrimSpace(course.Key)
		if ck == "" {
			return errors.New("course key is required")
		}
		if courses[ck] {
			return fmt.Errorf("duplicate course key: %s", ck)
		}
		courses[ck] = true

		sections := map[string]bool{}
		for _, sec := range course.Sections {
			sk := strings.TrimSpace(sec.Key)
			if sk == "" {
				return fmt.Errorf("%s: section key is required", ck)
			}
			if sections[sk] {
				return fmt.Errorf("%s: duplicate section key: %s", ck, sk)
			}
			sections[sk] = true
			if !types.SectionKind(sec.Kind).Valid() {
				return fmt.Errorf("%s/%s: unknown section kind %q", ck, sk, sec.Kind)
			}
			if err := validateVariants(ck+"/"+sk, sec, styles); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateVariants(path string, sec SectionSpec, styles map[string]bool) error {
	seen := map[string]bool{}
	for _, v := range sec.Variants {
		style := strings.TrimSpace(v.Style)
		if style != "" && !styles[style] {
			return fmt.Errorf("%s: unknown style %q", path, style)
		}
		if seen[style] {
			return fmt.Errorf("%s: more than one variant for style %q", path, style)
		}
		seen[style] = true

		if !types.SectionKind(sec.Kind).Gradeable() && len(v.Questions) > 0 {
			return fmt.Errorf("%s: learn sections cannot carry questions", path)
		}
		questions := map[string]bool{}
		for _, q := range v.Questions {
			qk := strings.TrimSpace(q.Key)
			if qk == "" {
				return fmt.Errorf("%s: question key is required", path)
			}
			if questions[qk] {
				return fmt.Errorf("%s: duplicate question key: %s", path, qk)
			}
			questions[qk] = true
			if strings.TrimSpace(q.Answer) == "" {
				return fmt.Errorf("%s/%s: answer is required", path, qk)
			}
			if len(q.Choices) > 0 && !hasChoice(q.Choices, q.Answer) {
				return fmt.Errorf("%s/%s: answer %q is not a choice", path, qk, q.Answer)
			}
		}
	}
	return nil
}

func hasChoice(choices []types.Choice, key string) bool {
	for _, c := range choices {
		if c.Key == key {
			return true
		}
	}
	return false
}
