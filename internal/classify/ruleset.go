// Package classify tags runtime-API call forms in generated code and derives
// a per-line cost score from them. The rules are data: a RuleSet can be
// loaded from TOML or YAML so naming conventions evolve without code changes.
package classify

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Category names a class of recognized call forms. It doubles as the CSS
// class of the markup wrapped around a match.
type Category string

// Categories of the built-in rule set.
const (
	CategoryRefNanny      Category = "refnanny"
	CategoryInternalMacro Category = "internal_macro"
	CategoryInternalCall  Category = "internal_call"
	CategoryRuntimeMacro  Category = "runtime_macro"
	CategoryRuntimeCall   Category = "runtime_call"
	CategoryErrorGoto     Category = "error_goto"
)

var (
	// ErrUnknownCategory is returned when a weight names a category no rule produces.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrInvalidRule is returned for rules that cannot be compiled.
	ErrInvalidRule = errors.New("invalid rule")
)

var categoryName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

//go:embed rules/cython.toml
var defaultRules []byte

// RuleSpec is one matcher of a rule set, in its data form.
//
// Call requires the match to be directly followed by an opening parenthesis,
// so a bare mention of an API symbol is not counted. After requires the text
// right before the match to end with the given literal.
type RuleSpec struct {
	Category Category `toml:"category" yaml:"category"`
	Pattern  string   `toml:"pattern" yaml:"pattern"`
	Call     bool     `toml:"call,omitempty" yaml:"call,omitempty"`
	After    string   `toml:"after,omitempty" yaml:"after,omitempty"`
}

// RuleSet is an ordered, versioned list of rules plus per-category weights.
// Declaration order decides between matches of equal length.
type RuleSet struct {
	Name    string         `toml:"name" yaml:"name"`
	Version string         `toml:"version" yaml:"version"`
	Weights map[string]int `toml:"weights" yaml:"weights"`
	Rules   []RuleSpec     `toml:"rules" yaml:"rules"`
}

// DefaultRuleSet returns the built-in CPython C-API rule set.
func DefaultRuleSet() *RuleSet {
	set, err := DecodeTOML(bytes.NewReader(defaultRules))
	if err != nil {
		panic(fmt.Errorf("builtin rule set: %w", err))
	}
	return set
}

// LoadRuleSet reads a rule set file; the format follows the extension
// (.toml, .yaml, .yml).
func LoadRuleSet(path string) (*RuleSet, error) {
	// #nosec G304 -- path is provided by the caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var set *RuleSet
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		set, err = DecodeTOML(bytes.NewReader(data))
	case ".yaml", ".yml":
		set, err = DecodeYAML(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("%s: unsupported rule set format (expected .toml, .yaml or .yml)", path)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// DecodeTOML parses a TOML rule set.
func DecodeTOML(r io.Reader) (*RuleSet, error) {
	var set RuleSet
	meta, err := toml.NewDecoder(r).Decode(&set)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if !meta.IsDefined("rules") {
		return nil, fmt.Errorf("missing [[rules]]")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q", undecoded[0].String())
	}
	return &set, nil
}

// DecodeYAML parses a YAML rule set.
func DecodeYAML(r io.Reader) (*RuleSet, error) {
	var set RuleSet
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(set.Rules) == 0 {
		return nil, fmt.Errorf("missing rules")
	}
	return &set, nil
}

// EncodeTOML writes set in the TOML rule set format.
func (set *RuleSet) EncodeTOML(w io.Writer) error {
	return toml.NewEncoder(w).Encode(set)
}

// EncodeYAML writes set in the YAML rule set format.
func (set *RuleSet) EncodeYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(set); err != nil {
		return err
	}
	return enc.Close()
}

// Categories returns the distinct rule categories in declaration order.
func (set *RuleSet) Categories() []Category {
	seen := make(map[Category]bool, len(set.Rules))
	out := make([]Category, 0, len(set.Rules))
	for _, r := range set.Rules {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, r.Category)
	}
	return out
}

// Weight returns the score weight of c; categories without a weight score 0.
func (set *RuleSet) Weight(c Category) int {
	return set.Weights[string(c)]
}

// Label identifies the rule set in reports, e.g. "cython-capi/1".
func (set *RuleSet) Label() string {
	if set.Version == "" {
		return set.Name
	}
	return set.Name + "/" + set.Version
}

type rule struct {
	category Category
	re       *regexp.Regexp
	prefix   string
	call     bool
	after    string
}

func compileRule(spec RuleSpec) (rule, error) {
	if !categoryName.MatchString(string(spec.Category)) {
		return rule{}, fmt.Errorf("%w: bad category name %q", ErrInvalidRule, spec.Category)
	}
	if spec.Pattern == "" {
		return rule{}, fmt.Errorf("%w: %s: empty pattern", ErrInvalidRule, spec.Category)
	}
	expr := "^(?:" + spec.Pattern + ")"
	if spec.Call {
		// lookahead: the "(" is matched but not consumed
		expr += `\(`
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return rule{}, fmt.Errorf("%w: %s: %w", ErrInvalidRule, spec.Category, err)
	}
	prefix, _ := regexp.MustCompile("(?:" + spec.Pattern + ")").LiteralPrefix()
	return rule{
		category: spec.Category,
		re:       re,
		prefix:   prefix,
		call:     spec.Call,
		after:    spec.After,
	}, nil
}

// match returns the length of the rule's match at text[i:], 0 when it does not apply.
func (r *rule) match(text string, i int) int {
	rest := text[i:]
	if r.prefix != "" && !strings.HasPrefix(rest, r.prefix) {
		return 0
	}
	if r.after != "" && !strings.HasSuffix(text[:i], r.after) {
		return 0
	}
	loc := r.re.FindStringIndex(rest)
	if loc == nil {
		return 0
	}
	n := loc[1]
	if r.call {
		n--
	}
	return n
}
