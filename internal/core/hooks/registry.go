package hooks

import (
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aki/hookrunner/internal/core/config"
	"github.com/aki/hookrunner/internal/core/event"
)

// Registry holds the compiled hook definitions for one settings
// document, indexed by event. Definitions keep their declaration
// order: groups in file order, commands in group order, which is also
// the order results come back in.
type Registry struct {
	byEvent     map[event.Kind][]*Definition
	byName      map[event.Kind]map[string]*Definition
	concurrency int
}

// NewRegistry compiles validated settings into a registry. Hooks
// without an explicit name get one derived from their matcher and
// command; two hooks on the same event resolving to the same name is
// a configuration error.
func NewRegistry(settings *config.Settings) (*Registry, error) {
	r := &Registry{
		byEvent:     make(map[event.Kind][]*Definition),
		byName:      make(map[event.Kind]map[string]*Definition),
		concurrency: settings.Concurrency,
	}

	// Sorted event order keeps error reporting stable across loads
	eventNames := make([]string, 0, len(settings.Hooks))
	for name := range settings.Hooks {
		eventNames = append(eventNames, name)
	}
	sort.Strings(eventNames)

	for _, eventName := range eventNames {
		kind, err := event.ParseKind(eventName)
		if err != nil {
			return nil, err
		}

		for _, group := range settings.Hooks[eventName] {
			matcher, err := CompileMatcher(group.Matcher)
			if err != nil {
				return nil, ErrInvalidMatcher{Event: kind, Pattern: group.Matcher, Reason: err.Error()}
			}

			for _, spec := range group.Hooks {
				def := &Definition{
					Name:      spec.Name,
					Event:     kind,
					Matcher:   group.Matcher,
					Command:   spec.Command,
					TimeoutMs: spec.TimeoutMs,
					Blocking:  group.Blocking,
					matcher:   matcher,
				}
				if def.TimeoutMs <= 0 {
					def.TimeoutMs = config.DefaultTimeoutMs
				}
				def.Timeout = time.Duration(def.TimeoutMs) * time.Millisecond
				if def.Name == "" {
					def.Name = deriveName(group.Matcher, spec.Command)
				}

				if err := r.add(def); err != nil {
					return nil, err
				}
			}
		}
	}

	return r, nil
}

func (r *Registry) add(def *Definition) error {
	names := r.byName[def.Event]
	if names == nil {
		names = make(map[string]*Definition)
		r.byName[def.Event] = names
	}
	if _, exists := names[def.Name]; exists {
		return ErrDuplicateHook{Event: def.Event, Name: def.Name}
	}

	names[def.Name] = def
	r.byEvent[def.Event] = append(r.byEvent[def.Event], def)
	return nil
}

// Query returns the definitions matching an event occurrence, in
// declaration order.
func (r *Registry) Query(kind event.Kind, toolName, filePath string) []*Definition {
	var matched []*Definition
	for _, def := range r.byEvent[kind] {
		if def.Matches(toolName, filePath) {
			matched = append(matched, def)
		}
	}
	return matched
}

// Definitions returns every definition registered for an event, in
// declaration order.
func (r *Registry) Definitions(kind event.Kind) []*Definition {
	defs := r.byEvent[kind]
	out := make([]*Definition, len(defs))
	copy(out, defs)
	return out
}

// Lookup finds a definition by event and name
func (r *Registry) Lookup(kind event.Kind, name string) (*Definition, bool) {
	def, ok := r.byName[kind][name]
	return def, ok
}

// Events returns the events that have at least one hook, in the
// canonical event order.
func (r *Registry) Events() []event.Kind {
	var out []event.Kind
	for _, kind := range event.Kinds() {
		if len(r.byEvent[kind]) > 0 {
			out = append(out, kind)
		}
	}
	return out
}

// Len returns the total number of registered definitions
func (r *Registry) Len() int {
	n := 0
	for _, defs := range r.byEvent {
		n += len(defs)
	}
	return n
}

// Concurrency returns the configured dispatch width, zero meaning
// the dispatcher default.
func (r *Registry) Concurrency() int {
	return r.concurrency
}

// Registry lets a bare registry satisfy RegistryProvider
func (r *Registry) Registry() *Registry {
	return r
}

// deriveName builds a stable name for hooks configured without one.
// The first command word keeps names readable; the hash suffix keeps
// them unique across matchers.
func deriveName(matcher, command string) string {
	sum := sha256.Sum256([]byte(matcher + "\x00" + command))

	word := command
	if i := strings.IndexAny(word, " \t"); i >= 0 {
		word = word[:i]
	}
	if i := strings.LastIndexAny(word, "/\\"); i >= 0 {
		word = word[i+1:]
	}
	word = strings.Map(func(c rune) rune {
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_', c == '.':
			return c
		case c >= 'A' && c <= 'Z':
			return c + ('a' - 'A')
		default:
			return -1
		}
	}, word)
	if word == "" {
		word = "hook"
	}

	return fmt.Sprintf("%s-%x", word, sum[:4])
}
