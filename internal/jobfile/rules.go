package jobfile

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"collator/internal/columns"
)

// rule extracts one parameter from the job file text. Returned errors are
// plain reasons; Parse attaches the job and parameter.
type rule interface {
	extract(text string) (Value, error)
}

// quotedRule reads NAME='value'. The first occurrence wins.
type quotedRule struct {
	pattern *regexp.Regexp
}

func newQuotedRule(name string) quotedRule {
	return quotedRule{pattern: regexp.MustCompile(`(?:^|[^A-Za-z0-9_])` + regexp.QuoteMeta(name) + `\s*=\s*'([^']*)'`)}
}

func (r quotedRule) extract(text string) (Value, error) {
	m := r.pattern.FindStringSubmatch(text)
	if m == nil {
		return Value{}, errors.New("assignment marker not found")
	}
	raw := strings.TrimSpace(m[1])
	if v, err := columns.ParseFloat(raw); err == nil {
		return Float(v), nil
	}
	return Text(raw), nil
}

// terminatedRule reads NAME=value where the value ends at a terminator
// instead of a closing quote. TEMP and TSHOCK end at a period, ALTINH ends at
// whitespace.
type terminatedRule struct {
	name   string
	marker *regexp.Regexp
	// end returns the index of the terminator in rest, or -1.
	end  func(rest string) int
	what string
}

func newPeriodRule(name string) terminatedRule {
	return terminatedRule{
		name:   name,
		marker: markerPattern(name),
		end:    func(rest string) int { return strings.IndexByte(rest, '.') },
		what:   "'.'",
	}
}

func newWhitespaceRule(name string) terminatedRule {
	return terminatedRule{
		name:   name,
		marker: markerPattern(name),
		end:    func(rest string) int { return strings.IndexFunc(rest, unicode.IsSpace) },
		what:   "whitespace",
	}
}

func markerPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^A-Za-z0-9_])` + regexp.QuoteMeta(name) + `=`)
}

func (r terminatedRule) extract(text string) (Value, error) {
	loc := r.marker.FindStringIndex(text)
	if loc == nil {
		return Value{}, errors.New("assignment marker not found")
	}
	rest := strings.TrimPrefix(text[loc[1]:], "'")
	stop := r.end(rest)
	if stop < 0 {
		return Value{}, fmt.Errorf("missing %s after value", r.what)
	}
	raw := strings.TrimSpace(rest[:stop])
	v, err := columns.ParseFloat(raw)
	if err != nil {
		return Value{}, fmt.Errorf("value %q before %s is not numeric", raw, r.what)
	}
	return Float(v), nil
}
