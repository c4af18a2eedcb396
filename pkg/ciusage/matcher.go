package ciusage

import (
	"time"

	"github.com/dlclark/regexp2"
	"github.com/m-mizutani/goerr/v2"
)

// CommandMatcher decides whether a shell command of a "run" step is a build or test command
type CommandMatcher interface {
	Match(cmd string) bool
}

// CommandMatcherFunc adapts a function to CommandMatcher
type CommandMatcherFunc func(cmd string) bool

func (f CommandMatcherFunc) Match(cmd string) bool { return f(cmd) }

// Build command patterns. They need lookahead, which RE2 does not support.
const (
	PatternJavaScript = `.*(^|\s|\/)(npm\s+(install|ci|test|build)|npm\s+run\s+(build|test|ci))($|\s)`
	PatternGradle     = `.*(^|\s|\/)gradlew?((?=\s).*\s)(build|test)($|\s)`
	PatternMaven      = `.*(^|\s|\/)mvn((?=\s).*\s)(install|package|compile|test|verify)($|\s)`
	PatternMake       = `.*(^|\s|\/)c?make($|\s)`
	PatternJavac      = `.*(^|\s|\/)javac($|\s)`
	PatternRuby       = `.*(^|\s|\/)rake($|\s)|.*(^|\s|\/)bundle((?=\s).*\s)(install|exec)($|\s)`
	PatternPython     = `.*(^|\s|\/)(python(2|3)?|pip\s+install|pytest)($|\s)`
)

// DefaultPatterns are the build command patterns of the supported languages
var DefaultPatterns = []string{
	PatternJavaScript,
	PatternGradle,
	PatternMaven,
	PatternMake,
	PatternJavac,
	PatternRuby,
	PatternPython,
}

const matchTimeout = time.Second

// RegexMatcher matches a command if any pattern finds a match in it
type RegexMatcher struct {
	patterns []*regexp2.Regexp
}

func NewRegexMatcher(patterns ...string) (*RegexMatcher, error) {
	m := &RegexMatcher{}
	for _, p := range patterns {
		re, err := regexp2.Compile(p, regexp2.None)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to compile command pattern", goerr.V("pattern", p))
		}
		re.MatchTimeout = matchTimeout
		m.patterns = append(m.patterns, re)
	}
	return m, nil
}

// NewDefaultMatcher returns a matcher of DefaultPatterns
func NewDefaultMatcher() *RegexMatcher {
	m, err := NewRegexMatcher(DefaultPatterns...)
	if err != nil {
		panic(err)
	}
	return m
}

func (x *RegexMatcher) Match(cmd string) bool {
	for _, re := range x.patterns {
		// A timeout is reported as an error and treated as no match
		if ok, err := re.MatchString(cmd); err == nil && ok {
			return true
		}
	}
	return false
}
