// Package script parses chart scripts, the line-based files that describe
// how a level is choreographed. Each non-comment line is one statement:
//
//	BPM 150
//	SKIP 16
//	midibeat lead "lead.mid"
//	position botleft (-50, -50)
//	group 2
//	spawn enemy=bullet start=16 freq=4 lerps=(botleft, origin, botright, origin)
//	fadeout t=100 group=2 fade=1
//	rotate start=32 duration=8 group=2 center=origin from=0 to=360
//
// Values are floats, bare or quoted strings, and parenthesized tuples.
// Parsing is strict: a bad line fails the whole script with its line number.
package script

import (
	"fmt"
	"strconv"
	"strings"
)

type StmtKind int

const (
	StmtBPM StmtKind = iota + 1
	StmtSkip
	StmtMidibeat
	StmtPosition
	StmtGroup
	StmtSpawn
	StmtFadeout
	StmtRotate
)

// Stmt is one parsed line. Name/Path serve midibeat and position lines,
// Value serves BPM/SKIP/group, X/Y serve position, Kwargs serve the
// keyword-argument statements.
type Stmt struct {
	Kind   StmtKind
	Line   int
	Name   string
	Path   string
	Value  float64
	X, Y   float64
	Kwargs []Kwarg
}

type Kwarg struct {
	Key string
	Val Value
}

type ValueKind int

const (
	ValString ValueKind = iota + 1
	ValFloat
	ValTuple
)

type Value struct {
	Kind  ValueKind
	Str   string
	Num   float64
	Tuple []Value
}

func (v Value) String() string {
	switch v.Kind {
	case ValString:
		return v.Str
	case ValFloat:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case ValTuple:
		parts := make([]string, len(v.Tuple))
		for i, t := range v.Tuple {
			parts[i] = t.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return "?"
}

// Parse parses a whole script. Lines starting with # and blank lines are
// skipped.
func Parse(src string) ([]Stmt, error) {
	var stmts []Stmt
	for lineNum, raw := range strings.Split(src, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		stmt, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q: %w", lineNum+1, line, err)
		}
		stmt.Line = lineNum + 1
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func parseLine(line string) (Stmt, error) {
	word, rest := splitWord(line)
	switch word {
	case "BPM":
		v, err := parseLoneFloat(rest)
		return Stmt{Kind: StmtBPM, Value: v}, err
	case "SKIP":
		v, err := parseLoneFloat(rest)
		return Stmt{Kind: StmtSkip, Value: v}, err
	case "group":
		v, err := parseLoneFloat(rest)
		if err == nil && v != float64(int(v)) {
			err = fmt.Errorf("group must be an integer, got %v", v)
		}
		return Stmt{Kind: StmtGroup, Value: v}, err
	case "midibeat":
		return parseMidibeat(rest)
	case "position":
		return parsePosition(rest)
	case "spawn":
		kwargs, err := parseKwargs(rest)
		return Stmt{Kind: StmtSpawn, Kwargs: kwargs}, err
	case "fadeout":
		kwargs, err := parseKwargs(rest)
		return Stmt{Kind: StmtFadeout, Kwargs: kwargs}, err
	case "rotate":
		kwargs, err := parseKwargs(rest)
		return Stmt{Kind: StmtRotate, Kwargs: kwargs}, err
	default:
		return Stmt{}, fmt.Errorf("unknown statement %q", word)
	}
}

func parseMidibeat(rest string) (Stmt, error) {
	name, rest := splitWord(rest)
	if name == "" {
		return Stmt{}, fmt.Errorf("midibeat needs a name and a path")
	}
	val, next, err := parseValue(rest, 0)
	if err != nil {
		return Stmt{}, err
	}
	if val.Kind != ValString || strings.TrimSpace(rest[next:]) != "" {
		return Stmt{}, fmt.Errorf("midibeat needs a single path string")
	}
	return Stmt{Kind: StmtMidibeat, Name: name, Path: val.Str}, nil
}

func parsePosition(rest string) (Stmt, error) {
	name, rest := splitWord(rest)
	if name == "" {
		return Stmt{}, fmt.Errorf("position needs a name and a point")
	}
	val, next, err := parseValue(rest, 0)
	if err != nil {
		return Stmt{}, err
	}
	if strings.TrimSpace(rest[next:]) != "" {
		return Stmt{}, fmt.Errorf("trailing input after point")
	}
	x, y, ok := val.FloatPair()
	if !ok {
		return Stmt{}, fmt.Errorf("position needs a tuple of two floats, got %s", val)
	}
	return Stmt{Kind: StmtPosition, Name: name, X: x, Y: y}, nil
}

func parseLoneFloat(rest string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
	if err != nil {
		return 0, fmt.Errorf("expected a number, got %q", strings.TrimSpace(rest))
	}
	return v, nil
}

// parseKwargs parses a space-separated key=value list. Duplicate keys are an
// error here rather than at use time, so the author learns about the clash
// even when the key is optional.
func parseKwargs(rest string) ([]Kwarg, error) {
	var kwargs []Kwarg
	seen := map[string]bool{}
	i := skipSpace(rest, 0)
	for i < len(rest) {
		key, next, err := parseBareString(rest, i)
		if err != nil {
			return nil, err
		}
		if next >= len(rest) || rest[next] != '=' {
			return nil, fmt.Errorf("expected '=' after %q", key)
		}
		val, after, err := parseValue(rest, next+1)
		if err != nil {
			return nil, err
		}
		if seen[key] {
			return nil, fmt.Errorf("duplicate kwarg %q", key)
		}
		seen[key] = true
		kwargs = append(kwargs, Kwarg{Key: key, Val: val})
		i = skipSpace(rest, after)
	}
	return kwargs, nil
}

func parseValue(s string, i int) (Value, int, error) {
	i = skipSpace(s, i)
	if i >= len(s) {
		return Value{}, i, fmt.Errorf("expected a value")
	}
	switch {
	case s[i] == '(':
		return parseTuple(s, i)
	case s[i] == '"':
		return parseQuoted(s, i)
	case s[i] == '-' || s[i] == '+' || s[i] == '.' || isDigit(s[i]):
		return parseFloat(s, i)
	default:
		str, next, err := parseBareString(s, i)
		return Value{Kind: ValString, Str: str}, next, err
	}
}

func parseTuple(s string, i int) (Value, int, error) {
	i++ // consume '('
	var items []Value
	for {
		i = skipSpace(s, i)
		if i < len(s) && s[i] == ')' {
			return Value{Kind: ValTuple, Tuple: items}, i + 1, nil
		}
		if len(items) > 0 {
			if i >= len(s) || s[i] != ',' {
				return Value{}, i, fmt.Errorf("expected ',' or ')' in tuple")
			}
			i = skipSpace(s, i+1)
		}
		item, next, err := parseValue(s, i)
		if err != nil {
			return Value{}, next, err
		}
		items = append(items, item)
		i = next
	}
}

func parseQuoted(s string, i int) (Value, int, error) {
	end := strings.IndexByte(s[i+1:], '"')
	if end < 0 {
		return Value{}, i, fmt.Errorf("unterminated string literal")
	}
	return Value{Kind: ValString, Str: s[i+1 : i+1+end]}, i + end + 2, nil
}

func parseFloat(s string, i int) (Value, int, error) {
	j := i
	if j < len(s) && (s[j] == '-' || s[j] == '+') {
		j++
	}
	for j < len(s) && (isDigit(s[j]) || s[j] == '.' || s[j] == 'e' || s[j] == 'E') {
		j++
	}
	v, err := strconv.ParseFloat(s[i:j], 64)
	if err != nil {
		return Value{}, j, fmt.Errorf("bad number %q", s[i:j])
	}
	return Value{Kind: ValFloat, Num: v}, j, nil
}

func parseBareString(s string, i int) (string, int, error) {
	if i >= len(s) || !isAlpha(s[i]) {
		return "", i, fmt.Errorf("expected a name at %q", s[i:])
	}
	j := i + 1
	for j < len(s) && (isAlpha(s[j]) || isDigit(s[j]) || s[j] == '_' || s[j] == '.') {
		j++
	}
	return s[i:j], j, nil
}

func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, ' '); idx >= 0 {
		return s[:idx], strings.TrimSpace(s[idx+1:])
	}
	return s, ""
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// FloatPair unpacks a two-float tuple.
func (v Value) FloatPair() (float64, float64, bool) {
	if v.Kind != ValTuple || len(v.Tuple) != 2 {
		return 0, 0, false
	}
	if v.Tuple[0].Kind != ValFloat || v.Tuple[1].Kind != ValFloat {
		return 0, 0, false
	}
	return v.Tuple[0].Num, v.Tuple[1].Num, true
}

// Kwargs indexes a kwarg list by key.
type Kwargs map[string]Value

func IndexKwargs(list []Kwarg) Kwargs {
	m := make(Kwargs, len(list))
	for _, kw := range list {
		m[kw.Key] = kw.Val
	}
	return m
}

func (k Kwargs) Float(key string) (float64, bool) {
	v, ok := k[key]
	if !ok || v.Kind != ValFloat {
		return 0, false
	}
	return v.Num, true
}

func (k Kwargs) FloatOr(key string, def float64) float64 {
	if v, ok := k.Float(key); ok {
		return v
	}
	return def
}

func (k Kwargs) Str(key string) (string, bool) {
	v, ok := k[key]
	if !ok || v.Kind != ValString {
		return "", false
	}
	return v.Str, true
}

func (k Kwargs) Tuple(key string) ([]Value, bool) {
	v, ok := k[key]
	if !ok || v.Kind != ValTuple {
		return nil, false
	}
	return v.Tuple, true
}
