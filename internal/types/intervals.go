package types

import (
	"fmt"
	"strings"

	"github.com/jacoelho/yang/internal/num"
	"github.com/jacoelho/yang/schema"
)

// valueKind selects how interval bounds are parsed.
type valueKind uint8

const (
	kindInteger valueKind = iota
	kindDecimal
	kindLength
)

type interval struct {
	lo, hi num.Dec
	loText string
	hiText string
}

// parseBound parses one bound; ints and lengths are rendered canonically,
// decimals keep their canonical decimal form.
func parseBound(text string, kind valueKind, fd uint8) (num.Dec, string, error) {
	switch kind {
	case kindDecimal:
		d, ok := num.CheckDecimal64([]byte(text), uint32(fd))
		if !ok {
			return num.Dec{}, "", fmt.Errorf("'%s' is not a valid decimal64 value with %d fraction digits", text, fd)
		}
		return d, string(d.RenderCanonical(nil)), nil
	default:
		v, err := num.ParseInt([]byte(text))
		if err != nil {
			return num.Dec{}, "", fmt.Errorf("'%s' is not a valid integer", text)
		}
		if kind == kindLength && v.Sign < 0 {
			return num.Dec{}, "", fmt.Errorf("length bound '%s' is negative", text)
		}
		return v.AsDec(), renderInt(v), nil
	}
}

func toIntervals(in []schema.Interval, kind valueKind, fd uint8) ([]interval, error) {
	out := make([]interval, 0, len(in))
	for _, iv := range in {
		lo, loText, err := parseBound(iv.Min, kind, fd)
		if err != nil {
			return nil, err
		}
		hi, hiText, err := parseBound(iv.Max, kind, fd)
		if err != nil {
			return nil, err
		}
		out = append(out, interval{lo: lo, hi: hi, loText: loText, hiText: hiText})
	}
	return out, nil
}

// narrowIntervals parses a range or length argument against the effective
// intervals of the base type. "min" and "max" bind to the base bounds; every
// part must be ascending, disjoint from the previous one and contained in a
// single base interval.
func narrowIntervals(stmt, arg string, base []schema.Interval, kind valueKind, fd uint8) ([]schema.Interval, error) {
	parent, err := toIntervals(base, kind, fd)
	if err != nil {
		return nil, err
	}
	if len(parent) == 0 {
		return nil, fmt.Errorf("Invalid %s constraint: base type has no %s", stmt, stmt)
	}
	bound := func(text string) (num.Dec, string, error) {
		switch text {
		case "min":
			return parent[0].lo, parent[0].loText, nil
		case "max":
			last := parent[len(parent)-1]
			return last.hi, last.hiText, nil
		}
		return parseBound(text, kind, fd)
	}

	var out []schema.Interval
	var prev *interval
	for part := range strings.SplitSeq(arg, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			return nil, fmt.Errorf("Invalid %s constraint '%s': empty part", stmt, arg)
		}
		loText, hiText := part, part
		if before, after, ok := strings.Cut(part, ".."); ok {
			loText, hiText = strings.TrimSpace(before), strings.TrimSpace(after)
		}
		cur := interval{}
		if cur.lo, cur.loText, err = bound(loText); err != nil {
			return nil, fmt.Errorf("Invalid %s constraint '%s': %w", stmt, arg, err)
		}
		if cur.hi, cur.hiText, err = bound(hiText); err != nil {
			return nil, fmt.Errorf("Invalid %s constraint '%s': %w", stmt, arg, err)
		}
		if cur.lo.Compare(cur.hi) > 0 {
			return nil, fmt.Errorf("Invalid %s constraint '%s': %s is greater than %s", stmt, arg, cur.loText, cur.hiText)
		}
		if prev != nil && prev.hi.Compare(cur.lo) >= 0 {
			return nil, fmt.Errorf("Invalid %s constraint '%s': parts must be ascending and disjoint", stmt, arg)
		}
		if !containedIn(cur, parent) {
			return nil, fmt.Errorf("Invalid %s constraint '%s': %s..%s is not within the base type", stmt, arg, cur.loText, cur.hiText)
		}
		out = append(out, schema.Interval{Min: cur.loText, Max: cur.hiText})
		prev = &cur
	}
	return out, nil
}

func containedIn(cur interval, parent []interval) bool {
	for _, p := range parent {
		if p.lo.Compare(cur.lo) <= 0 && cur.hi.Compare(p.hi) <= 0 {
			return true
		}
	}
	return false
}

func inIntervals(v num.Dec, ivs []schema.Interval, kind valueKind, fd uint8) bool {
	parsed, err := toIntervals(ivs, kind, fd)
	if err != nil {
		return false
	}
	for _, iv := range parsed {
		if iv.lo.Compare(v) <= 0 && v.Compare(iv.hi) <= 0 {
			return true
		}
	}
	return false
}
