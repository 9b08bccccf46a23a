// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

// objectStream is the object list of one message, consumed left to right
// by a grammar. Protocol errors found on the way are collected in errs.
type objectStream struct {
	objs []Object
	errs []*ErrorMessage
}

func (s *objectStream) empty() bool {
	return len(s.objs) == 0
}

func (s *objectStream) peek() Object {
	if s.empty() {
		return nil
	}
	return s.objs[0]
}

func (s *objectStream) pop() Object {
	o := s.peek()
	if o != nil {
		s.objs = s.objs[1:]
	}
	return o
}

func (s *objectStream) addError(code PCEPError, rp *RPObject) {
	s.errs = append(s.errs, NewErrorMessageFromCode(code, rp))
}

func (s *objectStream) hasError(code PCEPError) bool {
	for _, m := range s.errs {
		for _, e := range m.Errors {
			if e.Code() == code {
				return true
			}
		}
	}
	return false
}

// finish fails when objects are left after the grammar matched.
func (s *objectStream) finish() error {
	if s.empty() {
		return nil
	}
	return unprocessedObjects(s.objs)
}

func peekIs[T Object](s *objectStream) bool {
	_, ok := s.peek().(T)
	return ok
}

func popIf[T Object](s *objectStream) (T, bool) {
	o, ok := s.peek().(T)
	if ok {
		s.pop()
	}
	return o, ok
}

func popAll[T Object](s *objectStream) []T {
	var list []T
	for {
		o, ok := popIf[T](s)
		if !ok {
			return list
		}
		list = append(list, o)
	}
}

// grammarStep is one position of an ordered object chain.
type grammarStep struct {
	match  func(o Object) bool
	repeat bool
	// jump moves the chain back to an earlier position after a match.
	jump int
}

func one[T Object](dst *T) grammarStep {
	return grammarStep{
		match: func(o Object) bool {
			v, ok := o.(T)
			if ok {
				*dst = v
			}
			return ok
		},
		jump: -1,
	}
}

func many[T Object](dst *[]T) grammarStep {
	return grammarStep{
		match: func(o Object) bool {
			v, ok := o.(T)
			if ok {
				*dst = append(*dst, v)
			}
			return ok
		},
		repeat: true,
		jump:   -1,
	}
}

func custom(match func(o Object) bool) grammarStep {
	return grammarStep{match: match, jump: -1}
}

func (g grammarStep) repeated() grammarStep {
	g.repeat = true
	return g
}

// grammarChain matches objects against steps in order. A step that does
// not match is skipped without consuming the object; the chain ends at the
// first object no remaining step accepts.
type grammarChain struct {
	s     *objectStream
	steps []grammarStep
	pos   int
}

func newChain(s *objectStream, steps ...grammarStep) *grammarChain {
	return &grammarChain{s: s, steps: steps}
}

// next consumes one object and reports whether it matched. The object is
// taken off the stream while steps look at it, so a step may consume the
// objects that follow it.
func (c *grammarChain) next() bool {
	if c.s.empty() {
		return false
	}
	rest := c.s.objs
	o := c.s.pop()
	for i := c.pos; i < len(c.steps); i++ {
		step := c.steps[i]
		if !step.match(o) {
			continue
		}
		switch {
		case step.jump >= 0:
			c.pos = step.jump
		case step.repeat:
			c.pos = i
		default:
			c.pos = i + 1
		}
		return true
	}
	c.s.objs = rest
	c.pos = len(c.steps)
	return false
}

func (c *grammarChain) run() {
	for c.next() {
	}
}

func runChain(s *objectStream, steps ...grammarStep) {
	newChain(s, steps...).run()
}

// MetricPCE is the per-PCE monitoring data: PCE-ID, PROC-TIME?, OVERLOAD?.
type MetricPCE struct {
	PCEID    *PCEIDObject
	ProcTime *ProcTimeObject
	Overload *OverloadObject
}

func (m *MetricPCE) objects() []Object {
	return []Object{m.PCEID, m.ProcTime, m.Overload}
}

func parseMetricPCEs(s *objectStream) []*MetricPCE {
	var list []*MetricPCE
	for {
		pceID, ok := popIf[*PCEIDObject](s)
		if !ok {
			return list
		}
		m := &MetricPCE{PCEID: pceID}
		m.ProcTime, _ = popIf[*ProcTimeObject](s)
		m.Overload, _ = popIf[*OverloadObject](s)
		list = append(list, m)
	}
}

func metricPCEObjects(list []*MetricPCE) []Object {
	var objs []Object
	for _, m := range list {
		objs = append(objs, m.objects()...)
	}
	return objs
}

func asObjects[T Object](list []T) []Object {
	objs := make([]Object, 0, len(list))
	for _, o := range list {
		objs = append(objs, o)
	}
	return objs
}
