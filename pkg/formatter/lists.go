package formatter

import (
	"html"
	"strconv"
	"strings"
)

type listScope struct {
	ordered bool
	level   int
	liOpen  bool
}

// listStack tracks open <ol>/<ul> scopes. A nested list is opened inside
// the parent's still-open <li>.
type listStack struct {
	out    *strings.Builder
	scopes []listScope
}

func (s *listStack) top() *listScope {
	if len(s.scopes) == 0 {
		return nil
	}
	return &s.scopes[len(s.scopes)-1]
}

func (s *listStack) item(level int, ordered bool, label, content string) {
	for top := s.top(); top != nil && top.level > level; top = s.top() {
		s.closeTop()
	}

	if top := s.top(); top != nil && top.level == level && top.ordered != ordered {
		s.closeTop()
	}

	top := s.top()
	if top != nil && top.level == level {
		if top.liOpen {
			s.out.WriteString(`</li>`)
			top.liOpen = false
		}
	} else {
		s.open(level, ordered)
		top = s.top()
	}

	if ordered {
		escaped := html.EscapeString(label)
		s.out.WriteString(`<li data-label="` + escaped + `"><span class="list-label">` + escaped + `</span> `)
	} else {
		s.out.WriteString(`<li>`)
	}
	s.out.WriteString(content)
	top.liOpen = true
}

func (s *listStack) open(level int, ordered bool) {
	if ordered {
		s.out.WriteString(`<ol class="response-list ordered">`)
	} else {
		s.out.WriteString(`<ul class="response-list">`)
	}
	s.scopes = append(s.scopes, listScope{ordered: ordered, level: level})
}

func (s *listStack) closeTop() {
	top := s.top()
	if top.liOpen {
		s.out.WriteString(`</li>`)
	}
	if top.ordered {
		s.out.WriteString(`</ol>`)
	} else {
		s.out.WriteString(`</ul>`)
	}
	s.scopes = s.scopes[:len(s.scopes)-1]
}

func (s *listStack) closeAll() {
	for len(s.scopes) > 0 {
		s.closeTop()
	}
}

// autoNest decides where bare "N." items go. After a top-level item P, a
// bare item that is indented or does not continue the sequence (N != P+1)
// becomes child P.k of the last top-level item.
type autoNest struct {
	active   bool
	parent   int
	children int
}

func (a *autoNest) reset() {
	*a = autoNest{}
}

// number returns the level and label for a bare numbered item.
func (a *autoNest) number(indent int, digits string) (int, string) {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 1, digits
	}

	if a.active && (indent >= 2 || n != a.parent+1) {
		a.children++
		return 2, strconv.Itoa(a.parent) + "." + strconv.Itoa(a.children)
	}

	*a = autoNest{active: true, parent: n}
	return 1, digits
}

// explicit keeps the child counter in step with dotted labels written out
// by the model, so "2.1" followed by a bare item continues at "2.2".
func (a *autoNest) explicit(label string) {
	parts := strings.Split(label, ".")
	if len(parts) != 2 {
		return
	}
	parent, err := strconv.Atoi(parts[0])
	if err != nil {
		return
	}
	child, err := strconv.Atoi(parts[1])
	if err != nil {
		return
	}
	if !a.active || a.parent != parent {
		*a = autoNest{active: true, parent: parent}
	}
	if child > a.children {
		a.children = child
	}
}
