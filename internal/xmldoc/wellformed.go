package xmldoc

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// checkNames rejects what encoding/xml lets through but a namespace-aware
// XML parser does not: malformed qualified names, duplicate attributes and
// prefixes without an xmlns declaration in scope.
func checkNames(e *etree.Element, scope map[string]bool) error {
	if err := checkQName(e.Space, e.Tag); err != nil {
		return err
	}
	if e.Space == "xmlns" {
		return fmt.Errorf("element <%s> uses the reserved xmlns prefix", e.FullTag())
	}

	seen := make(map[string]bool, len(e.Attr))
	var declared map[string]bool
	for _, a := range e.Attr {
		if err := checkQName(a.Space, a.Key); err != nil {
			return err
		}
		key := a.FullKey()
		if seen[key] {
			return fmt.Errorf("duplicate attribute %q on <%s>", key, e.FullTag())
		}
		seen[key] = true

		if a.Space == "xmlns" {
			if a.Value == "" {
				return fmt.Errorf("empty namespace declaration for prefix %q", a.Key)
			}
			if declared == nil {
				declared = make(map[string]bool, len(scope)+1)
				for p := range scope {
					declared[p] = true
				}
			}
			declared[a.Key] = true
		}
	}
	if declared != nil {
		scope = declared
	}

	if e.Space != "" && !scope[e.Space] {
		return fmt.Errorf("undeclared namespace prefix %q on <%s>", e.Space, e.FullTag())
	}
	for _, a := range e.Attr {
		if a.Space != "" && a.Space != "xmlns" && !scope[a.Space] {
			return fmt.Errorf("undeclared namespace prefix %q on attribute %q", a.Space, a.FullKey())
		}
	}

	for _, child := range e.ChildElements() {
		if err := checkNames(child, scope); err != nil {
			return err
		}
	}
	return nil
}

// checkQName rejects names encoding/xml could not split into prefix and
// local part, such as "a:b:c", ":a" or "a:".
func checkQName(space, local string) error {
	if local == "" || strings.Contains(local, ":") {
		name := local
		if space != "" {
			name = space + ":" + local
		}
		return fmt.Errorf("invalid qualified name %q", name)
	}
	return nil
}
