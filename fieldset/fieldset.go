// Package fieldset enforces update whitelists. The check is a plain set
// comparison over the top-level keys of a JSON object, done before any
// decoding into typed structs: a request naming even one field outside the
// allowed set is rejected whole, so no mutation is ever partially applied.
package fieldset

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Allowed verifies that every top-level key of the JSON object doc is a
// member of allowed. It returns an error naming the offending fields
// otherwise. An empty object passes.
func Allowed(doc []byte, allowed ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(doc, &fields); err != nil {
		return fmt.Errorf("body must be a JSON object: %w", err)
	}

	allowedSet := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = true
	}

	var disallowed []string
	for name := range fields {
		if !allowedSet[name] {
			disallowed = append(disallowed, name)
		}
	}
	if len(disallowed) > 0 {
		sort.Strings(disallowed)
		return fmt.Errorf("disallowed fields: %s", strings.Join(disallowed, ", "))
	}
	return nil
}
