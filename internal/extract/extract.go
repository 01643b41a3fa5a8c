// Package extract locates the chat reply inside a Langflow run response.
// The upstream response shape is not contractually fixed, so extraction is a
// structured walk over the known nesting first, then a recursive search for
// reply-ish keys. Both phases are pure functions over a parsed Value.
package extract

import "strings"

// FallbackReply is substituted by callers when no reply text can be found.
const FallbackReply = "I received your message but couldn't generate a proper response."

// fallbackKeys are the object keys the recursive search accepts as a reply.
var fallbackKeys = map[string]bool{
	"text":     true,
	"content":  true,
	"response": true,
	"output":   true,
}

// Reply returns the best candidate reply text in v.
//
// Phase 1 walks the known outputs[].outputs[].results nesting and
// short-circuits on the first string it resolves, with precedence
// message.text > message-as-string > results.text > results-as-string.
// Phase 2 runs only when Phase 1 yields nothing: a depth-first search that
// accepts the first non-blank string under a reply-ish key.
func Reply(v Value) (string, bool) {
	if s, ok := walkOutputs(v); ok {
		return s, true
	}
	return search(v)
}

func walkOutputs(v Value) (string, bool) {
	root, ok := v.(Object)
	if !ok {
		return "", false
	}
	outerVal, ok := root.Get("outputs")
	if !ok {
		return "", false
	}
	outer, ok := outerVal.(Array)
	if !ok {
		return "", false
	}
	for _, entry := range outer {
		obj, ok := entry.(Object)
		if !ok {
			continue
		}
		innerVal, ok := obj.Get("outputs")
		if !ok {
			continue
		}
		inner, ok := innerVal.(Array)
		if !ok || len(inner) == 0 {
			continue
		}
		for _, item := range inner {
			itemObj, ok := item.(Object)
			if !ok {
				continue
			}
			resultsVal, ok := itemObj.Get("results")
			if !ok {
				continue
			}
			switch results := resultsVal.(type) {
			case Object:
				if msg, ok := results.Get("message"); ok {
					// message takes precedence over a sibling "text";
					// a message of any other shape yields nothing here.
					switch m := msg.(type) {
					case Object:
						if t, ok := m.Get("text"); ok {
							if s, ok := t.(String); ok {
								return string(s), true
							}
						}
					case String:
						return string(m), true
					}
				} else if t, ok := results.Get("text"); ok {
					if s, ok := t.(String); ok {
						return string(s), true
					}
				}
			case String:
				return string(results), true
			}
			// results as an array (or anything else) falls through to
			// the recursive search.
		}
	}
	return "", false
}

func search(v Value) (string, bool) {
	switch val := v.(type) {
	case Object:
		for _, m := range val {
			if fallbackKeys[m.Key] {
				if s, ok := m.Value.(String); ok && strings.TrimSpace(string(s)) != "" {
					return string(s), true
				}
			}
			if s, ok := search(m.Value); ok {
				return s, true
			}
		}
	case Array:
		for _, elem := range val {
			if s, ok := search(elem); ok {
				return s, true
			}
		}
	}
	return "", false
}
