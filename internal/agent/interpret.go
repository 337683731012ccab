package agent

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"answerthere/internal/protocol"
)

// Interpretation is the outcome of classifying a model response: either a
// tool call to dispatch (Op non-nil) or plain text to show the user.
type Interpretation struct {
	Op   Operation
	Text string
}

var directCommandPattern = regexp.MustCompile(`^(read_query|list_tables|describe_table|describe-table)\s*(.*)$`)

// ParseDirectCommand recognizes structured commands typed at the prompt.
// These bypass the model entirely and go straight to dispatch.
func ParseDirectCommand(input string) (Operation, bool) {
	m := directCommandPattern.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return nil, false
	}
	command, args := m[1], strings.TrimSpace(m[2])
	switch command {
	case protocol.ToolNameReadQuery:
		if args == "" {
			return nil, false
		}
		return ReadQuery{Query: args}, true
	case protocol.ToolNameListTables:
		return ListTables{}, true
	case protocol.ToolNameDescribeTable, "describe-table":
		if args == "" {
			return nil, false
		}
		return DescribeTable{TableName: args}, true
	}
	return nil, false
}

// Prose-intent rules, checked in order; first match wins. Best effort: the
// model was asked for a structured block but may answer in prose instead.
// Kept as a table so the fallback can be swapped without touching dispatch.
type intentRule struct {
	pattern *regexp.Regexp
	build   func(m []string) Operation
}

var intentRules = []intentRule{
	{
		pattern: regexp.MustCompile(`(?i)\b(?:list|show|what)\s+tables\b`),
		build:   func([]string) Operation { return ListTables{} },
	},
	{
		pattern: regexp.MustCompile(`(?i)\bdescribe\s+table\s+(\w+)`),
		build:   func(m []string) Operation { return DescribeTable{TableName: strings.ToLower(m[1])} },
	},
	{
		pattern: regexp.MustCompile(`(?i)\bfrom\s+the\s+(\w+)`),
		build: func(m []string) Operation {
			return ReadQuery{Query: fmt.Sprintf("SELECT * FROM %s LIMIT 10", strings.ToLower(m[1]))}
		},
	},
}

func matchIntent(text string) Operation {
	for _, rule := range intentRules {
		if m := rule.pattern.FindStringSubmatch(text); m != nil {
			return rule.build(m)
		}
	}
	return nil
}

// Interpret classifies raw model output. Ordered, first match wins:
//
//  1. Text fully wrapped in {...} is decoded as JSON; decode failure falls
//     back to plain text, never an error.
//  2. A mapping with both "name" and "input" keys is a candidate tool call.
//  3. Unknown names and missing parameters are reported as text, not raised.
//  4. Otherwise the prose-intent rules run over the text.
//  5. An empty response re-examines the latest user message instead of the
//     assistant's own empty text, to recover an actionable default.
func Interpret(raw, lastUserMessage string) Interpretation {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		if op := matchIntent(lastUserMessage); op != nil {
			return Interpretation{Op: op}
		}
		return Interpretation{Text: raw}
	}

	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
			return Interpretation{Text: raw}
		}
		name, hasName := decoded["name"].(string)
		input, hasInput := decoded["input"].(map[string]any)
		if hasName && hasInput {
			op, err := OperationFromCall(name, input)
			if err != nil {
				return Interpretation{Text: recoveredText(err)}
			}
			return Interpretation{Op: op}
		}
		return Interpretation{Text: raw}
	}

	if op := matchIntent(trimmed); op != nil {
		return Interpretation{Op: op}
	}
	return Interpretation{Text: raw}
}

// recoveredText turns a recovered interpretation error into the message the
// user sees, with a hint to fall back to a direct command.
func recoveredText(err error) string {
	return err.Error() + "; try a direct command like 'read_query <SQL>', 'list_tables' or 'describe_table <name>'"
}
